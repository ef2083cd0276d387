package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"brainmapp/adapters/excel"
	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
	"brainmapp/internal/mesh"
	"brainmapp/internal/overlap"
	"brainmapp/internal/render"
	"brainmapp/internal/session"
	"brainmapp/ui/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type scanRequest struct {
	Root string `json:"root"`
}

type panelRequest struct {
	Model      string `json:"model" binding:"required"`
	Term       string `json:"term" binding:"required"`
	Display    string `json:"display"`
	Surface    string `json:"surface"`
	Resolution string `json:"resolution"`
}

type viewRequest struct {
	Surface    string `json:"surface"`
	Resolution string `json:"resolution"`
}

// ModelInfo lists one catalog model with its selectable terms.
type ModelInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Measure string   `json:"measure"`
	Terms   []string `json:"terms"`
}

func modelInfos(catalog results.Catalog) []ModelInfo {
	keys := catalog.Keys()
	out := make([]ModelInfo, 0, len(keys))
	for _, k := range keys {
		m := catalog[k]
		out = append(out, ModelInfo{
			ID:      k.String(),
			Name:    k.Name,
			Measure: k.Measure,
			Terms:   append([]string(nil), m.Order...),
		})
	}
	return out
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid scan request: "+err.Error()))
		return
	}
	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = s.deps.Config.Results.DefaultRoot
	}
	if root == "" {
		writeError(c, errors.InvalidInput("results directory is required"))
		return
	}

	sess := middleware.CurrentSession(c)
	res, err := s.deps.Sessions.Scan(c.Request.Context(), sess, root)
	if err != nil {
		writeError(c, err)
		return
	}

	diagnostics := res.Diagnostics
	if diagnostics == nil {
		diagnostics = []results.Diagnostic{}
	}
	c.JSON(http.StatusOK, gin.H{
		"root":        res.Root,
		"models":      modelInfos(res.Catalog),
		"diagnostics": diagnostics,
	})
}

func (s *Server) handleModels(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"root":   sess.Root(),
		"models": modelInfos(sess.Catalog()),
	})
}

func (s *Server) handleTerms(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	key, err := results.ParseModelKey(c.Param("model"))
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}
	m, ok := sess.Catalog()[key]
	if !ok {
		writeError(c, errors.NotFound("model "+key.String()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model": key.String(),
		"terms": m.Order,
	})
}

func (s *Server) handlePanelUpdate(c *gin.Context) {
	id, err := parsePanel(c.Param("panel"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req panelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid panel request: "+err.Error()))
		return
	}

	sess := middleware.CurrentSession(c)
	state, err := s.panelState(sess.Catalog(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	token := sess.Begin(id, state)
	res, err := s.deps.Loader.Load(c.Request.Context(), sess.Catalog(), state.Selection, state.Resolution.Nodes())
	if err != nil {
		writeError(c, err)
		return
	}
	meshes, err := mesh.Pair(s.deps.Meshes, state.Resolution, state.Style)
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}
	if !sess.Current(id, token) {
		c.JSON(http.StatusConflict, gin.H{"stale": true, "message": "superseded by a newer request"})
		return
	}

	var figures []render.Figure
	if state.Display == surface.Clusters {
		figures = render.ClusterFigures(res, meshes, s.style)
	} else {
		figures = render.BetaFigures(res, meshes, s.style)
	}

	c.JSON(http.StatusOK, gin.H{
		"panel":     int(id),
		"selection": state.Selection.String(),
		"display":   state.Display,
		"summary":   res.Summary,
		"info":      panelInfo(res.Summary),
		"figures":   figures,
	})
}

func (s *Server) handlePanelExport(c *gin.Context) {
	id, err := parsePanel(c.Param("panel"))
	if err != nil {
		writeError(c, err)
		return
	}
	sess := middleware.CurrentSession(c)
	state, ok := sess.Panel(id)
	if !ok {
		writeError(c, errors.InvalidInput(fmt.Sprintf("panel %d has no selection", id)))
		return
	}
	res, err := s.deps.Loader.Load(c.Request.Context(), sess.Catalog(), state.Selection, state.Resolution.Nodes())
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteSummaryReport(&buf, res); err != nil {
		writeError(c, errors.Wrap(err, "failed to write summary workbook"))
		return
	}
	sendWorkbook(c, fmt.Sprintf("brainmapp-panel%d.xlsx", id), buf.Bytes())
}

func (s *Server) handleOverlap(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid overlap request: "+err.Error()))
		return
	}
	view, err := s.viewState(req.Surface, req.Resolution)
	if err != nil {
		writeError(c, err)
		return
	}

	sess := middleware.CurrentSession(c)
	sess.SetOverlapView(view)
	res, err := s.computeOverlap(c, sess, view)
	if errors.IsCode(err, errors.CodeOverlapError) {
		c.JSON(http.StatusOK, gin.H{"overlap": false, "message": overlap.NoOverlapMessage})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	meshes, err := mesh.Pair(s.deps.Meshes, view.Resolution, view.Style)
	if err != nil {
		writeError(c, errors.InvalidInput(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"overlap": true,
		"a":       res.A.String(),
		"b":       res.B.String(),
		"summary": res.Summary,
		"info":    overlapInfo(res),
		"legend":  overlapLegend(res, s.style.OverlapColors),
		"figures": render.OverlapFigures(res, meshes, s.style),
	})
}

func (s *Server) handleOverlapExport(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	view := sess.OverlapView()
	if view.Resolution == "" {
		var err error
		if view, err = s.viewState("", ""); err != nil {
			writeError(c, err)
			return
		}
	}

	res, err := s.computeOverlap(c, sess, view)
	if errors.IsCode(err, errors.CodeOverlapError) {
		c.JSON(http.StatusOK, gin.H{"overlap": false, "message": overlap.NoOverlapMessage})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteOverlapReport(&buf, res); err != nil {
		writeError(c, errors.Wrap(err, "failed to write overlap workbook"))
		return
	}
	sendWorkbook(c, "brainmapp-overlap.xlsx", buf.Bytes())
}

// computeOverlap runs the overlap of the two current panel selections.
func (s *Server) computeOverlap(c *gin.Context, sess *session.Session, view session.ViewState) (*overlap.Result, error) {
	a, okA := sess.Panel(session.Panel1)
	b, okB := sess.Panel(session.Panel2)
	if !okA || !okB {
		return nil, errors.InvalidInput("select a model and term in both result panels first")
	}
	return s.deps.Overlap.Compute(c.Request.Context(), sess.Catalog(), a.Selection, b.Selection, view.Resolution.Nodes())
}

// panelState validates a panel request against the session catalog.
func (s *Server) panelState(catalog results.Catalog, req panelRequest) (session.PanelState, error) {
	if catalog == nil {
		return session.PanelState{}, errors.InvalidInput("no results directory has been scanned")
	}
	key, err := results.ParseModelKey(req.Model)
	if err != nil {
		return session.PanelState{}, errors.InvalidInput(err.Error())
	}
	sel := results.Selection{Model: key, Term: req.Term}
	if _, _, err := catalog.Lookup(sel); err != nil {
		return session.PanelState{}, errors.New(errors.CodeNotFound, err.Error())
	}

	display, err := surface.ParseDisplayMode(req.Display)
	if err != nil {
		return session.PanelState{}, errors.InvalidInput(err.Error())
	}
	view, err := s.viewState(req.Surface, req.Resolution)
	if err != nil {
		return session.PanelState{}, err
	}
	return session.PanelState{
		Selection:  sel,
		Display:    display,
		Style:      view.Style,
		Resolution: view.Resolution,
	}, nil
}

// viewState parses surface selectors, falling back to configured defaults.
func (s *Server) viewState(style, resolution string) (session.ViewState, error) {
	if style == "" {
		style = s.deps.Config.Surface.DefaultSurface
	}
	if resolution == "" {
		resolution = s.deps.Config.Surface.DefaultResolution
	}
	st, err := surface.ParseStyle(style)
	if err != nil {
		return session.ViewState{}, errors.InvalidInput(err.Error())
	}
	res, err := surface.ParseResolution(resolution)
	if err != nil {
		return session.ViewState{}, errors.InvalidInput(err.Error())
	}
	return session.ViewState{Style: st, Resolution: res}, nil
}

func parsePanel(raw string) (session.PanelID, error) {
	n, err := strconv.Atoi(raw)
	id := session.PanelID(n)
	if err != nil || !id.Valid() {
		return 0, errors.NotFound(fmt.Sprintf("panel %q", raw))
	}
	return id, nil
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
