package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"brainmapp/domain/surface"
	"brainmapp/internal/config"
	"brainmapp/internal/overlap"
	"brainmapp/internal/render"
	"brainmapp/internal/session"
	"brainmapp/internal/statmap"
	"brainmapp/ports"
	"brainmapp/ui/middleware"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// Deps are the collaborators the web server needs.
type Deps struct {
	Config   *config.Config
	Sessions *session.Store
	Loader   *statmap.Loader
	Overlap  *overlap.Engine
	Meshes   ports.MeshProvider
	Style    render.Style
}

// Server represents the web server for the BrainMApp dashboard
type Server struct {
	router    *gin.Engine
	templates *template.Template
	deps      Deps
	style     render.Style
}

// NewServer creates a web server instance with parsed templates and routes.
func NewServer(deps Deps) (*Server, error) {
	if deps.Config == nil || deps.Sessions == nil || deps.Loader == nil || deps.Overlap == nil || deps.Meshes == nil {
		return nil, fmt.Errorf("ui: incomplete dependencies")
	}

	gin.SetMode(deps.Config.Server.GinMode)

	funcMap := template.FuncMap{
		"resolutions": func() []surface.Resolution { return surface.Resolutions },
		"styles":      func() []surface.Style { return surface.Styles },
		"panels":      func() []session.PanelID { return []session.PanelID{session.Panel1, session.Panel2} },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.Default(),
		templates: templates,
		deps:      deps,
		style:     deps.Style,
	}
	s.router.SetHTMLTemplate(templates)

	if err := s.setupStatic(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupStatic serves embedded assets and, when configured, template meshes.
func (s *Server) setupStatic() error {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))

	if dir := s.deps.Config.Surface.SubjectsDir; dir != "" {
		log.Printf("[Static] Serving template meshes from %s at /meshes", dir)
		s.router.Static("/meshes", dir)
	}
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	app := s.router.Group("/", middleware.EnsureSession(s.deps.Sessions))
	app.GET("/", s.handleIndex)

	api := app.Group("/api")
	api.POST("/scan", s.handleScan)
	api.GET("/models", s.handleModels)
	api.GET("/models/:model/terms", s.handleTerms)
	api.POST("/panels/:panel", s.handlePanelUpdate)
	api.GET("/panels/:panel/export.xlsx", s.handlePanelExport)
	api.POST("/overlap", s.handleOverlap)
	api.GET("/overlap/export.xlsx", s.handleOverlapExport)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.deps.Sessions.RunPruner(ctx, 10*time.Minute, 12*time.Hour)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting BrainMApp on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.deps.Sessions.Len()})
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	root := sess.Root()
	if root == "" {
		root = s.deps.Config.Results.DefaultRoot
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":             "BrainMApp: visualize your verywise output",
		"Root":              root,
		"DefaultResolution": s.deps.Config.Surface.DefaultResolution,
		"DefaultSurface":    s.deps.Config.Surface.DefaultSurface,
		"OverlapColors":     s.style.OverlapColors,
	})
}
