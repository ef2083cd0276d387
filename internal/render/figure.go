// Package render prepares per-vertex arrays for the browser-side surface
// renderer. Nothing here draws; a Figure carries the values, value range,
// threshold and colormap the renderer needs for one hemisphere.
package render

import (
	"bytes"
	"math"
	"strconv"

	"brainmapp/domain/surface"
	"brainmapp/internal/overlap"
	"brainmapp/internal/statmap"
	"brainmapp/ports"
)

// Values is a per-vertex array; NaN entries encode as JSON null.
type Values []float64

// MarshalJSON writes NaN and infinities as null.
func (v Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(v) * 6)
	buf.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Figure is the render request for one hemisphere.
type Figure struct {
	Hemisphere surface.Hemisphere `json:"hemisphere"`
	Mesh       ports.MeshRef      `json:"mesh"`
	Values     Values             `json:"values"`
	VMin       float64            `json:"vmin"`
	VMax       float64            `json:"vmax"`
	// Threshold separates rendered vertices from background.
	Threshold float64  `json:"threshold"`
	Colormap  string   `json:"colormap,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	// Levels discretizes the colormap; 0 means continuous.
	Levels   int  `json:"levels,omitempty"`
	Colorbar bool `json:"colorbar"`
	// Empty marks a hemisphere with nothing to draw over the background.
	Empty bool `json:"empty"`
}

// Style carries the colormaps used for each kind of figure.
type Style struct {
	BetaColormap    string
	ClusterColormap string
	OverlapColors   []string
}

// Fit truncates or pads values to exactly nodes entries.
func Fit(values []float64, nodes int, pad float64) []float64 {
	out := make([]float64, nodes)
	n := copy(out, values)
	for i := n; i < nodes; i++ {
		out[i] = pad
	}
	return out
}

// BetaThreshold picks the display threshold of a beta map from the sign of the
// combined range: all-negative maps threshold at the maximum, all-positive maps
// at the minimum, and mixed maps at the smallest finite magnitude of values.
func BetaThreshold(values []float64, lo, hi float64) float64 {
	switch {
	case lo < 0 && hi < 0:
		return hi
	case lo > 0 && hi > 0:
		return lo
	}
	thr := math.Inf(1)
	for _, v := range statmap.Finite(values) {
		thr = math.Min(thr, math.Abs(v))
	}
	if math.IsInf(thr, 1) {
		return 0
	}
	return thr
}

// BetaFigures builds the beta-map figures of both hemispheres.
func BetaFigures(res *statmap.Result, meshes map[surface.Hemisphere]ports.MeshRef, style Style) []Figure {
	figs := make([]Figure, 0, len(surface.Hemispheres))
	lo, hi := res.Summary.Min, res.Summary.Max
	for _, hemi := range surface.Hemispheres {
		mesh := meshes[hemi]
		values := Fit(res.Maps[hemi].Betas, mesh.Nodes, math.NaN())
		fig := Figure{
			Hemisphere: hemi,
			Mesh:       mesh,
			Values:     values,
			Colormap:   style.BetaColormap,
		}
		if !lo.Valid || !hi.Valid || len(statmap.Finite(values)) == 0 {
			fig.Empty = true
		} else {
			fig.VMin, fig.VMax = lo.Value, hi.Value
			fig.Threshold = BetaThreshold(values, lo.Value, hi.Value)
			fig.Colorbar = true
		}
		figs = append(figs, fig)
	}
	return figs
}

// ClusterFigures builds cluster-id figures. Cluster id 0 is background and the
// colormap has one level per cluster of the larger hemisphere count.
func ClusterFigures(res *statmap.Result, meshes map[surface.Hemisphere]ports.MeshRef, style Style) []Figure {
	maxClusters := 0
	for _, n := range res.Summary.Clusters {
		maxClusters = max(maxClusters, n)
	}

	figs := make([]Figure, 0, len(surface.Hemispheres))
	for _, hemi := range surface.Hemispheres {
		mesh := meshes[hemi]
		fig := Figure{
			Hemisphere: hemi,
			Mesh:       mesh,
			Values:     Fit(res.Maps[hemi].Clusters, mesh.Nodes, 0),
			VMin:       1,
			VMax:       float64(maxClusters),
			Threshold:  1,
			Colormap:   style.ClusterColormap,
			Levels:     maxClusters,
			Colorbar:   maxClusters > 0,
			Empty:      res.Summary.Clusters[hemi] == 0,
		}
		figs = append(figs, fig)
	}
	return figs
}

// OverlapFigures builds the overlap figures: categories 1..3 use the fixed
// three-color palette, category 0 is background.
func OverlapFigures(res *overlap.Result, meshes map[surface.Hemisphere]ports.MeshRef, style Style) []Figure {
	figs := make([]Figure, 0, len(surface.Hemispheres))
	for _, hemi := range surface.Hemispheres {
		mesh := meshes[hemi]
		labels := res.Labels[hemi]
		values := make([]float64, len(labels))
		for i, l := range labels {
			values[i] = float64(l)
		}
		figs = append(figs, Figure{
			Hemisphere: hemi,
			Mesh:       mesh,
			Values:     Fit(values, mesh.Nodes, 0),
			VMin:       1,
			VMax:       3,
			Threshold:  1,
			Palette:    style.OverlapColors,
			Levels:     3,
			Empty:      len(res.Counts[hemi]) == 0,
		})
	}
	return figs
}
