// Package surface defines the hemisphere, template-resolution and display
// vocabulary shared by the loaders and the rendering boundary.
package surface

import (
	"fmt"
	"strings"
)

// Hemisphere is one half of the cortical surface.
type Hemisphere string

const (
	Left  Hemisphere = "left"
	Right Hemisphere = "right"
)

// Hemispheres lists both hemispheres in processing order.
var Hemispheres = []Hemisphere{Left, Right}

// Opposite returns the other hemisphere.
func (h Hemisphere) Opposite() Hemisphere {
	if h == Left {
		return Right
	}
	return Left
}

// Prefix returns the FreeSurfer directory/file prefix ("lh" or "rh").
func (h Hemisphere) Prefix() string {
	return string(h[0]) + "h"
}

// ParseHemiPrefix maps a result-directory prefix to a hemisphere. Both the
// short ("l", "r") and FreeSurfer ("lh", "rh") forms are accepted.
func ParseHemiPrefix(p string) (Hemisphere, bool) {
	switch strings.ToLower(p) {
	case "l", "lh":
		return Left, true
	case "r", "rh":
		return Right, true
	}
	return "", false
}

// Resolution names an fsaverage template mesh.
type Resolution string

const (
	High   Resolution = "fsaverage"
	Medium Resolution = "fsaverage6"
	Low    Resolution = "fsaverage5"
)

var nodeCounts = map[Resolution]int{
	High:   163842,
	Medium: 40962,
	Low:    10242,
}

// Resolutions lists the supported template meshes, densest first.
var Resolutions = []Resolution{High, Medium, Low}

// Nodes returns the per-hemisphere vertex count of the mesh.
func (r Resolution) Nodes() int {
	return nodeCounts[r]
}

// Label is the human-readable selector text.
func (r Resolution) Label() string {
	switch r {
	case High:
		return "High (164k nodes)"
	case Medium:
		return "Medium (41k nodes)"
	case Low:
		return "Low (10k nodes)"
	}
	return string(r)
}

// ParseResolution validates a resolution name.
func ParseResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if _, ok := nodeCounts[r]; !ok {
		return "", fmt.Errorf("unknown mesh resolution %q", s)
	}
	return r, nil
}

// Style is the surface geometry used for display.
type Style string

const (
	Pial     Style = "pial"
	Inflated Style = "infl"
	Flat     Style = "flat"
)

// Styles lists the supported surface styles.
var Styles = []Style{Pial, Inflated, Flat}

// FileName returns the FreeSurfer surf/ file suffix for the style.
func (s Style) FileName() string {
	switch s {
	case Inflated:
		return "inflated"
	case Flat:
		return "flat.patch"
	}
	return "pial"
}

// Label is the human-readable selector text.
func (s Style) Label() string {
	switch s {
	case Inflated:
		return "Inflated"
	case Flat:
		return "Flat"
	}
	return "Pial"
}

// ParseStyle validates a surface style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case Pial, Inflated, Flat:
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown surface style %q", s)
}

// DisplayMode selects which stat map a result panel shows.
type DisplayMode string

const (
	Betas    DisplayMode = "betas"
	Clusters DisplayMode = "clusters"
)

// ParseDisplayMode validates a display mode, defaulting to betas.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case "", Betas:
		return Betas, nil
	case Clusters:
		return Clusters, nil
	}
	return "", fmt.Errorf("unknown display mode %q", s)
}
