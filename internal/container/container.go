package container

import (
	"fmt"
	"log"

	"brainmapp/internal/config"
	"brainmapp/internal/mesh"
	"brainmapp/internal/mgh"
	"brainmapp/internal/overlap"
	"brainmapp/internal/render"
	"brainmapp/internal/scanner"
	"brainmapp/internal/session"
	"brainmapp/internal/statmap"
)

// MeshURLPrefix is where the web server exposes the subjects directory.
const MeshURLPrefix = "/meshes"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Result store access
	Scanner *scanner.Scanner
	Reader  *mgh.Reader
	Loader  *statmap.Loader
	Overlap *overlap.Engine

	// Presentation
	Meshes   *mesh.Provider
	Sessions *session.Store
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:  cfg,
		Scanner: scanner.New(),
		Reader:  mgh.NewReader(),
	}
	c.Loader = statmap.NewLoader(c.Reader, cfg.Results.SigThreshold)
	c.Overlap = overlap.NewEngine(c.Loader)
	c.Meshes = mesh.NewProvider(cfg.Surface.SubjectsDir, MeshURLPrefix)
	c.Sessions = session.NewStore(c.Scanner)

	if cfg.Surface.SubjectsDir == "" {
		log.Printf("[Container] SUBJECTS_DIR not set, figures will carry node counts only")
	}
	log.Printf("[Container] Initialized with significance threshold th%s", cfg.Results.SigThreshold)
	return c, nil
}

// RenderStyle returns the figure colormaps from configuration.
func (c *Container) RenderStyle() render.Style {
	return render.Style{
		BetaColormap:    c.Config.Style.BetaColormap,
		ClusterColormap: c.Config.Style.ClusterColormap,
		OverlapColors:   c.Config.Style.OverlapColors,
	}
}
