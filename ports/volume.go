package ports

import (
	"context"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
)

// VolumeReader loads a per-vertex volume as a flat array. It fails when the
// file is absent or corrupt.
type VolumeReader interface {
	ReadVolume(path string) ([]float64, error)
}

// CatalogScanner discovers the models available under a results root.
type CatalogScanner interface {
	Scan(ctx context.Context, root string) (*results.ScanResult, error)
}

// MeshRef describes a template mesh for one hemisphere. The geometry itself is
// fetched by the renderer; the core only needs the node count.
type MeshRef struct {
	Resolution    surface.Resolution `json:"resolution"`
	Style         surface.Style      `json:"style"`
	Hemisphere    surface.Hemisphere `json:"hemisphere"`
	Nodes         int                `json:"nodes"`
	GeometryURL   string             `json:"geometry_url,omitempty"`
	BackgroundURL string             `json:"background_url,omitempty"`
}

// MeshProvider resolves template meshes by resolution and surface style.
type MeshProvider interface {
	Mesh(res surface.Resolution, style surface.Style, hemi surface.Hemisphere) (MeshRef, error)
}
