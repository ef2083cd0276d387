// Package mesh resolves fsaverage template meshes. Geometry files are served
// to the browser from a FreeSurfer subjects directory when one is configured;
// the core only relies on the node count of each resolution.
package mesh

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"brainmapp/domain/surface"
	"brainmapp/ports"
)

// Provider maps (resolution, style, hemisphere) to mesh references.
type Provider struct {
	subjectsDir string
	urlPrefix   string
}

// NewProvider creates a provider. subjectsDir may be empty, in which case mesh
// references carry only node counts.
func NewProvider(subjectsDir, urlPrefix string) *Provider {
	return &Provider{subjectsDir: subjectsDir, urlPrefix: urlPrefix}
}

// SubjectsDir returns the configured FreeSurfer subjects directory.
func (p *Provider) SubjectsDir() string {
	return p.subjectsDir
}

// Mesh returns the mesh reference for one hemisphere.
func (p *Provider) Mesh(res surface.Resolution, style surface.Style, hemi surface.Hemisphere) (ports.MeshRef, error) {
	if res.Nodes() == 0 {
		return ports.MeshRef{}, fmt.Errorf("unknown mesh resolution %q", res)
	}

	ref := ports.MeshRef{
		Resolution: res,
		Style:      style,
		Hemisphere: hemi,
		Nodes:      res.Nodes(),
	}
	if p.subjectsDir == "" {
		return ref, nil
	}

	geometry := fmt.Sprintf("%s.%s", hemi.Prefix(), style.FileName())
	background := fmt.Sprintf("%s.sulc", hemi.Prefix())
	if _, err := os.Stat(filepath.Join(p.subjectsDir, string(res), "surf", geometry)); err == nil {
		ref.GeometryURL = path.Join(p.urlPrefix, string(res), "surf", geometry)
	}
	if _, err := os.Stat(filepath.Join(p.subjectsDir, string(res), "surf", background)); err == nil {
		ref.BackgroundURL = path.Join(p.urlPrefix, string(res), "surf", background)
	}
	return ref, nil
}

// Pair returns the mesh references of both hemispheres.
func Pair(provider ports.MeshProvider, res surface.Resolution, style surface.Style) (map[surface.Hemisphere]ports.MeshRef, error) {
	out := make(map[surface.Hemisphere]ports.MeshRef, len(surface.Hemispheres))
	for _, hemi := range surface.Hemispheres {
		ref, err := provider.Mesh(res, style, hemi)
		if err != nil {
			return nil, err
		}
		out[hemi] = ref
	}
	return out, nil
}
