// Package statmap loads per-vertex beta and cluster maps of a model term and
// masks everything outside significant clusters.
package statmap

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
	"brainmapp/ports"
)

// HemisphereMap is the stat map of one hemisphere.
type HemisphereMap struct {
	// Betas holds coefficients; vertices outside significant clusters are NaN.
	Betas []float64
	// Clusters holds cluster ids; 0 marks a non-significant vertex.
	Clusters     []float64
	ClusterCount int
	Min          results.OptionalFloat
	Max          results.OptionalFloat
	Mean         results.OptionalFloat
}

// Result is a loaded selection over both hemispheres.
type Result struct {
	Selection results.Selection
	Stack     int
	Maps      map[surface.Hemisphere]*HemisphereMap
	Summary   results.Summary
}

// Loader reads stat maps through a volume reader.
type Loader struct {
	reader    ports.VolumeReader
	threshold string
}

// NewLoader creates a loader for significance files written at threshold.
func NewLoader(reader ports.VolumeReader, threshold string) *Loader {
	return &Loader{reader: reader, threshold: threshold}
}

// ClusterFile returns the base name (without extension) of the
// cluster-membership volume of a stack.
func (l *Loader) ClusterFile(stack int) string {
	return fmt.Sprintf("stack%d.cache.th%s.abs.sig.ocn", stack, l.threshold)
}

// CoefFile returns the base name (without extension) of the coefficient volume.
func CoefFile(stack int) string {
	return fmt.Sprintf("stack%d.coef", stack)
}

// Load reads both hemispheres of sel. When nodes is positive the arrays are
// truncated to the first nodes entries before masking and statistics.
func (l *Loader) Load(ctx context.Context, catalog results.Catalog, sel results.Selection, nodes int) (*Result, error) {
	model, stack, err := catalog.Lookup(sel)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("cannot resolve %s", sel), err)
	}

	res := &Result{
		Selection: sel,
		Stack:     stack,
		Maps:      make(map[surface.Hemisphere]*HemisphereMap, len(surface.Hemispheres)),
		Summary:   results.Summary{Clusters: make(map[surface.Hemisphere]int, len(surface.Hemispheres))},
	}

	for _, hemi := range surface.Hemispheres {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hm, err := l.loadHemisphere(model.Dirs[hemi], stack, nodes)
		if err != nil {
			return nil, errors.Wrapf(err, "%s hemisphere of %s", hemi, sel)
		}
		res.Maps[hemi] = hm
		res.Summary.Clusters[hemi] = hm.ClusterCount
	}

	res.Summary.Min, res.Summary.Max, res.Summary.Mean = combine(res.Maps)
	log.Printf("[StatMap] %s stack %d: %d clusters, mean beta %s", sel, stack, res.Summary.TotalClusters(), res.Summary.Mean.Format())
	return res, nil
}

// LoadClusters returns only the cluster-membership arrays of sel. The slices
// are freshly allocated and owned by the caller.
func (l *Loader) LoadClusters(ctx context.Context, catalog results.Catalog, sel results.Selection, nodes int) (map[surface.Hemisphere][]float64, error) {
	model, stack, err := catalog.Lookup(sel)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("cannot resolve %s", sel), err)
	}

	out := make(map[surface.Hemisphere][]float64, len(surface.Hemispheres))
	for _, hemi := range surface.Hemispheres {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clusters, err := l.read(model.Dirs[hemi], l.ClusterFile(stack), nodes)
		if err != nil {
			return nil, errors.Wrapf(err, "%s hemisphere of %s", hemi, sel)
		}
		out[hemi] = clusters
	}
	return out, nil
}

func (l *Loader) loadHemisphere(dir string, stack, nodes int) (*HemisphereMap, error) {
	clusters, err := l.read(dir, l.ClusterFile(stack), nodes)
	if err != nil {
		return nil, err
	}

	hm := &HemisphereMap{Clusters: clusters}
	if !anySignificant(clusters) {
		// No significant clusters: the coefficient file is not needed.
		hm.Betas = make([]float64, len(clusters))
		for i := range hm.Betas {
			hm.Betas[i] = math.NaN()
		}
		return hm, nil
	}

	betas, err := l.read(dir, CoefFile(stack), nodes)
	if err != nil {
		return nil, err
	}
	if len(betas) != len(clusters) {
		return nil, errors.LoadError(fmt.Sprintf("stack %d in %s: %d coefficients for %d cluster entries",
			stack, dir, len(betas), len(clusters)), nil)
	}

	for i, c := range clusters {
		if c == 0 {
			betas[i] = math.NaN()
		}
	}
	hm.Betas = betas
	hm.ClusterCount = int(floats.Max(clusters))
	hm.Min, hm.Max, hm.Mean = Describe(betas)
	return hm, nil
}

// read loads <dir>/<base>.mgh, falling back to the compressed .mgz variant.
func (l *Loader) read(dir, base string, nodes int) ([]float64, error) {
	path := filepath.Join(dir, base+".mgh")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, zerr := os.Stat(filepath.Join(dir, base+".mgz")); zerr == nil {
			path = filepath.Join(dir, base+".mgz")
		}
	}

	data, err := l.reader.ReadVolume(path)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("cannot read %s", path), err)
	}
	if nodes > 0 && len(data) > nodes {
		data = data[:nodes]
	}
	return data, nil
}

func anySignificant(clusters []float64) bool {
	for _, c := range clusters {
		if c != 0 && !math.IsNaN(c) {
			return true
		}
	}
	return false
}
