// Package overlap classifies vertices by whether they fall in the significant
// clusters of one, the other or both of two selections.
package overlap

import (
	"context"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
)

// NoOverlapMessage is reported when neither selection has a significant vertex.
const NoOverlapMessage = "no significant overlap region"

// ClusterSource loads cluster-membership arrays. Returned slices must be owned
// by the caller.
type ClusterSource interface {
	LoadClusters(ctx context.Context, catalog results.Catalog, sel results.Selection, nodes int) (map[surface.Hemisphere][]float64, error)
}

// Result holds per-hemisphere label arrays and the aggregate summary.
type Result struct {
	A, B    results.Selection
	Labels  map[surface.Hemisphere][]uint8
	Counts  map[surface.Hemisphere]map[results.Category]int
	Summary results.OverlapSummary
}

// Engine computes overlaps between two selections.
type Engine struct {
	source ClusterSource
}

// NewEngine creates an overlap engine reading clusters from source.
func NewEngine(source ClusterSource) *Engine {
	return &Engine{source: source}
}

// Compute loads the clusters of a and b, labels every vertex and aggregates
// category counts over both hemispheres. It fails with an OVERLAP_ERROR when
// neither selection has any significant vertex.
func (e *Engine) Compute(ctx context.Context, catalog results.Catalog, a, b results.Selection, nodes int) (*Result, error) {
	clustersA, err := e.source.LoadClusters(ctx, catalog, a, nodes)
	if err != nil {
		return nil, errors.Wrapf(err, "map A %s", a)
	}
	clustersB, err := e.source.LoadClusters(ctx, catalog, b, nodes)
	if err != nil {
		return nil, errors.Wrapf(err, "map B %s", b)
	}

	res := &Result{
		A:      a,
		B:      b,
		Labels: make(map[surface.Hemisphere][]uint8, len(surface.Hemispheres)),
		Counts: make(map[surface.Hemisphere]map[results.Category]int, len(surface.Hemispheres)),
	}

	total := make(map[results.Category]int, len(results.Categories))
	for _, hemi := range surface.Hemispheres {
		labels := Label(clustersA[hemi], clustersB[hemi])
		counts := Count(labels)
		res.Labels[hemi] = labels
		res.Counts[hemi] = counts
		for cat, n := range counts {
			total[cat] += n
		}
	}

	summary, err := Summarize(total)
	if err != nil {
		log.Printf("[Overlap] %s vs %s: %v", a, b, err)
		return nil, err
	}
	res.Summary = summary

	log.Printf("[Overlap] %s vs %s: A-only %d, B-only %d, shared %d",
		a, b, summary.Counts[results.OnlyA], summary.Counts[results.OnlyB], summary.Counts[results.Shared])
	return res, nil
}

// Binarize returns a new slice holding weight wherever src is a positive
// cluster id and 0 elsewhere. src is not modified.
func Binarize(src []float64, weight uint8) []uint8 {
	out := make([]uint8, len(src))
	for i, v := range src {
		if v > 0 {
			out[i] = weight
		}
	}
	return out
}

// Label sums the binarized maps: 1 marks A only, 2 B only, 3 both. When the
// inputs differ in length the shorter one counts as non-significant past its end.
func Label(a, b []float64) []uint8 {
	wa := Binarize(a, uint8(results.OnlyA))
	wb := Binarize(b, uint8(results.OnlyB))

	labels := make([]uint8, max(len(wa), len(wb)))
	for i := range labels {
		var v uint8
		if i < len(wa) {
			v += wa[i]
		}
		if i < len(wb) {
			v += wb[i]
		}
		labels[i] = v
	}
	return labels
}

// Count tallies the non-zero categories of a label array.
func Count(labels []uint8) map[results.Category]int {
	counts := make(map[results.Category]int, len(results.Categories))
	for _, l := range labels {
		if l != uint8(results.Neither) {
			counts[results.Category(l)]++
		}
	}
	return counts
}

// Summarize converts aggregated counts into percentages of the union of all
// three categories, each rounded to one decimal on its own.
func Summarize(counts map[results.Category]int) (results.OverlapSummary, error) {
	summary := results.OverlapSummary{
		Counts:  make(map[results.Category]int, len(results.Categories)),
		Percent: make(map[results.Category]float64, len(results.Categories)),
	}
	for _, cat := range results.Categories {
		summary.Counts[cat] = counts[cat]
		summary.Total += counts[cat]
	}
	if summary.Total == 0 {
		return summary, errors.OverlapError(NoOverlapMessage)
	}

	for _, cat := range results.Categories {
		pct := 100 * float64(summary.Counts[cat]) / float64(summary.Total)
		summary.Percent[cat] = scalar.Round(pct, 1)
	}
	return summary, nil
}

// Describe renders "<pct>% (<n> vertices)" for a category.
func Describe(summary results.OverlapSummary, cat results.Category) string {
	return fmt.Sprintf("%s%% (%d vertices)", formatPercent(summary.Percent[cat]), summary.Counts[cat])
}

func formatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f", p)
	}
	return fmt.Sprintf("%.1f", p)
}
