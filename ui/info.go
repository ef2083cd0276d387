package ui

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/overlap"
)

// LegendEntry pairs an overlap category with its display color.
type LegendEntry struct {
	Category results.Category `json:"category"`
	Label    string           `json:"label"`
	Color    string           `json:"color"`
}

func toHTML(md string) string {
	return string(markdown.ToHTML([]byte(md), nil, nil))
}

// panelInfo describes the clusters and beta range of a loaded selection.
func panelInfo(summary results.Summary) string {
	md := fmt.Sprintf("**%d** clusters identified (%d in the left and %d in the right hemisphere).\n\n"+
		"Mean beta value [range] = **%s** [%s; %s]",
		summary.TotalClusters(),
		summary.Clusters[surface.Left],
		summary.Clusters[surface.Right],
		summary.Mean.Format(), summary.Min.Format(), summary.Max.Format())
	return toHTML(md)
}

// overlapInfo describes the category shares of an overlap.
func overlapInfo(res *overlap.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "There was a **%s** overlap between the terms selected:\n\n",
		overlap.Describe(res.Summary, results.Shared))
	fmt.Fprintf(&b, "* **%s** was unique to %s\n", overlap.Describe(res.Summary, results.OnlyA), res.A)
	fmt.Fprintf(&b, "* **%s** was unique to %s\n", overlap.Describe(res.Summary, results.OnlyB), res.B)
	return toHTML(b.String())
}

func overlapLegend(res *overlap.Result, colors []string) []LegendEntry {
	labels := map[results.Category]string{
		results.OnlyA:  res.A.String(),
		results.OnlyB:  res.B.String(),
		results.Shared: "Overlap",
	}
	legend := make([]LegendEntry, 0, len(results.Categories))
	for i, cat := range results.Categories {
		entry := LegendEntry{Category: cat, Label: labels[cat]}
		if i < len(colors) {
			entry.Color = colors[i]
		}
		legend = append(legend, entry)
	}
	return legend
}
