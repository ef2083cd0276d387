package results

import (
	"fmt"

	"brainmapp/domain/surface"
)

// OptionalFloat is a statistic that may be undefined, e.g. the mean of a map
// with no significant vertex.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Defined wraps a computed value.
func Defined(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// Format renders the value with two decimals, or "undefined".
func (o OptionalFloat) Format() string {
	if !o.Valid {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", o.Value)
}

// MarshalJSON encodes undefined values as null.
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%g", o.Value)), nil
}

// Summary holds beta statistics over the significant vertices of both
// hemispheres and the cluster count of each hemisphere.
type Summary struct {
	Min      OptionalFloat              `json:"min"`
	Max      OptionalFloat              `json:"max"`
	Mean     OptionalFloat              `json:"mean"`
	Clusters map[surface.Hemisphere]int `json:"clusters"`
}

// TotalClusters sums cluster counts over hemispheres.
func (s Summary) TotalClusters() int {
	total := 0
	for _, n := range s.Clusters {
		total += n
	}
	return total
}

// Category classifies a vertex in an overlap map.
type Category uint8

const (
	Neither Category = 0
	OnlyA   Category = 1
	OnlyB   Category = 2
	Shared  Category = 3
)

// Categories lists the non-background overlap categories.
var Categories = []Category{OnlyA, OnlyB, Shared}

// OverlapSummary aggregates overlap categories over both hemispheres.
// Percentages are rounded independently and may not sum to exactly 100.
type OverlapSummary struct {
	Counts  map[Category]int     `json:"counts"`
	Percent map[Category]float64 `json:"percent"`
	Total   int                  `json:"total"`
}
