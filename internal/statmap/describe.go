package statmap

import (
	"math"

	"github.com/montanaflynn/stats"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
)

// Finite returns the non-NaN, non-infinite entries of values.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Describe returns min, max and mean of the finite entries of values. All
// three are undefined when no entry is finite.
func Describe(values []float64) (lo, hi, mean results.OptionalFloat) {
	data := stats.Float64Data(Finite(values))
	if data.Len() == 0 {
		return
	}

	if v, err := data.Min(); err == nil {
		lo = results.Defined(v)
	}
	if v, err := data.Max(); err == nil {
		hi = results.Defined(v)
	}
	if v, err := data.Mean(); err == nil {
		mean = results.Defined(v)
	}
	return
}

// combine merges per-hemisphere statistics: overall min, overall max and the
// mean of the defined hemisphere means.
func combine(maps map[surface.Hemisphere]*HemisphereMap) (lo, hi, mean results.OptionalFloat) {
	var means stats.Float64Data
	for _, hemi := range surface.Hemispheres {
		hm, ok := maps[hemi]
		if !ok {
			continue
		}
		if hm.Min.Valid && (!lo.Valid || hm.Min.Value < lo.Value) {
			lo = hm.Min
		}
		if hm.Max.Valid && (!hi.Valid || hm.Max.Value > hi.Value) {
			hi = hm.Max
		}
		if hm.Mean.Valid {
			means = append(means, hm.Mean.Value)
		}
	}
	if v, err := means.Mean(); err == nil && means.Len() > 0 {
		mean = results.Defined(v)
	}
	return
}
