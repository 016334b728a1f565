// Package stats holds the small numeric helpers the visualization and
// data collection layers share.
package stats

import (
	"errors"
	"math"
	"sort"
)

var ErrBadBins = errors.New("stats: bin count must be positive")

// Gini computes the Gini coefficient of a distribution. Empty and
// all-zero inputs are defined as perfectly equal (0).
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var cum, total float64
	for i, v := range sorted {
		total += v
		cum += v * float64(n-i)
	}
	if total == 0 {
		return 0
	}
	return (float64(n)+1-2*cum/total) / float64(n)
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Bins is the result of a fixed-bin-count histogram.
type Bins struct {
	Counts []int
	// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]),
	// with the last bin closed on the right.
	Edges []float64
}

// Histogram bins values into a fixed number of equal-width bins
// spanning [min, max]. All-equal input lands in a single bin.
func Histogram(values []float64, bins int) (Bins, error) {
	if bins < 1 {
		return Bins{}, ErrBadBins
	}
	out := Bins{
		Counts: make([]int, bins),
		Edges:  make([]float64, bins+1),
	}
	if len(values) == 0 {
		return out, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	for i := range out.Edges {
		out.Edges[i] = lo + float64(i)*width
	}

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out.Counts[i]++
	}
	return out, nil
}
