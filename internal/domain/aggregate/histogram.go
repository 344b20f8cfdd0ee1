// Package aggregate derives the chart data (two histograms and the sex
// breakdown) from a filtered record set.
package aggregate

import "math"

// Bin is one histogram bucket covering [X0, X1). The last bin of a
// histogram is closed on both ends.
type Bin struct {
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Length int     `json:"length"`
}

// Histogram counts values into bins equal-width bins over [lo, hi].
// NaN and out-of-domain values are not counted. A value on a boundary
// belongs to the upper bin. When lo == hi a single zero-width bin is
// returned counting the values equal to lo.
func Histogram(values []float64, lo, hi float64, bins int) []Bin {
	if bins < 1 || hi <= lo {
		out := []Bin{{X0: lo, X1: lo}}
		for _, v := range values {
			if v == lo {
				out[0].Length++
			}
		}
		return out
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].X0 = lo + float64(i)*width
		out[i].X1 = lo + float64(i+1)*width
	}
	out[bins-1].X1 = hi

	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		out[binIndex(out, v, lo, width)].Length++
	}
	return out
}

// binIndex estimates the bucket arithmetically, then corrects for
// floating-point drift against the stored boundaries.
func binIndex(bins []Bin, v, lo, width float64) int {
	last := len(bins) - 1
	i := int(math.Floor((v - lo) / width))
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	for i < last && v >= bins[i].X1 {
		i++
	}
	for i > 0 && v < bins[i].X0 {
		i--
	}
	return i
}

// Sturges returns the automatic bin count ceil(log2(n) + 1), at least 1.
func Sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)) + 1))
}

// Max returns the largest finite value and whether one exists.
func Max(values []float64) (float64, bool) {
	best, ok := 0.0, false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok || v > best {
			best, ok = v, true
		}
	}
	return best, ok
}

// Domain returns the [X0 of the first bin, X1 of the last bin] span.
func Domain(bins []Bin) (float64, float64) {
	if len(bins) == 0 {
		return 0, 0
	}
	return bins[0].X0, bins[len(bins)-1].X1
}

// MaxLength returns the largest bin count.
func MaxLength(bins []Bin) int {
	best := 0
	for _, b := range bins {
		if b.Length > best {
			best = b.Length
		}
	}
	return best
}
