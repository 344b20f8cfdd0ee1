// Package chart implements the retained chart renderers: scales, data joins,
// transitions and SVG output for the histogram and pie charts.
package chart

import (
	"math"
	"strconv"
)

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a scale with domain [0, 1] and range [r0, r1].
func NewLinear(r0, r1 float64) *Linear {
	return &Linear{d0: 0, d1: 1, r0: r0, r1: r1}
}

// SetDomain replaces the input interval.
func (s *Linear) SetDomain(d0, d1 float64) {
	s.d0, s.d1 = d0, d1
}

// Domain returns the input interval.
func (s *Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output interval.
func (s *Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map projects v. A zero-width domain maps everything to the range start.
func (s *Linear) Map(v float64) float64 {
	if s.d1 == s.d0 || math.IsNaN(v) {
		return s.r0
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Ticks returns roughly count round values (1, 2 or 5 times a power of ten)
// inside the domain.
func (s *Linear) Ticks(count int) []float64 {
	lo, hi := s.d0, s.d1
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo == hi || count < 1 {
		return []float64{lo}
	}
	raw := (hi - lo) / float64(count)
	power := math.Floor(math.Log10(raw))
	factor := tickFactor(raw / math.Pow(10, power))
	if math.IsInf(power, 0) || math.IsNaN(power) {
		return []float64{lo}
	}

	var out []float64
	if power >= 0 {
		step := factor * math.Pow(10, power)
		for i := math.Ceil(lo / step); i <= math.Floor(hi/step); i++ {
			out = append(out, i*step)
		}
		return out
	}
	// Divide by the inverse step so decimal ticks stay exact.
	inv := math.Pow(10, -power) / factor
	for i := math.Ceil(lo * inv); i <= math.Floor(hi*inv); i++ {
		out = append(out, i/inv)
	}
	return out
}

func tickFactor(e float64) float64 {
	switch {
	case e >= math.Sqrt(50):
		return 10
	case e >= math.Sqrt(10):
		return 5
	case e >= math.Sqrt(2):
		return 2
	default:
		return 1
	}
}

// Ordinal assigns palette colors to keys in first-seen order and never
// reassigns a key.
type Ordinal struct {
	palette []string
	index   map[string]int
}

// NewOrdinal builds a color scale over palette.
func NewOrdinal(palette []string) *Ordinal {
	p := append([]string(nil), palette...)
	if len(p) == 0 {
		p = []string{"#cccccc"}
	}
	return &Ordinal{palette: p, index: make(map[string]int)}
}

// Color returns the color bound to key, binding the next one if needed.
func (o *Ordinal) Color(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.index)
		o.index[key] = i
	}
	return o.palette[i%len(o.palette)]
}

// formatNumber renders v the way it appears in labels and tooltips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coord renders an SVG coordinate with at most three decimals.
func coord(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
