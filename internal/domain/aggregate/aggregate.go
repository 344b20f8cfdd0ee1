package aggregate

import (
	"math"

	"github.com/okian/crossdash/internal/domain/model"
)

// Fixed suicides histogram layout.
const (
	SuicidesDomainMax = 10000
	SuicidesBins      = 18
)

// Slice is one pie category with the records that belong to it.
type Slice struct {
	Key    string
	Values []model.Record
}

// Count returns the number of member records.
func (s Slice) Count() int { return len(s.Values) }

// Result bundles the view data for the three charts.
type Result struct {
	Suicides   []Bin
	Sex        []Slice
	Population []Bin
}

// Compute derives every chart's data from the filtered records.
func Compute(filtered []model.Record) Result {
	return Result{
		Suicides:   SuicidesHistogram(filtered),
		Sex:        SexBreakdown(filtered),
		Population: PopulationHistogram(filtered),
	}
}

// SuicidesHistogram bins suicides over the fixed [0, 10000] domain.
func SuicidesHistogram(records []model.Record) []Bin {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Suicides
	}
	return Histogram(values, 0, SuicidesDomainMax, SuicidesBins)
}

// SexBreakdown always returns female then male, even when empty.
func SexBreakdown(records []model.Record) []Slice {
	out := make([]Slice, len(model.Sexes))
	for i, key := range model.Sexes {
		out[i] = Slice{Key: key, Values: []model.Record{}}
	}
	for _, r := range records {
		for i := range out {
			if r.Sex == out[i].Key {
				out[i].Values = append(out[i].Values, r)
				break
			}
		}
	}
	return out
}

// PopulationHistogram bins population over [0, max(population)] with a
// Sturges bin count. Without any finite value it returns the single
// degenerate bin [0, 0].
func PopulationHistogram(records []model.Record) []Bin {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if !math.IsNaN(r.Population) {
			values = append(values, r.Population)
		}
	}
	hi, ok := Max(values)
	if !ok || hi <= 0 {
		return Histogram(values, 0, 0, 1)
	}
	return Histogram(values, 0, hi, Sturges(len(values)))
}
