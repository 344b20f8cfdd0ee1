// Package model contains domain models passed between layers.
package model

import "math"

// Sex categories present in the dataset.
const (
	SexFemale = "female"
	SexMale   = "male"
)

// Sexes lists the categories in the fixed order the pie chart uses.
var Sexes = []string{SexFemale, SexMale}

// Record is one row of the dataset.
type Record struct {
	UID        string  `json:"uid"`        // country identifier
	Sex        string  `json:"sex"`        // "female" or "male"
	Year       float64 `json:"year"`       // NaN when unparseable
	Suicides   float64 `json:"suicides"`   // non-negative count, NaN when unparseable
	Population float64 `json:"population"` // non-negative count, NaN when unparseable
}

// Valid reports whether every numeric field parsed to a finite value.
func (r Record) Valid() bool {
	return finite(r.Year) && finite(r.Suicides) && finite(r.Population)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
