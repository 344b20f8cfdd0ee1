package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/crossdash/internal/domain/model"
)

// Invalid-row policies.
const (
	PolicyDrop = "drop"
	PolicyZero = "zero"
	PolicyKeep = "keep"
)

// Required header columns.
const (
	ColumnUID        = "uid"
	ColumnSex        = "sex"
	ColumnYear       = "year"
	ColumnSuicides   = "suicides"
	ColumnPopulation = "population"
)

var requiredColumns = []string{ColumnUID, ColumnSex, ColumnYear, ColumnSuicides, ColumnPopulation}

// ValidPolicy reports whether p names a known invalid-row policy.
func ValidPolicy(p string) bool {
	switch p {
	case PolicyDrop, PolicyZero, PolicyKeep:
		return true
	}
	return false
}

// Parse reads a CSV dataset with a header row and applies policy to rows
// whose numeric fields do not parse.
func Parse(r io.Reader, policy string) ([]model.Record, model.LoadReport, error) {
	report := model.LoadReport{Policy: policy}
	if !ValidPolicy(policy) {
		return nil, report, fmt.Errorf("%w: %w: %q", ErrLoad, ErrUnknownPolicy, policy)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, fmt.Errorf("%w: empty input, header row required", ErrLoad)
	}
	if err != nil {
		return nil, report, fmt.Errorf("%w: read header: %w", ErrLoad, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, report, err
	}

	records := make([]model.Record, 0, 1024)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("%w: read row %d: %w", ErrLoad, report.Rows+1, err)
		}
		report.Rows++

		rec := model.Record{
			UID:        field(row, idx[ColumnUID]),
			Sex:        field(row, idx[ColumnSex]),
			Year:       number(field(row, idx[ColumnYear])),
			Suicides:   number(field(row, idx[ColumnSuicides])),
			Population: number(field(row, idx[ColumnPopulation])),
		}
		if !rec.Valid() {
			report.Invalid++
			switch policy {
			case PolicyDrop:
				report.Dropped++
				continue
			case PolicyZero:
				rec = zeroInvalid(rec)
			}
		}
		records = append(records, rec)
	}
	report.Kept = len(records)
	return records, report, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrLoad, ErrMissingColumn, col)
		}
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses the whole field as a finite float; anything else is NaN.
// ParseFloat accepts "inf" and returns ±Inf for overflow like "1e999".
func number(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func zeroInvalid(r model.Record) model.Record {
	for _, v := range []*float64{&r.Year, &r.Suicides, &r.Population} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return r
}
