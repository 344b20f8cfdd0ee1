// Package types contains the read shapes the HTTP API returns.
package types

import (
	"time"

	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/model"
)

// Status is the dashboard lifecycle.
type Status string

// Dashboard statuses.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Filter mirrors the filter selections; empty means "no filter".
type Filter struct {
	Country     string `json:"country"`
	SelectedSex string `json:"selected_sex"`
}

// SliceCount is one pie slice without its member records.
type SliceCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Aggregates carries the data behind the three charts.
type Aggregates struct {
	Suicides   []aggregate.Bin `json:"suicides"`
	Sex        []SliceCount    `json:"sex"`
	Population []aggregate.Bin `json:"population"`
}

// State is the published view of the dashboard.
type State struct {
	Status           Status            `json:"status"`
	Filter           Filter            `json:"filter"`
	SelectedSexLabel string            `json:"selected_sex_label"`
	Countries        []string          `json:"countries"`
	Records          int               `json:"records"`
	Filtered         int               `json:"filtered"`
	Aggregates       Aggregates        `json:"aggregates"`
	Cycle            uint64            `json:"cycle"`
	Report           *model.LoadReport `json:"report,omitempty"`
	Error            string            `json:"error,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewAggregates strips the member records from a Result.
func NewAggregates(r aggregate.Result) Aggregates {
	sex := make([]SliceCount, len(r.Sex))
	for i, s := range r.Sex {
		sex[i] = SliceCount{Key: s.Key, Count: s.Count()}
	}
	return Aggregates{Suicides: r.Suicides, Sex: sex, Population: r.Population}
}
