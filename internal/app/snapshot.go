package service

import (
	"fmt"

	"github.com/okian/crossdash/internal/chart"
	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/types"
)

// Chart mount points.
const (
	ChartSuicides   = "suicides"
	ChartSex        = "sex"
	ChartPopulation = "population"
)

// ChartNames lists every chart in page order.
var ChartNames = []string{ChartSuicides, ChartSex, ChartPopulation}

// Snapshot is the immutable result of the last applied command. HTTP
// readers only ever see snapshots.
type Snapshot struct {
	State      types.State
	Result     aggregate.Result
	Suicides   *chart.HistogramScene
	Sex        *chart.PieScene
	Population *chart.HistogramScene
}

// Scene returns the chart scene mounted at name.
func (s *Snapshot) Scene(name string) (chart.Scene, error) {
	switch name {
	case ChartSuicides:
		return s.Suicides, nil
	case ChartSex:
		return s.Sex, nil
	case ChartPopulation:
		return s.Population, nil
	default:
		return nil, fmt.Errorf("%w: %q", chart.ErrUnknownChart, name)
	}
}
