package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crossdash/internal/adapters/repository"
	"github.com/okian/crossdash/internal/chart"
	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/filter"
	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/okian/crossdash/pkg/metrics"
)

// controller owns the pipeline state. Only the dispatcher goroutine calls
// Handle, so nothing here is locked.
type controller struct {
	store  repository.Store
	filter model.FilterState

	status  types.Status
	report  *model.LoadReport
	loadErr error
	cycle   uint64
	last    aggregate.Result
	matched int

	suicides   *chart.Histogram
	sex        *chart.Pie
	population *chart.Histogram

	publish func(*Snapshot)
	logger  logger.Logger
}

// Handle implements worker.Handler.
func (c *controller) Handle(ctx context.Context, cmd model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command %s: %w", cmd.ID, err)
	}

	switch cmd.Kind {
	case model.KindDataLoaded:
		if err := c.store.Replace(ctx, cmd.Records); err != nil {
			return fmt.Errorf("store dataset: %w", err)
		}
		report := cmd.Report
		c.report = &report
		c.status = types.StatusReady
		c.loadErr = nil
		c.logger.Info(ctx, "dataset ready",
			logger.Int("records", c.store.Count(ctx)),
			logger.Int("countries", len(c.store.Countries(ctx))),
		)
	case model.KindLoadFailed:
		c.status = types.StatusFailed
		c.loadErr = cmd.Err
		c.logger.Error(ctx, "dashboard unavailable", logger.Error(cmd.Err))
		c.publish(c.snapshot(ctx))
		return nil
	case model.KindSetCountry:
		if err := c.filter.Set(model.SlotCountry, cmd.Value); err != nil {
			return err
		}
	case model.KindToggle:
		v, err := c.filter.Toggle(cmd.Slot, cmd.Value)
		if err != nil {
			return err
		}
		c.logger.Debug(ctx, "filter toggled",
			logger.String("slot", string(cmd.Slot)),
			logger.String("value", v),
		)
	}

	if c.status != types.StatusReady {
		// Filters set before the data arrives are applied by the first cycle.
		c.publish(c.snapshot(ctx))
		return nil
	}
	c.render(ctx)
	return nil
}

// render runs one cycle: filter, aggregate, update every chart, publish.
func (c *controller) render(ctx context.Context) {
	start := time.Now()

	filtered := filter.Apply(c.store.All(ctx), c.filter)
	result := aggregate.Compute(filtered)

	c.suicides.Update(result.Suicides)
	c.sex.Update(result.Sex, c.filter.SelectedSex)
	c.population.Update(result.Population)

	c.last = result
	c.matched = len(filtered)
	c.cycle++
	c.publish(c.snapshot(ctx))

	metrics.RecordRenderCycle(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateFilteredRecords(len(filtered))
	c.logger.Debug(ctx, "render cycle",
		logger.Any("cycle", c.cycle),
		logger.String("country", c.filter.Country),
		logger.String("selected_sex", c.filter.SexLabel()),
		logger.Int("filtered", len(filtered)),
		logger.Duration("took", time.Since(start)),
	)
}

func (c *controller) snapshot(ctx context.Context) *Snapshot {
	st := types.State{
		Status: c.status,
		Filter: types.Filter{
			Country:     c.filter.Country,
			SelectedSex: c.filter.SelectedSex,
		},
		SelectedSexLabel: c.filter.SexLabel(),
		Countries:        c.store.Countries(ctx),
		Records:          c.store.Count(ctx),
		Filtered:         c.matched,
		Aggregates:       types.NewAggregates(c.last),
		Cycle:            c.cycle,
		Report:           c.report,
		UpdatedAt:        time.Now().UTC(),
	}
	if st.Countries == nil {
		st.Countries = []string{}
	}
	if c.loadErr != nil {
		st.Error = c.loadErr.Error()
	}
	return &Snapshot{
		State:      st,
		Result:     c.last,
		Suicides:   c.suicides.Scene(),
		Sex:        c.sex.Scene(),
		Population: c.population.Scene(),
	}
}
