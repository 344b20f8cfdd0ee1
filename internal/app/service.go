// Package service wires the dashboard pipeline: the record store, the
// command queue and its dispatcher, the controller and its charts, and
// exposes what the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crossdash/internal/adapters/export"
	eventqueue "github.com/okian/crossdash/internal/adapters/mq/queue"
	"github.com/okian/crossdash/internal/adapters/mq/worker"
	"github.com/okian/crossdash/internal/adapters/repository"
	"github.com/okian/crossdash/internal/chart"
	"github.com/okian/crossdash/internal/domain/dedupe"
	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/okian/crossdash/pkg/metrics"
)

const (
	stopTimeout        = 5 * time.Second
	submitRetryBackoff = 10 * time.Millisecond
)

// Loader fetches the dataset once.
type Loader interface {
	Load(ctx context.Context) ([]model.Record, model.LoadReport, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      *eventqueue.InMemoryQueue
	dispatcher *worker.Dispatcher
	ctrl       *controller
	loader     Loader

	// Configuration
	queueSize  int
	dedupeSize int
	palette    []string
	transition time.Duration

	snapMu sync.RWMutex
	snap   *Snapshot

	// State
	started bool
	stopped bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the command queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPalette sets the colors of the sex pie.
func WithPalette(palette []string) Option {
	return func(s *Service) {
		if len(palette) > 0 {
			s.palette = append([]string(nil), palette...)
		}
	}
}

// WithTransition sets the chart transition duration.
func WithTransition(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.transition = d
		}
	}
}

// WithLoader sets the dataset loader used by Load.
func WithLoader(l Loader) Option {
	return func(s *Service) { s.loader = l }
}

// WithStore replaces the in-memory record store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// New constructs a Service. Commands may be submitted before Start; they
// wait in the queue.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  1024,
		dedupeSize: 10_000,
		transition: chart.DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	pieOpts := []chart.PieOption{
		chart.WithPieTransition(s.transition, chart.EaseCubicInOut),
		chart.WithClickHandler(s.clickSlice),
	}
	if len(s.palette) > 0 {
		pieOpts = append(pieOpts, chart.WithPalette(s.palette))
	}
	s.ctrl = &controller{
		store:      s.store,
		status:     types.StatusLoading,
		suicides:   chart.NewHistogram(ChartSuicides, chart.WithHistogramTransition(s.transition, chart.EaseCubicInOut)),
		sex:        chart.NewPie(ChartSex, model.SlotSelectedSex, pieOpts...),
		population: chart.NewHistogram(ChartPopulation, chart.WithHistogramTransition(s.transition, chart.EaseCubicInOut)),
		publish:    s.publish,
		logger:     s.logger.Named("controller"),
	}
	s.dispatcher = worker.NewDispatcher(s.queue, s.ctrl, worker.WithLogger(s.logger.Named("dispatcher")))
	s.snap = s.ctrl.snapshot(context.Background())
	return s
}

// Start launches the dispatcher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}
	if err := s.dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("start dispatcher: %w", err)
	}
	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Duration("transition", s.transition),
	)
	return nil
}

// Stop closes the queue, lets the dispatcher apply what is already queued
// and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping dashboard service...")
	_ = s.queue.Close()
	if err := s.dispatcher.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "dispatcher did not stop cleanly", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "dashboard service stopped",
		logger.Any("processed", s.dispatcher.Processed()),
	)
}

// Load fetches the dataset and hands the outcome to the dispatcher as a
// data_loaded or load_failed command. It runs once and never retries the
// fetch.
func (s *Service) Load(ctx context.Context) error {
	if s.loader == nil {
		return ErrNoLoader
	}
	records, report, err := s.loader.Load(ctx)
	if err != nil {
		if subErr := s.submitReliably(ctx, model.LoadFailed(err)); subErr != nil {
			return errors.Join(err, subErr)
		}
		return err
	}
	return s.submitReliably(ctx, model.DataLoaded(records, report))
}

// submitReliably retries on backpressure until ctx ends.
func (s *Service) submitReliably(ctx context.Context, c model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	for {
		err := s.Submit(ctx, c)
		if !errors.Is(err, ErrBackpressure) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(submitRetryBackoff):
		}
	}
}

// Submit validates c and enqueues it without waiting.
func (s *Service) Submit(ctx context.Context, c model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.EnqueuedAt = time.Now()

	err := s.queue.Enqueue(ctx, c)
	switch {
	case err == nil:
		s.logger.Debug(ctx, "command enqueued",
			logger.String("command_id", c.ID),
			logger.String("kind", string(c.Kind)),
		)
		return nil
	case errors.Is(err, eventqueue.ErrFull):
		return fmt.Errorf("%w: %w", ErrBackpressure, err)
	case errors.Is(err, eventqueue.ErrClosed):
		return fmt.Errorf("%w: %w", ErrStopped, err)
	default:
		return err
	}
}

// SubmitAndWait enqueues c and blocks until the dispatcher finished it.
func (s *Service) SubmitAndWait(ctx context.Context, c model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	ack := make(chan struct{})
	c.Ack = ack
	if err := s.Submit(ctx, c); err != nil {
		return err
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for command: %w", ctx.Err())
	}
}

// SetCountry selects a country ("" for all) and waits for the cycle.
func (s *Service) SetCountry(ctx context.Context, country string) error {
	return s.SubmitAndWait(ctx, model.SetCountry(country))
}

// Toggle flips slot between key and "no filter" and waits for the cycle.
// A slot drawn by a pie goes through the pie's click path, so only keys the
// pie shows are accepted.
func (s *Service) Toggle(ctx context.Context, slot model.Slot, key string) error {
	if slot == model.SlotSelectedSex && !slices.Contains(model.Sexes, key) {
		return fmt.Errorf("%w: %q", chart.ErrUnknownKey, key)
	}
	if pie := s.Snapshot().Sex; pie.Slot() == slot && len(pie.Wedges) > 0 {
		return pie.Click(ctx, key)
	}
	return s.SubmitAndWait(ctx, model.Toggle(slot, key))
}

// clickSlice is the pie click handler.
func (s *Service) clickSlice(ctx context.Context, slot model.Slot, key string) error {
	return s.SubmitAndWait(ctx, model.Toggle(slot, key))
}

func (s *Service) publish(snap *Snapshot) {
	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}

// Snapshot returns the last published snapshot.
func (s *Service) Snapshot() *Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// State returns the last published dashboard state.
func (s *Service) State(_ context.Context) types.State {
	return s.Snapshot().State
}

// ChartSVG writes the named chart's current scene.
func (s *Service) ChartSVG(_ context.Context, name string, w io.Writer, opts chart.RenderOptions) error {
	scene, err := s.Snapshot().Scene(name)
	if err != nil {
		return err
	}
	return scene.WriteSVG(w, opts)
}

// ChartPNG writes a static PNG of the named chart's current data.
func (s *Service) ChartPNG(_ context.Context, name string, w io.Writer) error {
	snap := s.Snapshot()
	switch name {
	case ChartSuicides:
		return export.Histogram(w, "Suicides", snap.Result.Suicides)
	case ChartPopulation:
		return export.Histogram(w, "Population", snap.Result.Population)
	case ChartSex:
		var opts []export.Option
		if len(s.palette) > 0 {
			opts = append(opts, export.WithPalette(s.palette))
		}
		return export.Pie(w, "Sex", snap.Result.Sex, opts...)
	default:
		return fmt.Errorf("%w: %q", chart.ErrUnknownChart, name)
	}
}

// SeenAndRecord atomically checks if an idempotency key was seen and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordCommandDuplicate()
	}
	return seen
}

// Unrecord forgets an idempotency key so the command can be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the number of remembered idempotency keys.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	st := s.State(ctx)
	return map[string]interface{}{
		"started":           s.started,
		"status":            st.Status,
		"queueSize":         s.queueSize,
		"queueLength":       s.queue.Len(ctx),
		"dedupeSize":        s.dedupeSize,
		"idempotencyKeys":   s.deduper.Size(),
		"commandsProcessed": s.dispatcher.Processed(),
		"commandsFailed":    s.dispatcher.Failed(),
		"records":           st.Records,
		"countries":         len(st.Countries),
		"cycle":             st.Cycle,
	}
}
