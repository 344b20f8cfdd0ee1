// Package worker runs the single command dispatcher that applies dashboard
// commands one at a time.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/okian/crossdash/pkg/metrics"
)

// Command is what the dispatcher reads off the queue.
type Command = model.Command

// Handler applies one command. Handle is never called concurrently.
type Handler interface {
	Handle(ctx context.Context, c Command) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, c Command) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, c Command) error { return f(ctx, c) } //nolint:gocritic // hugeParam: commands travel by value

// Queue defines how the dispatcher receives commands.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Command
}

// Dispatcher consumes the queue on one goroutine. Each command runs to
// completion before the next is read, so handlers need no locking.
type Dispatcher struct {
	queue   Queue
	handler Handler
	name    string

	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	drainMu  sync.Mutex
	shutdown chan struct{}
	done     chan struct{}

	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewDispatcher creates a dispatcher feeding q into h.
func NewDispatcher(q Queue, h Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:    q,
		handler:  h,
		name:     "dispatcher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Named(d.name)
	}
	return d
}

// Start runs the dispatcher loop in its own goroutine.
func (d *Dispatcher) Start(ctx context.Context) error {
	if d.stopped.Load() {
		return ErrStopped
	}
	if !d.started.CompareAndSwap(false, true) {
		return nil
	}
	go d.run(ctx)
	return nil
}

// Run runs the dispatcher loop on the calling goroutine until ctx is
// canceled, the queue is closed or Shutdown is called.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.stopped.Load() {
		return ErrStopped
	}
	if !d.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%s already running", d.name)
	}
	d.run(ctx)
	return nil
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	ch := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			// Queued commands carry acks that callers wait on.
			d.drain(context.WithoutCancel(ctx), ch)
			return
		case <-d.shutdown:
			d.drain(ctx, ch)
			return
		case c, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, c)
		}
	}
}

// drain applies whatever is already queued without waiting for more.
func (d *Dispatcher) drain(ctx context.Context, ch <-chan Command) {
	d.drainMu.Lock()
	defer d.drainMu.Unlock()
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, c)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, c Command) { //nolint:gocritic // hugeParam: commands travel by value
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			metrics.RecordErrorByComponent("dispatcher", "panic")
			d.logger.Error(ctx, "command handler panicked",
				logger.String("command_id", c.ID),
				logger.String("kind", string(c.Kind)),
				logger.Any("panic", r),
			)
		}
		if c.Ack != nil {
			close(c.Ack)
		}
	}()

	err := d.handler.Handle(ctx, c)
	latency := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordCommandProcessed(string(c.Kind), latency)
	d.processed.Add(1)

	if err != nil {
		d.failed.Add(1)
		metrics.RecordErrorByComponent("dispatcher", "handler_error")
		d.logger.Error(ctx, "command failed",
			logger.String("command_id", c.ID),
			logger.String("kind", string(c.Kind)),
			logger.Error(err),
		)
		return
	}
	d.logger.Debug(ctx, "command applied",
		logger.String("command_id", c.ID),
		logger.String("kind", string(c.Kind)),
		logger.Duration("took", time.Since(start)),
	)
}

// Shutdown stops the loop after the commands already queued are applied.
// It waits for the loop to exit or ctx to expire. Commands still queued
// once the loop is gone are applied here.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopped.Store(true)
	d.stopOnce.Do(func() { close(d.shutdown) })
	if !d.started.Load() {
		return nil
	}

	select {
	case <-d.done:
		// The loop may have exited on its own context before commands
		// submitted afterwards were read.
		d.drain(context.WithoutCancel(ctx), d.queue.Dequeue(ctx))
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when the loop has exited.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Processed returns how many commands were handled.
func (d *Dispatcher) Processed() int64 { return d.processed.Load() }

// Failed returns how many commands returned an error or panicked.
func (d *Dispatcher) Failed() int64 { return d.failed.Load() }
