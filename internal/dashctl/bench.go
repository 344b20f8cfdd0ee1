package dashctl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
)

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeDuplicate
	outcomeBackpressure
	outcomeFailed
)

type toggleJob struct {
	key            string
	idempotencyKey string
}

// Bench sends cfg.Toggles sex toggles from cfg.Workers goroutines and
// counts how the dashboard answered.
func Bench(ctx context.Context, c *Client, cfg BenchConfig) (BenchStats, error) {
	if cfg.Toggles <= 0 {
		return BenchStats{}, nil
	}
	workers := min(max(cfg.Workers, 1), cfg.Toggles)
	log := logger.Named("bench")
	log.Info(ctx, "sending toggles", logger.Int("toggles", cfg.Toggles), logger.Int("workers", workers))

	var (
		counts [outcomeFailed + 1]atomic.Int64
		sent   atomic.Int64
	)
	start := time.Now()
	jobs := make(chan toggleJob, workers*workerChannelMultiple)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				o := toggleOnce(ctx, c, job)
				counts[o].Add(1)
				sent.Add(1)
			}
		}()
	}

	// Progress reporting
	stopProgress := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopProgress:
				return
			case <-ticker.C:
				log.Info(ctx, "progress", logger.Any("sent", sent.Load()), logger.Int("total", cfg.Toggles))
			}
		}
	}()

	var prev string
	func() {
		defer close(jobs)
		for i := 0; i < cfg.Toggles; i++ {
			idem := uuid.NewString()
			if cfg.Reuse > 0 && i > 0 && i%cfg.Reuse == 0 {
				idem = prev
			}
			prev = idem
			job := toggleJob{key: model.Sexes[i%len(model.Sexes)], idempotencyKey: idem}
			select {
			case <-ctx.Done():
				return
			case jobs <- job:
			}
		}
	}()
	wg.Wait()
	close(stopProgress)

	stats := BenchStats{
		Sent:         int(sent.Load()),
		Applied:      int(counts[outcomeApplied].Load()),
		Duplicate:    int(counts[outcomeDuplicate].Load()),
		Backpressure: int(counts[outcomeBackpressure].Load()),
		Failed:       int(counts[outcomeFailed].Load()),
		Duration:     time.Since(start),
	}
	log.Info(ctx, "bench completed",
		logger.Int("applied", stats.Applied),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, ctx.Err()
}

func toggleOnce(ctx context.Context, c *Client, job toggleJob) outcome {
	resp, err := c.Toggle(ctx, model.SlotSelectedSex, job.key, job.idempotencyKey)
	switch {
	case errors.Is(err, ErrBackpressure):
		return outcomeBackpressure
	case err != nil:
		return outcomeFailed
	case resp.Duplicate:
		return outcomeDuplicate
	default:
		return outcomeApplied
	}
}
