// Package source loads the dataset CSV from an HTTP(S) URL or a local file.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/okian/crossdash/pkg/metrics"
)

// Loader fetches and parses the dataset once per call. It never retries.
type Loader struct {
	url     string
	client  *http.Client
	timeout time.Duration
	policy  string
	log     logger.Logger
}

// New creates a Loader for rawURL.
func New(rawURL string, opts ...Option) (*Loader, error) {
	l := &Loader{
		url:    strings.TrimSpace(rawURL),
		client: http.DefaultClient,
		policy: PolicyDrop,
		log:    logger.Named("source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.url == "" {
		return nil, fmt.Errorf("%w: empty data url", ErrLoad)
	}
	if !ValidPolicy(l.policy) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, l.policy)
	}
	return l, nil
}

// URL returns the configured source.
func (l *Loader) URL() string { return l.url }

// Load fetches and parses the dataset.
func (l *Loader) Load(ctx context.Context) ([]model.Record, model.LoadReport, error) {
	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	records, report, err := l.load(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordLoadFailure(elapsed)
		metrics.RecordErrorByComponent("source", "load")
		l.log.Error(ctx, "dataset load failed", logger.String("url", l.url), logger.Error(err))
		return nil, report, err
	}

	metrics.RecordLoad(elapsed, report.Kept)
	metrics.RecordInvalidRows(report.Policy, report.Invalid)
	l.log.Info(ctx, "dataset loaded",
		logger.String("url", l.url),
		logger.Int("rows", report.Rows),
		logger.Int("kept", report.Kept),
		logger.Int("invalid", report.Invalid),
		logger.Int("dropped", report.Dropped),
		logger.Duration("took", time.Since(start)),
	)
	return records, report, nil
}

func (l *Loader) load(ctx context.Context) ([]model.Record, model.LoadReport, error) {
	body, err := l.open(ctx)
	if err != nil {
		return nil, model.LoadReport{Policy: l.policy}, err
	}
	defer func() { _ = body.Close() }()
	return Parse(body, l.policy)
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	u, err := url.Parse(l.url)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, including Windows drive letters.
		return openFile(l.url)
	}
	switch u.Scheme {
	case "http", "https":
		return l.fetch(ctx)
	case "file":
		return openFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrLoad, u.Scheme)
	}
}

func (l *Loader) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrLoad, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrLoad, l.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %w: %s", ErrLoad, ErrBadStatus, resp.Status)
	}
	return resp.Body, nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	return f, nil
}
