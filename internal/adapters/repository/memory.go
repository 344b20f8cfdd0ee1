package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/okian/crossdash/pkg/metrics"
)

// MemoryStore is the in-memory Store. The dataset is replaced wholesale;
// readers get the slice that was current when they asked.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []model.Record
	countries []string
	index     map[string]struct{}
	log       logger.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		index: make(map[string]struct{}),
		log:   logger.Named("repository"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store.
func (s *MemoryStore) Replace(ctx context.Context, records []model.Record) error {
	if records == nil {
		return ErrNilRecords
	}
	owned := append([]model.Record(nil), records...)
	index := make(map[string]struct{})
	countries := make([]string, 0, 64)
	for _, r := range owned {
		if r.UID == "" {
			continue
		}
		if _, ok := index[r.UID]; !ok {
			index[r.UID] = struct{}{}
			countries = append(countries, r.UID)
		}
	}
	sort.Strings(countries)

	s.mu.Lock()
	s.records, s.countries, s.index = owned, countries, index
	s.mu.Unlock()

	metrics.UpdateDatasetRecords(len(owned), len(countries))
	s.log.Debug(ctx, "dataset replaced",
		logger.Int("records", len(owned)),
		logger.Int("countries", len(countries)),
	)
	return nil
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Countries implements Store.
func (s *MemoryStore) Countries(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.countries...)
}

// HasCountry implements Store.
func (s *MemoryStore) HasCountry(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
