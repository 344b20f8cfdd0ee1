// Package repository holds the loaded dataset and its country index.
package repository

import (
	"context"

	"github.com/okian/crossdash/internal/domain/model"
)

// Store provides access to the record collection.
type Store interface {
	// Replace swaps the whole collection and rebuilds the country index.
	// Records with an empty uid are kept but never indexed as a country.
	Replace(ctx context.Context, records []model.Record) error

	// All returns the records in load order. Callers must not modify them.
	All(ctx context.Context) []model.Record

	// Countries returns the distinct country ids, sorted ascending.
	Countries(ctx context.Context) []string

	// HasCountry reports whether id appears in the dataset.
	HasCountry(ctx context.Context, id string) bool

	// Count returns the number of records.
	Count(ctx context.Context) int
}
