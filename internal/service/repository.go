package service

import (
	"context"
	"time"

	"github.com/upisafe/fraud-registry/internal/domain"
)

// Record is the stored value for one identifier: its full report list plus
// the aggregate fields cached at last write. The cache is informational
// only; every read path recomputes from Reports.
type Record struct {
	Reports   []*domain.Report
	Aggregate domain.Aggregate
	UpdatedAt time.Time
}

// KeyedRecord pairs a record with its storage key for full scans.
type KeyedRecord struct {
	Key    string
	Record *Record
}

// Store is the narrow persistence contract. Backends (in-memory, ScyllaDB)
// are interchangeable behind it; the engine never sees backend specifics.
type Store interface {
	// Get returns the record for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) (*Record, error)

	// Put durably replaces the record for key.
	Put(ctx context.Context, key string, rec *Record) error

	// ListAll returns every stored record.
	ListAll(ctx context.Context) ([]KeyedRecord, error)
}
