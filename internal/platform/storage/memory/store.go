// Package memory provides the in-process Store backend. It is the "local"
// deployment variant and doubles as the unit-test backend.
package memory

import (
	"context"
	"sync"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/service"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]*service.Record
}

func New() *Store {
	return &Store{
		records: make(map[string]*service.Record),
	}
}

func (s *Store) Get(ctx context.Context, key string) (*service.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (s *Store) Put(ctx context.Context, key string, rec *service.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = cloneRecord(rec)
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]service.KeyedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]service.KeyedRecord, 0, len(s.records))
	for key, rec := range s.records {
		out = append(out, service.KeyedRecord{Key: key, Record: cloneRecord(rec)})
	}
	return out, nil
}

// cloneRecord copies the record header and report slice so callers cannot
// alias the stored state. Reports themselves are append-only and shared.
func cloneRecord(rec *service.Record) *service.Record {
	clone := *rec
	clone.Reports = append([]*domain.Report(nil), rec.Reports...)
	return &clone
}
