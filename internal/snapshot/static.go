package snapshot

import (
	"context"
	"sync"

	"github.com/hamed0406/maintwindow/internal/domain"
)

// Static serves records held in memory.
type Static struct {
	mu      sync.RWMutex
	records []domain.Record
	err     error
}

func NewStatic(records ...domain.Record) *Static {
	return &Static{records: records}
}

// Set replaces the served records and clears any configured error.
func (s *Static) Set(records []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.err = nil
}

// Fail makes subsequent fetches return err.
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Static) Fetch(ctx context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
