package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hamed0406/maintwindow/internal/domain"
)

// ErrMalformed is returned when the snapshot is not a JSON array of objects.
var ErrMalformed = errors.New("snapshot: malformed data")

// Source fetches the current snapshot of raw records.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
}

// Decode reads a JSON array of objects. Numbers are kept as json.Number.
func Decode(r io.Reader) ([]domain.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	records := make([]domain.Record, 0, len(raw))
	for i, m := range raw {
		if m == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrMalformed, i)
		}
		records = append(records, domain.Record(m))
	}
	return records, nil
}
