package collect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/metrics"
)

// Retrying retries a failing Extractor with a fixed backoff.
type Retrying struct {
	Inner    Extractor
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
}

func NewRetrying(inner Extractor, attempts int, backoff time.Duration, logger *zap.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{Inner: inner, Attempts: attempts, Backoff: backoff, Logger: logger}
}

func (r *Retrying) Extract(ctx context.Context, doc Document) ([]domain.Record, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 1; i <= attempts; i++ {
		recs, err := r.Inner.Extract(ctx, doc)
		if err == nil {
			metrics.IncExtractAttempt(metrics.ResultSuccess)
			return recs, nil
		}
		metrics.IncExtractAttempt(metrics.ResultError)
		last = err
		r.Logger.Warn("extract_attempt_failed",
			zap.String("source", doc.Source),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("extract %s: %w (last error: %v)", doc.Source, ctx.Err(), last)
		case <-time.After(r.Backoff):
		}
	}
	return nil, fmt.Errorf("extract %s: max attempts reached: %w", doc.Source, last)
}
