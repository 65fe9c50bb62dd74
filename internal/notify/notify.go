package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrDisabled is returned by a notifier that has no destination configured.
var ErrDisabled = errors.New("notify: disabled")

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes notifications to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, title, text string) error {
	if l.Logger == nil {
		return ErrDisabled
	}
	l.Logger.Info("notification", zap.String("title", title), zap.String("text", text))
	return nil
}

// New returns the logger sink plus Slack when a webhook is configured.
func New(logger *zap.Logger, slackWebhook string) Notifier {
	m := Multi{Log{Logger: logger}}
	if s := NewSlack(slackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}
