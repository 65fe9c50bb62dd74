package collect

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/notify"
	"github.com/hamed0406/maintwindow/internal/status"
)

// Alert titles.
const (
	TitleFailed    = "🔴 Snapshot collection FAILED"
	TitleRecovered = "🟢 Snapshot collection RECOVERED"
	TitleChanged   = "🟡 Maintenance status changed"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	// Cooldown suppresses a failure alert if the previous one went out less
	// than Cooldown ago.
	Cooldown time.Duration
}

// Alerter turns run outcomes into notifications on state transitions only:
// ok -> failed, failed -> ok, and a change of the detected status.
type Alerter struct {
	notifier notify.Notifier
	cfg      AlerterConfig
	logger   *zap.Logger
	now      func() time.Time

	mu           sync.Mutex
	lastOK       *bool
	lastStatus   *status.Result
	lastFailSent time.Time
}

func NewAlerter(n notify.Notifier, cfg AlerterConfig, logger *zap.Logger) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Alerter{notifier: n, cfg: cfg, logger: logger, now: time.Now}
}

// Observe records one run. runErr == nil means rep is a successful run.
func (a *Alerter) Observe(ctx context.Context, rep Report, runErr error) {
	if a == nil || a.notifier == nil {
		return
	}
	title, text := a.decide(rep, runErr)
	if title == "" {
		return
	}
	if err := a.notifier.Send(ctx, title, text); err != nil {
		a.logger.Warn("notify_failed", zap.String("title", title), zap.Error(err))
	}
}

func (a *Alerter) decide(rep Report, runErr error) (string, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	ok := runErr == nil
	wasFailing := a.lastOK != nil && !*a.lastOK
	stateChanged := a.lastOK == nil || *a.lastOK != ok
	a.lastOK = &ok

	if !ok {
		cooled := a.lastFailSent.IsZero() || now.Sub(a.lastFailSent) >= a.cfg.Cooldown
		if !stateChanged || !cooled {
			return "", ""
		}
		a.lastFailSent = now
		text := fmt.Sprintf("Error: %v\nAt: %s", runErr, now.Format(time.RFC3339))
		if len(rep.FailedSources) > 0 {
			text += "\nFailed sources: " + strings.Join(rep.FailedSources, ", ")
		}
		return TitleFailed, text
	}

	prev := a.lastStatus
	st := rep.Status
	a.lastStatus = &st

	switch {
	case wasFailing && a.cfg.AlertOnRecovery:
		return TitleRecovered, describe(rep)
	case prev != nil && (prev.IsMaintenance != st.IsMaintenance || prev.IsServerDown != st.IsServerDown):
		return TitleChanged, describe(rep)
	}
	return "", ""
}

func describe(rep Report) string {
	var b strings.Builder
	switch {
	case rep.Status.IsServerDown:
		b.WriteString("Servers are down for maintenance")
	case rep.Status.IsMaintenance:
		b.WriteString("Maintenance in progress, servers are up")
	default:
		b.WriteString("No maintenance right now")
	}
	for _, ev := range rep.Status.Active {
		if ev.Description != "" {
			b.WriteString("\n- " + ev.Description)
		}
	}
	fmt.Fprintf(&b, "\nEvents in snapshot: %d", rep.Events)
	return b.String()
}
