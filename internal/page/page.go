package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/metrics"
	"github.com/hamed0406/maintwindow/internal/render"
	"github.com/hamed0406/maintwindow/internal/snapshot"
	"github.com/hamed0406/maintwindow/internal/status"
)

// ErrSnapshotUnavailable is returned by Load when the snapshot cannot be read.
var ErrSnapshotUnavailable = errors.New("page: snapshot unavailable")

// View is one evaluated page load.
type View struct {
	status.State
	Err error `json:"-"`
}

// Available reports whether the snapshot was read.
func (v View) Available() bool { return v.Err == nil }

// Loader runs the page-load sequence against its collaborators.
type Loader struct {
	Source   snapshot.Source
	Renderer render.Renderer
	Now      func() time.Time
	Logger   *zap.Logger
}

func NewLoader(src snapshot.Source, r render.Renderer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Source: src, Renderer: r, Now: time.Now, Logger: logger}
}

func (l *Loader) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// Load fetches and evaluates the snapshot. On a fetch failure the returned
// View has no events and is not in maintenance.
func (l *Loader) Load(ctx context.Context, cfg display.Config) (View, error) {
	started := time.Now()
	now := l.now()

	records, err := l.Source.Fetch(ctx)
	if err != nil {
		metrics.IncSnapshotFetch(metrics.ResultError)
		metrics.ObservePageLoad(metrics.ResultError, time.Since(started))
		l.Logger.Warn("snapshot_fetch_failed", zap.Error(err))

		wrapped := fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
		view := View{State: status.Evaluate([]domain.Event{}, now, cfg), Err: wrapped}
		return view, wrapped
	}
	metrics.IncSnapshotFetch(metrics.ResultSuccess)

	events := domain.Normalize(records)
	view := View{State: status.Evaluate(events, now, cfg)}

	metrics.ObservePageLoad(metrics.ResultSuccess, time.Since(started))
	metrics.SetStatus(view.IsMaintenance, view.IsServerDown, len(view.Active))
	l.Logger.Debug("page_loaded",
		zap.Int("events", len(events)),
		zap.Int("active", len(view.Active)),
		zap.Bool("maintenance", view.IsMaintenance),
		zap.Bool("server_down", view.IsServerDown),
		zap.Time("window_start", view.Bounds.Start),
		zap.Time("window_end", view.Bounds.End),
	)
	return view, nil
}

// Chart renders the timeline of v into w.
func (l *Loader) Chart(w io.Writer, v View) error {
	if l.Renderer == nil {
		return fmt.Errorf("%w: no renderer configured", render.ErrRender)
	}
	err := l.Renderer.Render(w, render.Input{
		Events: v.Events,
		Now:    v.Now,
		Bounds: v.Bounds,
		Config: v.Config,
	})
	if err != nil {
		metrics.IncChartRender(metrics.ResultError)
		l.Logger.Error("chart_render_failed", zap.Error(err))
		return err
	}
	metrics.IncChartRender(metrics.ResultSuccess)
	return nil
}
