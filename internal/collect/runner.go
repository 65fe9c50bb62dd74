package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/metrics"
	"github.com/hamed0406/maintwindow/internal/notify"
	"github.com/hamed0406/maintwindow/internal/snapshot"
	"github.com/hamed0406/maintwindow/internal/status"
)

// ErrNoDocuments means every source failed, so nothing was written.
var ErrNoDocuments = errors.New("collect: no source produced a document")

// ErrNoExtraction means every document failed extraction, so nothing was written.
var ErrNoExtraction = errors.New("collect: no document could be extracted")

// Report summarises one collection run.
type Report struct {
	Documents     int
	FailedSources []string
	Records       int
	Events        int
	Dropped       int
	Status        status.Result
}

type Runner struct {
	Logger      *zap.Logger
	Sources     []Source
	Extractor   Extractor
	OutputPath  string
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
	Now         func() time.Time

	Alerter *Alerter
}

func NewRunner(
	logger *zap.Logger,
	sources []Source,
	extractor Extractor,
	notifier notify.Notifier,
	outputPath string,
	interval time.Duration,
	timeout time.Duration,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		Logger:      logger,
		Sources:     sources,
		Extractor:   extractor,
		Alerter:     NewAlerter(notifier, AlerterConfig{AlertOnRecovery: true, Cooldown: 30 * time.Minute}, logger),
		OutputPath:  outputPath,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: 2,
		Now:         time.Now,
	}
}

// Run does an immediate pass, then one per tick until ctx is cancelled.
// With a zero interval it runs once and returns that run's error.
func (r *Runner) Run(ctx context.Context) error {
	if r.Interval == 0 {
		_, err := r.RunOnce(ctx)
		return err
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	_, _ = r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("collector_stopped")
			return nil
		case <-t.C:
			_, _ = r.RunOnce(ctx)
		}
	}
}

// RunOnce fetches every source, extracts records, validates them and writes
// the snapshot. The previous snapshot is kept when nothing usable came back.
func (r *Runner) RunOnce(ctx context.Context) (Report, error) {
	started := time.Now()
	rep, err := r.collect(ctx)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		r.Logger.Error("collect_failed", zap.Error(err), zap.Strings("failed_sources", rep.FailedSources))
	} else {
		r.Logger.Info("collect_done",
			zap.String("path", r.OutputPath),
			zap.Int("documents", rep.Documents),
			zap.Int("records", rep.Records),
			zap.Int("events", rep.Events),
			zap.Int("dropped", rep.Dropped),
			zap.Bool("maintenance", rep.Status.IsMaintenance),
			zap.Bool("server_down", rep.Status.IsServerDown),
		)
	}
	metrics.ObserveCollect(result, time.Since(started))
	r.Alerter.Observe(ctx, rep, err)
	return rep, err
}

func (r *Runner) collect(ctx context.Context) (Report, error) {
	var rep Report

	docs, failed := r.fetchAll(ctx)
	rep.Documents = len(docs)
	rep.FailedSources = failed
	if len(docs) == 0 {
		return rep, ErrNoDocuments
	}

	var records []domain.Record
	extracted := 0
	for _, doc := range docs {
		recs, err := r.Extractor.Extract(ctx, doc)
		if err != nil {
			r.Logger.Warn("extract_failed", zap.String("source", doc.Source), zap.Error(err))
			rep.FailedSources = append(rep.FailedSources, doc.Source)
			continue
		}
		extracted++
		records = append(records, recs...)
	}
	if extracted == 0 {
		return rep, ErrNoExtraction
	}
	rep.Records = len(records)

	events, dropped := clean(domain.Normalize(records))
	rep.Events = len(events)
	rep.Dropped = dropped

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return rep, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := snapshot.WriteFile(r.OutputPath, data); err != nil {
		return rep, err
	}

	rep.Status = status.Detect(events, r.now())
	return rep, nil
}

type fetched struct {
	doc Document
	err error
}

// fetchAll runs the sources with bounded concurrency and keeps their order.
func (r *Runner) fetchAll(ctx context.Context) ([]Document, []string) {
	n := r.Concurrency
	if n < 1 {
		n = 1
	}
	out := make([]fetched, len(r.Sources))
	sem := make(chan struct{}, n)
	var wg sync.WaitGroup

	for i, src := range r.Sources {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, src Source) {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			doc, err := src.Fetch(cctx)
			if doc.Source == "" {
				doc.Source = src.Name()
			}
			out[i] = fetched{doc: doc, err: err}
		}(i, src)
	}
	wg.Wait()

	var docs []Document
	var failed []string
	for i, f := range out {
		if f.err != nil {
			r.Logger.Warn("source_fetch_failed", zap.String("source", r.Sources[i].Name()), zap.Error(f.err))
			failed = append(failed, r.Sources[i].Name())
			continue
		}
		r.Logger.Debug("source_fetched", zap.String("source", f.doc.Source), zap.Int("bytes", len(f.doc.Body)))
		docs = append(docs, f.doc)
	}
	return docs, failed
}

// clean drops events without a usable maintenance window and duplicates, then
// orders the rest by maintenance start.
func clean(events []domain.Event) ([]domain.Event, int) {
	out := make([]domain.Event, 0, len(events))
	seen := make(map[string]bool, len(events))
	dropped := 0
	for _, ev := range events {
		if !usable(ev) {
			dropped++
			continue
		}
		key := instantKey(ev.MaintenanceStart) + "|" + instantKey(ev.MaintenanceEnd) + "|" +
			instantKey(ev.ServerDownStart) + "|" + instantKey(ev.ServerDownEnd)
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaintenanceStart.Before(out[j].MaintenanceStart)
	})
	return out, dropped
}

func instantKey(i domain.Instant) string {
	if !i.Valid() {
		return "-"
	}
	return strconv.FormatInt(i.Time().UnixNano(), 10)
}

// usable: valid maintenance bounds in order, and not the epoch placeholder.
func usable(ev domain.Event) bool {
	s, e := ev.MaintenanceStart, ev.MaintenanceEnd
	if !s.Valid() || !e.Valid() || s.After(e) {
		return false
	}
	return s.Time().Unix() != 0
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
