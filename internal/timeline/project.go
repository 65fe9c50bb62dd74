package timeline

import (
	"time"

	"github.com/hamed0406/maintwindow/internal/domain"
)

// SpanKind identifies which window of an event a span shows.
type SpanKind string

const (
	SpanMaintenance SpanKind = "maintenance"
	SpanServerDown  SpanKind = "server_down"
)

// Span is an event window clipped to the axis bounds.
type Span struct {
	Kind    SpanKind  `json:"kind"`
	Event   int       `json:"event"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Clipped bool      `json:"clipped"`
}

// Project clips every event's maintenance and server-down windows to b.
// Windows with invalid instants, inverted ranges or no overlap with b are
// left out. Spans keep event order, maintenance before server-down.
func Project(events []domain.Event, b Bounds) []Span {
	spans := make([]Span, 0, len(events)*2)
	for i, ev := range events {
		if s, ok := clip(SpanMaintenance, i, ev.MaintenanceStart, ev.MaintenanceEnd, b); ok {
			spans = append(spans, s)
		}
		if s, ok := clip(SpanServerDown, i, ev.ServerDownStart, ev.ServerDownEnd, b); ok {
			spans = append(spans, s)
		}
	}
	return spans
}

func clip(kind SpanKind, idx int, start, end domain.Instant, b Bounds) (Span, bool) {
	if !start.Valid() || !end.Valid() {
		return Span{}, false
	}
	s, e := start.Time(), end.Time()
	if e.Before(s) || e.Before(b.Start) || s.After(b.End) {
		return Span{}, false
	}
	span := Span{Kind: kind, Event: idx, Start: s, End: e}
	if s.Before(b.Start) {
		span.Start = b.Start
		span.Clipped = true
	}
	if e.After(b.End) {
		span.End = b.End
		span.Clipped = true
	}
	return span, true
}
