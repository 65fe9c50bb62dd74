package status

import (
	"time"

	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/timeline"
)

// Result is the outcome of matching events against a reference instant.
type Result struct {
	Active        []domain.Event `json:"active"`
	IsMaintenance bool           `json:"is_maintenance"`
	IsServerDown  bool           `json:"is_server_down"`
}

// Detect returns the events whose maintenance window contains now (both ends
// included). Servers count as down only when one of those active events also
// has its down window around now.
func Detect(events []domain.Event, now time.Time) Result {
	ref := domain.At(now)
	res := Result{Active: []domain.Event{}}
	for _, ev := range events {
		if ev.InMaintenance(ref) {
			res.Active = append(res.Active, ev)
		}
	}
	if len(res.Active) == 0 {
		return res
	}
	res.IsMaintenance = true
	for _, ev := range res.Active {
		if ev.ServerDown(ref) {
			res.IsServerDown = true
			break
		}
	}
	return res
}

// State is everything the presentation layer needs for one view.
type State struct {
	Now    time.Time       `json:"now"`
	Config display.Config  `json:"config"`
	Events []domain.Event  `json:"events"`
	Bounds timeline.Bounds `json:"window"`
	Result
}

// Evaluate is a pure function of its inputs.
func Evaluate(events []domain.Event, now time.Time, cfg display.Config) State {
	return State{
		Now:    now,
		Config: cfg,
		Events: events,
		Bounds: timeline.Window(now, cfg.WindowHours),
		Result: Detect(events, now),
	}
}
