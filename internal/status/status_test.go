package status

import (
	"testing"
	"time"

	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/domain"
)

func ts(day, h, m int) time.Time {
	return time.Date(2024, 1, day, h, m, 0, 0, time.UTC)
}

func window(start, end time.Time) (domain.Instant, domain.Instant) {
	return domain.At(start), domain.At(end)
}

func maintenance(start, end time.Time) domain.Event {
	s, e := window(start, end)
	return domain.Event{MaintenanceStart: s, MaintenanceEnd: e}
}

func TestDetect_Scenarios(t *testing.T) {
	withDown := maintenance(ts(1, 0, 0), ts(1, 2, 0))
	withDown.ServerDownStart, withDown.ServerDownEnd = window(ts(1, 0, 30), ts(1, 1, 30))

	cases := []struct {
		name          string
		events        []domain.Event
		now           time.Time
		maint, down   bool
		activeEntries int
	}{
		{"A maintenance only", []domain.Event{maintenance(ts(1, 0, 0), ts(1, 2, 0))}, ts(1, 1, 0), true, false, 1},
		{"B maintenance and down", []domain.Event{withDown}, ts(1, 1, 0), true, true, 1},
		{"C after window", []domain.Event{maintenance(ts(1, 0, 0), ts(1, 2, 0))}, ts(1, 3, 0), false, false, 0},
		{"no events", nil, ts(1, 1, 0), false, false, 0},
	}
	for _, c := range cases {
		got := Detect(c.events, c.now)
		if got.IsMaintenance != c.maint || got.IsServerDown != c.down || len(got.Active) != c.activeEntries {
			t.Fatalf("%s: got maint=%v down=%v active=%d", c.name, got.IsMaintenance, got.IsServerDown, len(got.Active))
		}
	}
}

func TestDetect_BoundariesAreActive(t *testing.T) {
	ev := maintenance(ts(1, 0, 0), ts(1, 2, 0))
	for _, now := range []time.Time{ts(1, 0, 0), ts(1, 2, 0)} {
		if got := Detect([]domain.Event{ev}, now); len(got.Active) != 1 {
			t.Fatalf("now=%v must be active", now)
		}
	}
	for _, now := range []time.Time{ts(1, 0, 0).Add(-time.Nanosecond), ts(1, 2, 0).Add(time.Nanosecond)} {
		if got := Detect([]domain.Event{ev}, now); len(got.Active) != 0 {
			t.Fatalf("now=%v must not be active", now)
		}
	}
}

func TestDetect_DownIgnoredWithoutMaintenance(t *testing.T) {
	// down window covers now, maintenance window does not
	ev := maintenance(ts(2, 0, 0), ts(2, 2, 0))
	ev.ServerDownStart, ev.ServerDownEnd = window(ts(1, 0, 0), ts(1, 23, 0))

	got := Detect([]domain.Event{ev}, ts(1, 12, 0))
	if got.IsMaintenance || got.IsServerDown {
		t.Fatalf("down status must require active maintenance: %+v", got)
	}
}

func TestDetect_DownMustBelongToActiveEvent(t *testing.T) {
	active := maintenance(ts(1, 0, 0), ts(1, 4, 0))
	other := maintenance(ts(2, 0, 0), ts(2, 4, 0))
	other.ServerDownStart, other.ServerDownEnd = window(ts(1, 0, 0), ts(1, 4, 0))

	got := Detect([]domain.Event{active, other}, ts(1, 2, 0))
	if !got.IsMaintenance || got.IsServerDown {
		t.Fatalf("want maintenance without down, got %+v", got)
	}
}

func TestDetect_InvalidInstantsNeverActive(t *testing.T) {
	events := []domain.Event{
		{MaintenanceStart: domain.InvalidInstant, MaintenanceEnd: domain.At(ts(1, 4, 0))},
		{MaintenanceStart: domain.At(ts(1, 0, 0)), MaintenanceEnd: domain.InvalidInstant},
	}
	if got := Detect(events, ts(1, 2, 0)); got.IsMaintenance {
		t.Fatalf("invalid instants must not match: %+v", got)
	}
}

func TestDetect_KeepsOrder(t *testing.T) {
	first := maintenance(ts(1, 0, 0), ts(1, 4, 0))
	first.Description = "first"
	second := maintenance(ts(1, 1, 0), ts(1, 3, 0))
	second.Description = "second"

	got := Detect([]domain.Event{first, second}, ts(1, 2, 0))
	if len(got.Active) != 2 || got.Active[0].Description != "first" || got.Active[1].Description != "second" {
		t.Fatalf("unexpected active list: %+v", got.Active)
	}
}

func TestEvaluate(t *testing.T) {
	events := []domain.Event{maintenance(ts(1, 0, 0), ts(1, 2, 0))}
	now := time.Date(2024, 1, 1, 1, 47, 0, 0, time.UTC)
	st := Evaluate(events, now, display.Config{HourFormat: display.Hour24, WindowHours: 6})

	if !st.IsMaintenance || st.IsServerDown {
		t.Fatalf("unexpected status: %+v", st.Result)
	}
	if want := ts(1, 0, 0); !st.Bounds.Start.Equal(want) {
		t.Fatalf("want start %v, got %v", want, st.Bounds.Start)
	}
	if st.Bounds.Duration() != 6*time.Hour {
		t.Fatalf("want 6h window, got %v", st.Bounds.Duration())
	}
	if len(st.Events) != 1 {
		t.Fatalf("events not carried")
	}
}
