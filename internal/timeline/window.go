package timeline

import "time"

// DefaultWindowHours is the visible span used when none is configured.
const DefaultWindowHours = 48

// MaxWindowHours is the widest span Window will produce.
const MaxWindowHours = 8760

// Bounds is the visible range of the time axis.
type Bounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Window returns the axis bounds for now: one hour of context before the
// current hour, then hours forward from there. hours above MaxWindowHours
// are clamped to it.
func Window(now time.Time, hours int) Bounds {
	if hours > MaxWindowHours {
		hours = MaxWindowHours
	}
	hourStart := TruncateHour(now)
	start := hourStart.Add(-time.Hour)
	return Bounds{
		Start: start,
		End:   start.Add(time.Duration(hours) * time.Hour),
	}
}

// TruncateHour zeroes minutes, seconds and sub-seconds in t's own location.
func TruncateHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Duration is End - Start.
func (b Bounds) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Contains reports Start <= t <= End.
func (b Bounds) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}
