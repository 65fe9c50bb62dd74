package timeline

import "time"

var tickSteps = []int{1, 2, 3, 4, 6, 12, 24}

// Ticks returns hour-aligned instants within b, spaced by the smallest step
// from tickSteps that keeps the count at or under maxTicks. Steps are aligned
// to the hour of day so midnight always gets a tick when in range.
func Ticks(b Bounds, maxTicks int) []time.Time {
	if maxTicks <= 0 || !b.End.After(b.Start) {
		return nil
	}
	hours := int(b.Duration() / time.Hour)
	step := tickSteps[len(tickSteps)-1]
	for _, s := range tickSteps {
		if hours/s+1 <= maxTicks {
			step = s
			break
		}
	}

	first := TruncateHour(b.Start)
	if first.Before(b.Start) {
		first = first.Add(time.Hour)
	}
	for first.Hour()%step != 0 {
		first = first.Add(time.Hour)
	}

	var out []time.Time
	for t := first; !t.After(b.End); t = t.Add(time.Duration(step) * time.Hour) {
		out = append(out, t)
	}
	return out
}
