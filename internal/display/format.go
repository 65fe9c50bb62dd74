package display

import "time"

const (
	layoutTime12  = "3:04 PM"
	layoutTime24  = "15:04"
	layoutDateFmt = "Jan 2, 2006"
)

// FormatTime renders the clock part of t.
func (c Config) FormatTime(t time.Time) string {
	if c.HourFormat == Hour24 {
		return t.Format(layoutTime24)
	}
	return t.Format(layoutTime12)
}

// FormatDateShort renders t as e.g. "Jan 2, 2006".
func FormatDateShort(t time.Time) string {
	return t.Format(layoutDateFmt)
}

// FormatDateTime renders the date followed by the clock.
func (c Config) FormatDateTime(t time.Time) string {
	return FormatDateShort(t) + ", " + c.FormatTime(t)
}

// FormatRange renders "start - end" as shown in chart tooltips.
func (c Config) FormatRange(start, end time.Time) string {
	return c.FormatDateTime(start) + " - " + c.FormatDateTime(end)
}

// TickLabel labels an axis tick: midnight shows the date, other hours the time.
func (c Config) TickLabel(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return FormatDateShort(t)
	}
	return c.FormatTime(t)
}
