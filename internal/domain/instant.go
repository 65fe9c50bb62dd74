package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"
)

// Instant is a point in time that may be invalid. Invalid instants come from
// unparseable snapshot values; every comparison involving one is false.
type Instant struct {
	t     time.Time
	valid bool
}

// InvalidInstant is the zero Instant.
var InvalidInstant = Instant{}

// At wraps t as a valid instant.
func At(t time.Time) Instant {
	return Instant{t: t, valid: true}
}

var layoutsWithZone = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// "-5:00" style offsets show up in scraped data; time.Parse wants "-05:00".
var shortOffset = regexp.MustCompile(`([+-])(\d):(\d{2})$`)

// ParseInstant converts a raw snapshot value into an Instant. Strings are read
// as ISO-8601, numbers as Unix milliseconds. Values that are already instants
// are returned unchanged.
func ParseInstant(v any) Instant {
	switch x := v.(type) {
	case Instant:
		return x
	case *Instant:
		if x == nil {
			return InvalidInstant
		}
		return *x
	case time.Time:
		if x.IsZero() {
			return InvalidInstant
		}
		return At(x)
	case string:
		return parseInstantString(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return InvalidInstant
		}
		return fromMillis(f)
	case float64:
		return fromMillis(x)
	case int64:
		return fromMillis(float64(x))
	case int:
		return fromMillis(float64(x))
	default:
		return InvalidInstant
	}
}

func parseInstantString(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return InvalidInstant
	}
	s = shortOffset.ReplaceAllString(s, "${1}0${2}:${3}")
	for _, layout := range layoutsWithZone {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return At(t)
		}
	}
	// date-only forms are UTC midnight
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return At(t)
	}
	return InvalidInstant
}

// maxMillis is the largest distance from the epoch a date value may carry.
const maxMillis = 8.64e15

func fromMillis(ms float64) Instant {
	if math.IsNaN(ms) || math.Abs(ms) > maxMillis {
		return InvalidInstant
	}
	return At(time.UnixMilli(int64(ms)))
}

// Valid reports whether the instant holds a real time value.
func (i Instant) Valid() bool { return i.valid }

// Time returns the wrapped time. It is the zero time for invalid instants.
func (i Instant) Time() time.Time {
	if !i.valid {
		return time.Time{}
	}
	return i.t
}

// Before reports whether i is strictly before o.
func (i Instant) Before(o Instant) bool {
	return i.valid && o.valid && i.t.Before(o.t)
}

// After reports whether i is strictly after o.
func (i Instant) After(o Instant) bool {
	return i.valid && o.valid && i.t.After(o.t)
}

// Equal reports whether both instants are valid and denote the same moment.
func (i Instant) Equal(o Instant) bool {
	return i.valid && o.valid && i.t.Equal(o.t)
}

// Between reports start <= i <= end. Any invalid operand yields false.
func (i Instant) Between(start, end Instant) bool {
	if !i.valid || !start.valid || !end.valid {
		return false
	}
	return !i.t.Before(start.t) && !i.t.After(end.t)
}

func (i Instant) String() string {
	if !i.valid {
		return "invalid"
	}
	return i.t.Format(time.RFC3339)
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.t.Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails on bad dates; they become invalid instants.
func (i *Instant) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*i = InvalidInstant
		return nil
	}
	*i = ParseInstant(raw)
	return nil
}
