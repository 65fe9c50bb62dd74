package display

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hamed0406/maintwindow/internal/timeline"
)

// HourFormat selects the clock used for labels.
type HourFormat string

const (
	Hour12 HourFormat = "12h"
	Hour24 HourFormat = "24h"
)

// Query parameter names.
const (
	ParamMode = "mode"
	ParamEnd  = "end"
)

// Config is the per-view configuration taken from the request URL.
type Config struct {
	HourFormat  HourFormat `json:"mode"`
	WindowHours int        `json:"end"`
}

// Default is the configuration used when no parameter is given.
func Default() Config {
	return Config{HourFormat: Hour12, WindowHours: timeline.DefaultWindowHours}
}

// MaxWindowHours is the widest timeline a request may ask for.
const MaxWindowHours = timeline.MaxWindowHours

// Resolve applies the defaulting rules to raw parameter values: anything but
// "24h" is 12h, and end must be an integer in [1, MaxWindowHours] or it
// becomes 48.
func Resolve(mode, end string) Config {
	cfg := Default()
	if HourFormat(strings.TrimSpace(mode)) == Hour24 {
		cfg.HourFormat = Hour24
	}
	if n, err := strconv.Atoi(strings.TrimSpace(end)); err == nil && n > 0 && n <= MaxWindowHours {
		cfg.WindowHours = n
	}
	return cfg
}

// FromQuery resolves the configuration from URL query parameters.
func FromQuery(q url.Values) Config {
	return Resolve(q.Get(ParamMode), q.Get(ParamEnd))
}

// Values encodes the configuration as query parameters.
func (c Config) Values() url.Values {
	v := url.Values{}
	v.Set(ParamEnd, strconv.Itoa(c.WindowHours))
	v.Set(ParamMode, string(c.HourFormat))
	return v
}

// Link returns "?..." for the current configuration with overrides applied.
// Unknown override keys are carried along unchanged.
func (c Config) Link(overrides map[string]string) string {
	v := c.Values()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, overrides[k])
	}
	return "?" + v.Encode()
}
