package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseInstant_Formats(t *testing.T) {
	want := time.Date(2024, 10, 1, 13, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   any
	}{
		{"rfc3339 utc", "2024-10-01T13:00:00Z"},
		{"rfc3339 offset", "2024-10-01T08:00:00-05:00"},
		{"short offset", "2024-10-01T08:00:00-5:00"},
		{"nanos", "2024-10-01T13:00:00.000Z"},
		{"no seconds", "2024-10-01T13:00Z"},
		{"time value", want},
		{"instant value", At(want)},
		{"unix millis", float64(want.UnixMilli())},
		{"json number", json.Number("1727787600000")},
	}
	for _, c := range cases {
		got := ParseInstant(c.in)
		if !got.Valid() {
			t.Fatalf("%s: want valid instant for %v", c.name, c.in)
		}
		if !got.Time().Equal(want) {
			t.Fatalf("%s: want %v, got %v", c.name, want, got.Time())
		}
	}
}

func TestParseInstant_InvalidValues(t *testing.T) {
	for _, in := range []any{"", "not a date", "2024-13-45T99:00:00Z", nil, true, map[string]any{}, time.Time{},
		json.Number("1e300"), json.Number("-1e300"), json.Number("8640000000000001"), 9e15, -9e15} {
		if got := ParseInstant(in); got.Valid() {
			t.Fatalf("want invalid instant for %#v, got %v", in, got)
		}
	}
}

func TestParseInstant_MillisAtRangeLimit(t *testing.T) {
	got := ParseInstant(json.Number("8640000000000000"))
	if !got.Valid() {
		t.Fatalf("want valid instant at the range limit, got %v", got)
	}
	if want := time.UnixMilli(8640000000000000); !got.Time().Equal(want) {
		t.Fatalf("want %v, got %v", want, got.Time())
	}
}

func TestInstant_InvalidComparisonsAreFalse(t *testing.T) {
	now := At(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC))
	bad := InvalidInstant

	if bad.Before(now) || bad.After(now) || bad.Equal(bad) || now.Before(bad) || now.After(bad) {
		t.Fatalf("comparisons with invalid instant must be false")
	}
	if now.Between(bad, now) || now.Between(now, bad) || bad.Between(now, now) {
		t.Fatalf("Between with invalid operand must be false")
	}
	if !bad.Time().IsZero() {
		t.Fatalf("invalid instant should expose zero time")
	}
}

func TestInstant_BetweenIsClosed(t *testing.T) {
	start := At(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	end := At(time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC))
	if !start.Between(start, end) || !end.Between(start, end) {
		t.Fatalf("boundaries must be included")
	}
	outside := At(end.Time().Add(time.Nanosecond))
	if outside.Between(start, end) {
		t.Fatalf("instant after end must be excluded")
	}
}

func TestInstant_JSON(t *testing.T) {
	in := At(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b, err := json.Marshal(struct {
		A Instant `json:"a"`
		B Instant `json:"b"`
	}{A: in, B: InvalidInstant})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":"2024-01-01T00:00:00Z","b":null}` {
		t.Fatalf("unexpected json: %s", b)
	}

	var got struct {
		A Instant `json:"a"`
		B Instant `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2024-01-01T00:00:00Z","b":"garbage"}`), &got); err != nil {
		t.Fatalf("unmarshal must not fail on bad dates: %v", err)
	}
	if !got.A.Equal(in) || got.B.Valid() {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestSchema_Kind(t *testing.T) {
	cases := []struct {
		name string
		want FieldKind
	}{
		{FieldMaintenanceStart, Temporal},
		{FieldServerDownEnd, Temporal},
		{FieldDescription, Opaque},
		{"announced_start", Temporal},
		{"window_end", Temporal},
		{"endpoint", Opaque},
		{"start", Opaque},
	}
	for _, c := range cases {
		if got := DefaultSchema.Kind(c.name); got != c.want {
			t.Fatalf("Kind(%q)=%v want %v", c.name, got, c.want)
		}
	}
}

func TestNormalize_PreservesOrderAndPassesOpaque(t *testing.T) {
	records := []Record{
		{
			FieldMaintenanceStart: "2024-01-02T00:00:00Z",
			FieldMaintenanceEnd:   "2024-01-02T02:00:00Z",
			FieldServerDownStart:  "1970-01-01T00:00:00Z",
			FieldServerDownEnd:    "1970-01-01T00:00:00Z",
			FieldDescription:      "second",
		},
		{
			FieldMaintenanceStart: "2024-01-01T00:00:00Z",
			FieldMaintenanceEnd:   "oops",
			FieldDescription:      "first",
			"region":              "eu",
		},
	}
	events := Normalize(records)
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	if events[0].Description != "second" || events[1].Description != "first" {
		t.Fatalf("order not preserved: %+v", events)
	}
	if events[1].MaintenanceEnd.Valid() || events[1].ServerDownStart.Valid() {
		t.Fatalf("unparseable/missing values must be invalid: %+v", events[1])
	}

	norm := DefaultSchema.NormalizeRecord(records[1])
	if norm["region"] != "eu" {
		t.Fatalf("opaque field changed: %v", norm["region"])
	}
	if _, ok := records[1][FieldMaintenanceStart].(string); !ok {
		t.Fatalf("input record was mutated")
	}
}

func TestNormalizeRecord_Idempotent(t *testing.T) {
	r := Record{
		FieldMaintenanceStart: "2024-01-01T00:00:00Z",
		FieldMaintenanceEnd:   "bad",
		FieldDescription:      "desc",
	}
	once := DefaultSchema.NormalizeRecord(r)
	twice := DefaultSchema.NormalizeRecord(once)
	for k, v := range once {
		if twice[k] != v {
			t.Fatalf("field %s changed on second pass: %v -> %v", k, v, twice[k])
		}
	}
}
