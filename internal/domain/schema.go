package domain

import "strings"

// FieldKind tells the normalizer how to treat a record field.
type FieldKind int

const (
	Opaque FieldKind = iota
	Temporal
)

// Field declares one known snapshot field.
type Field struct {
	Name string
	Kind FieldKind
}

// Schema is a declarative list of fields. Fields it does not list are
// classified by name suffix: "_start" and "_end" are temporal.
type Schema struct {
	Fields []Field
}

// DefaultSchema describes the maintenance snapshot.
var DefaultSchema = Schema{Fields: []Field{
	{Name: FieldMaintenanceStart, Kind: Temporal},
	{Name: FieldMaintenanceEnd, Kind: Temporal},
	{Name: FieldServerDownStart, Kind: Temporal},
	{Name: FieldServerDownEnd, Kind: Temporal},
	{Name: FieldDescription, Kind: Opaque},
}}

// Kind classifies a field name.
func (s Schema) Kind(name string) FieldKind {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Kind
		}
	}
	if strings.HasSuffix(name, "_start") || strings.HasSuffix(name, "_end") {
		return Temporal
	}
	return Opaque
}

// NormalizeRecord returns a copy of r with temporal fields parsed into
// Instants. Opaque fields pass through untouched. Running it on its own
// output changes nothing.
func (s Schema) NormalizeRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if s.Kind(k) == Temporal {
			out[k] = ParseInstant(v)
			continue
		}
		out[k] = v
	}
	return out
}

// Normalize converts raw records into events, keeping input order.
func (s Schema) Normalize(records []Record) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, EventFromRecord(s.NormalizeRecord(r)))
	}
	return events
}

// Normalize converts raw records using DefaultSchema.
func Normalize(records []Record) []Event {
	return DefaultSchema.Normalize(records)
}
