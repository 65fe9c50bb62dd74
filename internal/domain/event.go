package domain

// Snapshot field names.
const (
	FieldMaintenanceStart = "maintenance_time_start"
	FieldMaintenanceEnd   = "maintenance_time_end"
	FieldServerDownStart  = "server_down_start"
	FieldServerDownEnd    = "server_down_end"
	FieldDescription      = "description"
)

// Record is one raw entry of the snapshot as decoded from JSON.
type Record map[string]any

// Event is a maintenance window with an optional server-down window inside it.
type Event struct {
	MaintenanceStart Instant `json:"maintenance_time_start"`
	MaintenanceEnd   Instant `json:"maintenance_time_end"`
	ServerDownStart  Instant `json:"server_down_start"`
	ServerDownEnd    Instant `json:"server_down_end"`
	Description      string  `json:"description"`
}

// EventFromRecord builds an Event from a normalized record. Missing temporal
// fields are invalid instants; a non-string description is dropped.
func EventFromRecord(r Record) Event {
	desc, _ := r[FieldDescription].(string)
	return Event{
		MaintenanceStart: ParseInstant(r[FieldMaintenanceStart]),
		MaintenanceEnd:   ParseInstant(r[FieldMaintenanceEnd]),
		ServerDownStart:  ParseInstant(r[FieldServerDownStart]),
		ServerDownEnd:    ParseInstant(r[FieldServerDownEnd]),
		Description:      desc,
	}
}

// InMaintenance reports whether now lies inside the closed maintenance window.
func (e Event) InMaintenance(now Instant) bool {
	return now.Between(e.MaintenanceStart, e.MaintenanceEnd)
}

// ServerDown reports whether now lies inside the closed server-down window.
func (e Event) ServerDown(now Instant) bool {
	return now.Between(e.ServerDownStart, e.ServerDownEnd)
}
