package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Severity is the closed set of incident severity levels.
type Severity uint8

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// ParseSeverity maps a wire value to a Severity. Matching is exact.
func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if name == s {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid severity %d", uint8(s))
	}
	return []byte(name), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Status is the response state of an incident.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusResponding
	StatusResolved
)

var statusNames = map[Status]string{
	StatusPending:    "pending",
	StatusResponding: "responding",
	StatusResolved:   "resolved",
}

// ParseStatus maps a wire value to a Status. Matching is exact.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(name), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// dateLayout is the wire form of a calendar date.
const dateLayout = "2006-01-02"

// Date is a calendar date in UTC. Only the year, month and day are meaningful.
type Date struct {
	time.Time
}

// NewDate returns the calendar date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON and UnmarshalJSON shadow the RFC 3339 methods promoted from
// the embedded time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IncidentConditions records the weather measured when an incident was reported.
type IncidentConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Rainfall    float64 `json:"rainfall"`
}

// IncidentRecord is a single reported emergency tied to one region.
// Records are supplied wholesale by the caller and never mutated.
type IncidentRecord struct {
	ID             string      `json:"id"`
	Region         string      `json:"region"`
	Category       string      `json:"category"`
	Severity       Severity    `json:"severity"`
	OccurredAt     Date        `json:"occurred_at"`
	Coordinates    Coordinates `json:"coordinates"`
	AffectedCount  int         `json:"affected_count"`
	DamageEstimate float64     `json:"damage_estimate"`
	ResponseHours  float64     `json:"response_hours"`
	Status         Status      `json:"status"`
	Description    string      `json:"description,omitempty"`

	ConditionsAtIncident *IncidentConditions `json:"conditions_at_incident,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
