package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidReport is wrapped by NewReport when required fields are missing.
var ErrInvalidReport = errors.New("invalid report")

// ReportStatus tracks a submitted emergency report.
type ReportStatus string

const (
	ReportPending      ReportStatus = "pending"
	ReportAcknowledged ReportStatus = "acknowledged"
	ReportResolved     ReportStatus = "resolved"
)

// ReportInput is what a user fills in when reporting an emergency.
type ReportInput struct {
	UserID      string       `json:"user_id"`
	UserName    string       `json:"user_name"`
	Type        string       `json:"type"`
	Severity    string       `json:"severity"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// EmergencyReport is a user-submitted emergency awaiting acknowledgement.
type EmergencyReport struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id,omitempty"`
	UserName    string       `json:"user_name,omitempty"`
	Type        string       `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Status      ReportStatus `json:"status"`
}

// NewReport validates in and stamps a new pending report.
// Type, severity, description and location are required.
func NewReport(in ReportInput) (EmergencyReport, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"type", in.Type},
		{"severity", in.Severity},
		{"description", in.Description},
		{"location", in.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return EmergencyReport{}, fmt.Errorf("%w: missing %s", ErrInvalidReport, strings.Join(missing, ", "))
	}

	sev, err := ParseSeverity(strings.ToLower(strings.TrimSpace(in.Severity)))
	if err != nil {
		return EmergencyReport{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	return EmergencyReport{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		UserName:    in.UserName,
		Type:        strings.TrimSpace(in.Type),
		Severity:    sev,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Coordinates: in.Coordinates,
		SubmittedAt: clock.Now().UTC(),
		Status:      ReportPending,
	}, nil
}
