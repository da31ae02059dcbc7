package domain

import (
	"fmt"
	"sort"
	"time"
)

// Summary holds dataset-wide totals for the dashboard headline figures.
type Summary struct {
	TotalIncidents       int     `json:"total_incidents"`
	TotalAffected        int     `json:"total_affected"`
	TotalDamage          float64 `json:"total_damage"`
	AverageResponseHours float64 `json:"average_response_hours"`
}

// Summarize totals all records. The average response is 0 for an empty input.
func Summarize(records []IncidentRecord) Summary {
	var s Summary
	var response float64
	for _, r := range records {
		s.TotalAffected += r.AffectedCount
		s.TotalDamage += r.DamageEstimate
		response += r.ResponseHours
	}
	s.TotalIncidents = len(records)
	s.AverageResponseHours = RoundHalfUp(response / float64(max(len(records), 1)))
	return s
}

// CategoryCount is the number of incidents sharing a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryBreakdown counts incidents per category in first-occurrence order.
func CategoryBreakdown(records []IncidentRecord) []CategoryCount {
	out := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			out = append(out, CategoryCount{Category: r.Category})
			i = len(out) - 1
			index[r.Category] = i
		}
		out[i].Count++
	}
	return out
}

// SeverityCount is the number of incidents at one severity, with the colour
// the dashboard renders it in.
type SeverityCount struct {
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
	Color    string   `json:"color"`
}

// Color returns the display colour for the severity.
func (s Severity) Color() string {
	switch s {
	case SeverityCritical:
		return "#dc2626"
	case SeverityHigh:
		return "#ea580c"
	case SeverityMedium:
		return "#d97706"
	default:
		return "#65a30d"
	}
}

// SeverityBreakdown counts incidents per severity in first-occurrence order.
func SeverityBreakdown(records []IncidentRecord) []SeverityCount {
	out := make([]SeverityCount, 0)
	index := make(map[Severity]int)
	for _, r := range records {
		i, ok := index[r.Severity]
		if !ok {
			out = append(out, SeverityCount{Severity: r.Severity, Color: r.Severity.Color()})
			i = len(out) - 1
			index[r.Severity] = i
		}
		out[i].Count++
	}
	return out
}

// MonthlyTrend is the incident activity for one calendar month.
type MonthlyTrend struct {
	Month     string `json:"month"` // e.g. "Dec 24"
	Incidents int    `json:"incidents"`
	Affected  int    `json:"affected"`

	start time.Time
}

// MonthlyTrends groups records by the calendar month they occurred in and
// returns the months in chronological order.
func MonthlyTrends(records []IncidentRecord) []MonthlyTrend {
	out := make([]MonthlyTrend, 0)
	index := make(map[time.Time]int)
	for _, r := range records {
		start := time.Date(r.OccurredAt.Year(), r.OccurredAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		i, ok := index[start]
		if !ok {
			out = append(out, MonthlyTrend{Month: start.Format("Jan 06"), start: start})
			i = len(out) - 1
			index[start] = i
		}
		out[i].Incidents++
		out[i].Affected += r.AffectedCount
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].start.Before(out[b].start)
	})
	return out
}

// TopRegions returns a copy of at most n of the leading impacts. impacts must
// already be ordered, as Aggregate returns them.
func TopRegions(impacts []RegionImpact, n int) []RegionImpact {
	n = min(max(n, 0), len(impacts))
	out := make([]RegionImpact, n)
	copy(out, impacts[:n])
	return out
}

// TimeRange is a dashboard look-back window.
type TimeRange string

const (
	Range7Days   TimeRange = "7d"
	Range30Days  TimeRange = "30d"
	Range90Days  TimeRange = "90d"
	Range1Year   TimeRange = "1y"
	RangeAllTime TimeRange = ""
)

// ParseTimeRange validates a look-back window. The empty string means no filter.
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(s); r {
	case Range7Days, Range30Days, Range90Days, Range1Year, RangeAllTime:
		return r, nil
	default:
		return "", fmt.Errorf("unknown time range %q", s)
	}
}

// Since returns the earliest date included in the window ending at now.
// The zero Date is returned for RangeAllTime.
func (r TimeRange) Since(now time.Time) Date {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch r {
	case Range7Days:
		return Date{today.AddDate(0, 0, -7)}
	case Range30Days:
		return Date{today.AddDate(0, 0, -30)}
	case Range90Days:
		return Date{today.AddDate(0, 0, -90)}
	case Range1Year:
		return Date{today.AddDate(-1, 0, 0)}
	default:
		return Date{}
	}
}

// FilterByRange keeps the records that occurred within r of the current time,
// preserving their order.
func FilterByRange(records []IncidentRecord, r TimeRange) []IncidentRecord {
	out := make([]IncidentRecord, 0, len(records))
	if r == RangeAllTime {
		return append(out, records...)
	}
	since := r.Since(clock.Now())
	for _, rec := range records {
		if !rec.OccurredAt.Before(since.Time) {
			out = append(out, rec)
		}
	}
	return out
}
