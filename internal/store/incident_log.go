// Package store holds the service's in-memory state: the incident log the
// aggregator reads from and the book of submitted emergency reports. Nothing
// here outlives the process.
package store

import (
	"sync"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
)

// IncidentLog is an ordered, ID-deduplicated sequence of incident records.
// The first record seen for an ID wins; later duplicates are dropped.
type IncidentLog struct {
	mu      sync.RWMutex
	records []domain.IncidentRecord
	ids     map[string]struct{}
}

// NewIncidentLog creates a log seeded with the given records.
func NewIncidentLog(seed ...domain.IncidentRecord) *IncidentLog {
	l := &IncidentLog{ids: make(map[string]struct{})}
	l.Append(seed...)
	return l
}

// Append adds records not already present and returns how many were added.
func (l *IncidentLog) Append(records ...domain.IncidentRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, r := range records {
		if _, dup := l.ids[r.ID]; dup {
			continue
		}
		l.ids[r.ID] = struct{}{}
		l.records = append(l.records, r)
		added++
	}
	return added
}

// Merge returns the log's records followed by the new ones from records,
// applying the same deduplication as Append, without changing the log.
func (l *IncidentLog) Merge(records []domain.IncidentRecord) []domain.IncidentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.IncidentRecord, len(l.records), len(l.records)+len(records))
	copy(out, l.records)
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := l.ids[r.ID]; dup {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Snapshot returns a copy of all records in arrival order.
func (l *IncidentLog) Snapshot() []domain.IncidentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.IncidentRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of records held.
func (l *IncidentLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
