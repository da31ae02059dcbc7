package store

import (
	"sync"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
)

// ReportBook keeps submitted emergency reports in submission order.
type ReportBook struct {
	mu      sync.RWMutex
	reports []domain.EmergencyReport
}

// NewReportBook creates an empty report book.
func NewReportBook() *ReportBook {
	return &ReportBook{}
}

// Submit validates the input, records the resulting report, and returns it.
func (b *ReportBook) Submit(in domain.ReportInput) (domain.EmergencyReport, error) {
	report, err := domain.NewReport(in)
	if err != nil {
		return domain.EmergencyReport{}, err
	}

	b.mu.Lock()
	b.reports = append(b.reports, report)
	b.mu.Unlock()
	return report, nil
}

// List returns a copy of all reports, oldest first.
func (b *ReportBook) List() []domain.EmergencyReport {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.EmergencyReport, len(b.reports))
	copy(out, b.reports)
	return out
}
