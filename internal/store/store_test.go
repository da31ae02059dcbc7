package store

import (
	"sync"
	"testing"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []domain.IncidentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestIncidentLog_AppendDeduplicates(t *testing.T) {
	l := NewIncidentLog(domain.IncidentRecord{ID: "a", Region: "first"})

	added := l.Append(
		domain.IncidentRecord{ID: "b"},
		domain.IncidentRecord{ID: "a", Region: "second"},
		domain.IncidentRecord{ID: "b"},
		domain.IncidentRecord{ID: "c"},
	)

	assert.Equal(t, 2, added)
	assert.Equal(t, 3, l.Len())
	snap := l.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap))
	assert.Equal(t, "first", snap[0].Region)
}

func TestIncidentLog_MergeDoesNotMutate(t *testing.T) {
	l := NewIncidentLog(domain.SampleIncidents()[:2]...)

	merged := l.Merge([]domain.IncidentRecord{
		{ID: "1"},
		{ID: "x"},
		{ID: "x"},
		{ID: "y"},
	})

	assert.Equal(t, []string{"1", "2", "x", "y"}, ids(merged))
	assert.Equal(t, 2, l.Len())
}

func TestIncidentLog_SnapshotIsCopy(t *testing.T) {
	l := NewIncidentLog(domain.IncidentRecord{ID: "a"})
	snap := l.Snapshot()
	snap[0].ID = "changed"

	assert.Equal(t, "a", l.Snapshot()[0].ID)
}

func TestIncidentLog_ConcurrentAppend(t *testing.T) {
	l := NewIncidentLog()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range domain.SampleIncidents() {
				l.Append(r)
				_ = l.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(domain.SampleIncidents()), l.Len())
}

func TestReportBook(t *testing.T) {
	b := NewReportBook()

	r, err := b.Submit(domain.ReportInput{
		Type: "Hail", Severity: "medium", Description: "hail on orchards", Location: "Ceres",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportPending, r.Status)

	_, err = b.Submit(domain.ReportInput{Type: "Hail"})
	require.ErrorIs(t, err, domain.ErrInvalidReport)

	list := b.List()
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
}
