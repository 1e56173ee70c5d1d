package export

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

func TestExport_Records(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	projects := []*project.Project{
		{
			ID:        "proj-1",
			TenantID:  "tenant-1",
			Name:      "Ikoyi Office Block",
			Client:    "Delta Holdings",
			Status:    project.StatusActive,
			StartDate: &start,
			CreatedAt: start,
		},
	}

	records, err := Records(projects)
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, []string{"id", "name", "client", "site_address", "status", "start_date", "end_date", "created_at"}, header)

	row := records[1]
	assert.Equal(t, "proj-1", row[0])
	assert.Equal(t, "Ikoyi Office Block", row[1])
	assert.Equal(t, "2026-03-01T00:00:00Z", row[5], "dates render as RFC3339")
	assert.Equal(t, "", row[6], "nil pointer renders empty")

	// tenant_id is tagged csv:"-" and must never leak into an export.
	for _, col := range header {
		assert.NotEqual(t, "tenant_id", col)
	}
}

func TestExport_Records_EmptySlice(t *testing.T) {
	records, err := Records([]*finance.Transaction{})
	require.NoError(t, err)
	require.Len(t, records, 1, "empty data still yields the header row")
	assert.Contains(t, records[0], "amount_minor")
}

func TestExport_Records_RejectsNonSlice(t *testing.T) {
	_, err := Records("not a slice")
	assert.Error(t, err)

	_, err = Records([]string{"not", "structs"})
	assert.Error(t, err)
}

func TestExport_WriteCSVResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	data := []*finance.FundAllocation{
		{
			ID:          "alloc-1",
			ProjectID:   "proj-1",
			Category:    "labour",
			AmountMinor: 150000,
			Currency:    "NGN",
			EffectiveAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	require.NoError(t, WriteCSVResponse(rec, "allocations.csv", data))

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="allocations.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,project_id,category,amount_minor,currency,effective_at", lines[0])
	assert.Equal(t, "alloc-1,proj-1,labour,150000,NGN,2026-04-02T09:30:00Z", lines[1])
}
