package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLegislation(t *testing.T) {
	records, err := ReadLegislation(strings.NewReader(`[
		{"legislationId":"LEG-1","title":"A","description":"d","startDate":"2025-01-01","endDate":"2025-12-31"},
		{"legislationId":"LEG-2","title":"B"}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "LEG-1", records[0].LegislationID)
	assert.Equal(t, "2025-12-31", records[0].EndDate)

	_, err = ReadLegislation(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestImporter_Import(t *testing.T) {
	repo := &fakeLegislationRepo{}
	legislation := newTestLegislationService(repo, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	_, err := legislation.Create(context.Background(), validLegislation("LEG-1", "2025-12-31"))
	require.NoError(t, err)

	imp := NewImporter(legislation, logging.NewNop())
	stats, err := imp.Import(context.Background(), []CreateLegislationInput{
		validLegislation("LEG-1", "2025-12-31"),
		validLegislation("LEG-2", "2025-12-31"),
		{LegislationID: "LEG-3"},
		validLegislation("LEG-4", "2024-01-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, &ImportStats{Total: 4, Imported: 2, Skipped: 1, Failed: 1}, stats)
	assert.Len(t, repo.items, 3)

	imp.PrintSummary(stats)
}

func TestImporter_Import_Cancelled(t *testing.T) {
	legislation := newTestLegislationService(&fakeLegislationRepo{}, time.Now())
	imp := NewImporter(legislation, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := imp.Import(ctx, []CreateLegislationInput{validLegislation("LEG-1", "2099-01-01")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Imported)
}
