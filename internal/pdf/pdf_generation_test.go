package pdf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/services"
)

func TestGenerateLeaderboardWritesPDF(t *testing.T) {
	gen := NewReportGenerator(t.TempDir())
	rows := []services.RepresentativeStats{
		{ID: 1, Name: "Asha", Score: 120, Rank: 1, TotalLeads: 10, Completed: 5, Rate: 0.5, Trend: "up", TrendValue: "+20%"},
		{ID: 2, Name: "Ravi", Score: 90, Rank: 2, TotalLeads: 8, Completed: 2, Rate: 0.25, Trend: "stable", TrendValue: "0%"},
	}
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	path, err := gen.GenerateLeaderboard("month", rows, at)
	require.NoError(t, err)
	assert.Equal(t, "leaderboard_month_20260304.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateCategoryReportWritesPDF(t *testing.T) {
	gen := NewReportGenerator(t.TempDir())
	rows := []services.CategoryStats{
		{Name: "Enterprise", TotalLeads: 4, Completed: 1, Rate: 0.25},
		{Name: "Retail", TotalLeads: 0, Completed: 0, Rate: 0},
	}
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	path, err := gen.GenerateCategoryReport(rows, at)
	require.NoError(t, err)
	assert.Equal(t, "categories_20260304.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
