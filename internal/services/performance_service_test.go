package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/authz"
	"salescrm/internal/models"
)

type fakeStatsStore struct {
	totals      map[int]int
	converted   map[int]int
	byCategory  map[int]int
	catDone     map[int]int
}

func (f *fakeStatsStore) CountByAssignee() (map[int]int, error) { return f.totals, nil }
func (f *fakeStatsStore) CountByAssigneeWithStatuses(statuses []models.LeadStatus) (map[int]int, error) {
	return f.converted, nil
}
func (f *fakeStatsStore) CountByCategoryAssigned() (map[int]int, error) { return f.byCategory, nil }
func (f *fakeStatsStore) CountByCategoryWithStatuses(statuses []models.LeadStatus) (map[int]int, error) {
	return f.catDone, nil
}

type fakePointStore struct {
	totals  map[int]int
	history map[int][]models.PointSnapshot
}

func (f *fakePointStore) TotalsByUser() (map[int]int, error) { return f.totals, nil }
func (f *fakePointStore) ListAllSince(from time.Time) (map[int][]models.PointSnapshot, error) {
	return f.history, nil
}

type fakeRepLister struct{ reps []*models.User }

func (f *fakeRepLister) ListByRole(roleID int) ([]*models.User, error) { return f.reps, nil }

type fakeCatLister struct{ cats []*models.Category }

func (f *fakeCatLister) List() ([]*models.Category, error) { return f.cats, nil }

func snapshots(points ...int) []models.PointSnapshot {
	out := make([]models.PointSnapshot, 0, len(points))
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range points {
		out = append(out, models.PointSnapshot{Date: day.AddDate(0, 0, i), Points: p})
	}
	return out
}

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name   string
		window []models.PointSnapshot
		trend  string
		value  string
	}{
		{"no points", nil, TrendStable, "0%"},
		{"single point", snapshots(50), TrendStable, "0%"},
		{"up", snapshots(100, 120, 150), TrendUp, "+50%"},
		{"down", snapshots(100, 90, 80), TrendDown, "-20%"},
		{"flat endpoints", snapshots(100, 200, 100), TrendStable, "0%"},
		{"from zero", snapshots(0, 10), TrendUp, "+100%"},
		{"rounded", snapshots(3, 4), TrendUp, "+33%"},
		{"tiny rise keeps sign", snapshots(1000, 1001), TrendUp, "+0%"},
		{"tiny drop keeps sign", snapshots(1001, 1000), TrendDown, "-0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, value := ComputeTrend(tt.window)
			assert.Equal(t, tt.trend, trend)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestLeaderboardRanking(t *testing.T) {
	reps := &fakeRepLister{reps: []*models.User{
		{ID: 1, Name: "Asha", RoleID: authz.RoleSales},
		{ID: 2, Name: "Ravi", RoleID: authz.RoleSales},
		{ID: 3, Name: "Mina", RoleID: authz.RoleSales},
	}}
	points := &fakePointStore{
		totals: map[int]int{1: 50, 2: 120, 3: 50},
		history: map[int][]models.PointSnapshot{
			2: snapshots(100, 120),
		},
	}
	leads := &fakeStatsStore{
		totals:    map[int]int{1: 10, 2: 8},
		converted: map[int]int{1: 5, 2: 2},
	}

	svc := NewPerformanceService(leads, points, reps, nil, nil)

	rows, err := svc.Leaderboard(PeriodMonth)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].ID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, TrendUp, rows[0].Trend)
	assert.Equal(t, "+20%", rows[0].TrendValue)

	// tied scores keep listing order
	assert.Equal(t, 1, rows[1].ID)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 3, rows[2].ID)
	assert.Equal(t, 3, rows[2].Rank)

	assert.InDelta(t, 0.5, rows[1].Rate, 1e-9)
	assert.Equal(t, TrendStable, rows[1].Trend)

	// rep with no assigned leads divides by zero nowhere
	assert.Equal(t, 0, rows[2].TotalLeads)
	assert.InDelta(t, 0.0, rows[2].Rate, 1e-9)
}

func TestCategoryPerformance(t *testing.T) {
	cats := &fakeCatLister{cats: []*models.Category{
		{ID: 1, Name: "Enterprise"},
		{ID: 2, Name: "Retail"},
	}}
	leads := &fakeStatsStore{
		byCategory: map[int]int{1: 4, 2: 0},
		catDone:    map[int]int{1: 1},
	}

	svc := NewPerformanceService(leads, &fakePointStore{}, nil, cats, nil)

	rows, err := svc.CategoryPerformance()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Enterprise", rows[0].Name)
	assert.InDelta(t, 0.25, rows[0].Rate, 1e-9)
	assert.InDelta(t, 0.0, rows[1].Rate, 1e-9)
}

func TestPeriodCutoff(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -7), PeriodWeek.Cutoff(now))
	assert.Equal(t, now.AddDate(0, -1, 0), PeriodMonth.Cutoff(now))
	assert.Equal(t, now.AddDate(0, -3, 0), PeriodQuarter.Cutoff(now))
	assert.Equal(t, now.AddDate(-1, 0, 0), PeriodYear.Cutoff(now))

	_, ok := ParsePeriod("fortnight")
	assert.False(t, ok)
}
