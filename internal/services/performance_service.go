package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"salescrm/internal/authz"
	"salescrm/internal/models"
)

// Period is the leaderboard look-back window.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s), true
	}
	return "", false
}

// Cutoff returns the start of the window ending at now.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodQuarter:
		return now.AddDate(0, -3, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// RepresentativeStats is one leaderboard row.
type RepresentativeStats struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Score       int     `json:"score"`
	Rank        int     `json:"rank"`
	TotalLeads  int     `json:"total_leads"`
	Completed   int     `json:"completed"`
	Rate        float64 `json:"rate"`
	Trend       string  `json:"trend"`
	TrendValue  string  `json:"trend_value"`
	SalesTarget float64 `json:"sales_target"`
	Incentive   float64 `json:"incentive_per_conversion"`
}

// CategoryStats mirrors the leaderboard shape keyed by category, computed
// over assigned leads only (the raw pool is not "performance").
type CategoryStats struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	TotalLeads int     `json:"total_leads"`
	Completed  int     `json:"completed"`
	Rate       float64 `json:"rate"`
}

// LeadStatsStore is the aggregate slice of the lead store.
// *repositories.LeadRepository implements it.
type LeadStatsStore interface {
	CountByAssignee() (map[int]int, error)
	CountByAssigneeWithStatuses(statuses []models.LeadStatus) (map[int]int, error)
	CountByCategoryAssigned() (map[int]int, error)
	CountByCategoryWithStatuses(statuses []models.LeadStatus) (map[int]int, error)
}

// PointHistoryStore is read-only access to representatives' point history.
type PointHistoryStore interface {
	TotalsByUser() (map[int]int, error)
	ListAllSince(from time.Time) (map[int][]models.PointSnapshot, error)
}

type RepLister interface {
	ListByRole(roleID int) ([]*models.User, error)
}

type CategoryLister interface {
	List() ([]*models.Category, error)
}

// PerformanceService recomputes leaderboards and category statistics from a
// snapshot read on every call. Nothing is cached or persisted; ranks exist
// only in the response.
type PerformanceService struct {
	leads  LeadStatsStore
	points PointHistoryStore
	users  RepLister
	cats   CategoryLister

	// closing statuses count a lead as converted; configured, not
	// hard-coded, so new statuses don't silently miscount
	closing []models.LeadStatus

	now func() time.Time
}

func NewPerformanceService(leads LeadStatsStore, points PointHistoryStore, users RepLister, cats CategoryLister, closing []models.LeadStatus) *PerformanceService {
	if len(closing) == 0 {
		closing = []models.LeadStatus{models.LeadStatusConverted, models.LeadStatusAppClient, models.LeadStatusWeb}
	}
	return &PerformanceService{
		leads:   leads,
		points:  points,
		users:   users,
		cats:    cats,
		closing: closing,
		now:     time.Now,
	}
}

// Leaderboard ranks every sales representative by total accumulated points,
// highest first, ties kept in insertion order. Rank is the 1-based position
// after the sort.
func (s *PerformanceService) Leaderboard(period Period) ([]RepresentativeStats, error) {
	reps, err := s.users.ListByRole(authz.RoleSales)
	if err != nil {
		return nil, err
	}

	totals, err := s.leads.CountByAssignee()
	if err != nil {
		return nil, err
	}
	converted, err := s.leads.CountByAssigneeWithStatuses(s.closing)
	if err != nil {
		return nil, err
	}
	scores, err := s.points.TotalsByUser()
	if err != nil {
		return nil, err
	}
	history, err := s.points.ListAllSince(period.Cutoff(s.now()))
	if err != nil {
		return nil, err
	}

	stats := make([]RepresentativeStats, 0, len(reps))
	for _, rep := range reps {
		total := totals[rep.ID]
		done := converted[rep.ID]
		trend, trendValue := ComputeTrend(history[rep.ID])
		stats = append(stats, RepresentativeStats{
			ID:          rep.ID,
			Name:        rep.Name,
			Score:       scores[rep.ID],
			TotalLeads:  total,
			Completed:   done,
			Rate:        completionRate(done, total),
			Trend:       trend,
			TrendValue:  trendValue,
			SalesTarget: rep.SalesTarget,
			Incentive:   rep.IncentivePerConversion,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Score > stats[j].Score })
	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats, nil
}

// CategoryPerformance aggregates the same conversion numbers per category.
func (s *PerformanceService) CategoryPerformance() ([]CategoryStats, error) {
	cats, err := s.cats.List()
	if err != nil {
		return nil, err
	}
	totals, err := s.leads.CountByCategoryAssigned()
	if err != nil {
		return nil, err
	}
	converted, err := s.leads.CountByCategoryWithStatuses(s.closing)
	if err != nil {
		return nil, err
	}

	stats := make([]CategoryStats, 0, len(cats))
	for _, cat := range cats {
		total := totals[cat.ID]
		done := converted[cat.ID]
		stats = append(stats, CategoryStats{
			ID:         cat.ID,
			Name:       cat.Name,
			Color:      cat.Color,
			TotalLeads: total,
			Completed:  done,
			Rate:       completionRate(done, total),
		})
	}
	return stats, nil
}

func completionRate(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// ComputeTrend compares the first and last snapshot in the window. Fewer
// than two points is not an error, it is the defined neutral result. The
// deliberately simple first-vs-last comparison (not a slope fit) must stay
// as-is for output compatibility.
func ComputeTrend(window []models.PointSnapshot) (trend string, value string) {
	if len(window) < 2 {
		return TrendStable, "0%"
	}
	first := window[0].Points
	last := window[len(window)-1].Points

	switch {
	case last > first:
		trend = TrendUp
	case last < first:
		trend = TrendDown
	default:
		return TrendStable, "0%"
	}

	if first == 0 {
		// last != 0 here, the equal case returned above
		if last > 0 {
			return trend, "+100%"
		}
		return trend, "-100%"
	}

	// the sign follows the trend even when the change rounds to zero, so a
	// window like 1000 -> 1001 reads up "+0%" rather than up "0%"
	pct := int(math.Round(float64(last-first) / float64(first) * 100))
	if trend == TrendUp {
		return trend, fmt.Sprintf("+%d%%", pct)
	}
	return trend, fmt.Sprintf("-%d%%", -pct)
}
