package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/authz"
	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

// fakePointUserRepo overrides only the lookup the point paths use.
type fakePointUserRepo struct {
	repositories.UserRepository
	users map[int]*models.User
}

func (f *fakePointUserRepo) GetByID(id int) (*models.User, error) { return f.users[id], nil }

type fakePointLog struct {
	history map[int][]models.PointSnapshot
}

func (f *fakePointLog) Append(userID int, date time.Time, points int) error {
	if f.history == nil {
		f.history = map[int][]models.PointSnapshot{}
	}
	f.history[userID] = append(f.history[userID], models.PointSnapshot{
		UserID: userID,
		Date:   date,
		Points: points,
	})
	return nil
}

func (f *fakePointLog) ListSince(userID int, from time.Time) ([]models.PointSnapshot, error) {
	var out []models.PointSnapshot
	for _, s := range f.history[userID] {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestAddPointsAppendsForSalesRep(t *testing.T) {
	repo := &fakePointUserRepo{users: map[int]*models.User{
		7: {ID: 7, Name: "Rep", RoleID: authz.RoleSales},
	}}
	log := &fakePointLog{}
	svc := NewUserService(repo, log, nil, nil)

	require.NoError(t, svc.AddPoints(7, 40))
	require.NoError(t, svc.AddPoints(7, 55))

	require.Len(t, log.history[7], 2)
	assert.Equal(t, 40, log.history[7][0].Points)
	assert.Equal(t, 55, log.history[7][1].Points)
}

func TestAddPointsRejectsNonRepresentatives(t *testing.T) {
	repo := &fakePointUserRepo{users: map[int]*models.User{
		9: {ID: 9, RoleID: authz.RoleManagement},
	}}
	svc := NewUserService(repo, &fakePointLog{}, nil, nil)

	assert.ErrorIs(t, svc.AddPoints(404, 10), ErrUnknownRepresentative)
	assert.ErrorIs(t, svc.AddPoints(9, 10), ErrNotSalesRole)
}

func TestPointHistoryReturnsWindowedSnapshots(t *testing.T) {
	now := time.Now()
	repo := &fakePointUserRepo{users: map[int]*models.User{
		7: {ID: 7, Name: "Rep", RoleID: authz.RoleSales},
	}}
	log := &fakePointLog{history: map[int][]models.PointSnapshot{
		7: {
			{UserID: 7, Date: now.AddDate(0, -2, 0), Points: 10},
			{UserID: 7, Date: now.AddDate(0, 0, -10), Points: 20},
			{UserID: 7, Date: now.AddDate(0, 0, -1), Points: 30},
		},
	}}
	svc := NewUserService(repo, log, nil, nil)

	history, err := svc.PointHistory(7, PeriodMonth.Cutoff(now))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 20, history[0].Points)
	assert.Equal(t, 30, history[1].Points)
}

func TestPointHistoryRejectsNonRepresentatives(t *testing.T) {
	repo := &fakePointUserRepo{users: map[int]*models.User{
		9: {ID: 9, RoleID: authz.RoleAudit},
	}}
	svc := NewUserService(repo, &fakePointLog{}, nil, nil)

	_, err := svc.PointHistory(404, time.Time{})
	assert.ErrorIs(t, err, ErrUnknownRepresentative)

	_, err = svc.PointHistory(9, time.Time{})
	assert.ErrorIs(t, err, ErrNotSalesRole)
}
