package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/authz"
	"salescrm/internal/models"
)

type fakeClaimStore struct {
	pool    []int // unassigned lead ids, oldest first
	claimed map[int][]int
}

func (f *fakeClaimStore) CountUnassigned(categoryID int) (int, error) {
	return len(f.pool), nil
}

// all-or-nothing like the real store: a short pool claims nothing
func (f *fakeClaimStore) ClaimUnassigned(assigneeID, count, categoryID int) ([]int, int, error) {
	if len(f.pool) < count {
		return nil, len(f.pool), nil
	}
	claimed := f.pool[:count]
	f.pool = f.pool[count:]
	if f.claimed == nil {
		f.claimed = map[int][]int{}
	}
	f.claimed[assigneeID] = append(f.claimed[assigneeID], claimed...)
	return claimed, len(f.pool), nil
}

type fakeRepLookup struct{ users map[int]*models.User }

func (f *fakeRepLookup) GetByID(id int) (*models.User, error) { return f.users[id], nil }

type captureNotifier struct {
	user  *models.User
	count int
}

func (n *captureNotifier) NotifyLeadsAssigned(user *models.User, count int, categoryName string) {
	n.user = user
	n.count = count
}

func salesRep(id int) *models.User {
	return &models.User{ID: id, Name: "Rep", RoleID: authz.RoleSales}
}

func TestDistributeAssignsOldestFirst(t *testing.T) {
	store := &fakeClaimStore{pool: []int{11, 12, 13, 14, 15}}
	reps := &fakeRepLookup{users: map[int]*models.User{7: salesRep(7)}}
	notifier := &captureNotifier{}
	svc := NewDistributionService(store, reps, nil, notifier)

	n, err := svc.Distribute(7, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{11, 12, 13}, store.claimed[7])
	assert.Equal(t, []int{14, 15}, store.pool)

	require.NotNil(t, notifier.user)
	assert.Equal(t, 7, notifier.user.ID)
	assert.Equal(t, 3, notifier.count)
}

func TestDistributeShortPoolAssignsNothing(t *testing.T) {
	store := &fakeClaimStore{pool: []int{11, 12}}
	reps := &fakeRepLookup{users: map[int]*models.User{7: salesRep(7)}}
	svc := NewDistributionService(store, reps, nil, nil)

	_, err := svc.Distribute(7, 5, 0)

	var short *InsufficientLeadsError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Available)

	// nothing was claimed
	assert.Equal(t, []int{11, 12}, store.pool)
	assert.Empty(t, store.claimed)
}

func TestDistributeConservesLeads(t *testing.T) {
	store := &fakeClaimStore{pool: []int{1, 2, 3, 4, 5, 6}}
	reps := &fakeRepLookup{users: map[int]*models.User{
		1: salesRep(1),
		2: salesRep(2),
	}}
	svc := NewDistributionService(store, reps, nil, nil)

	_, err := svc.Distribute(1, 2, 0)
	require.NoError(t, err)
	_, err = svc.Distribute(2, 3, 0)
	require.NoError(t, err)

	total := len(store.pool) + len(store.claimed[1]) + len(store.claimed[2])
	assert.Equal(t, 6, total)

	// no lead assigned twice
	seen := map[int]bool{}
	for _, ids := range store.claimed {
		for _, id := range ids {
			assert.False(t, seen[id], "lead %d assigned twice", id)
			seen[id] = true
		}
	}
}

func TestDistributeInvalidCount(t *testing.T) {
	svc := NewDistributionService(&fakeClaimStore{}, &fakeRepLookup{}, nil, nil)

	_, err := svc.Distribute(7, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = svc.Distribute(7, -3, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestDistributeUnknownOrWrongRoleTarget(t *testing.T) {
	reps := &fakeRepLookup{users: map[int]*models.User{
		9: {ID: 9, RoleID: authz.RoleManagement},
	}}
	svc := NewDistributionService(&fakeClaimStore{pool: []int{1}}, reps, nil, nil)

	_, err := svc.Distribute(404, 1, 0)
	assert.ErrorIs(t, err, ErrUnknownRepresentative)

	_, err = svc.Distribute(9, 1, 0)
	assert.ErrorIs(t, err, ErrNotSalesRole)
}
