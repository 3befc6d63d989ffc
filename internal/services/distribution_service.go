package services

import (
	"fmt"
	"log"

	"salescrm/internal/authz"
	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

// LeadClaimStore is the slice of the lead store distribution touches.
// *repositories.LeadRepository implements it.
type LeadClaimStore interface {
	CountUnassigned(categoryID int) (int, error)
	ClaimUnassigned(assigneeID, count, categoryID int) (claimed []int, available int, err error)
}

// RepLookup resolves distribution targets.
type RepLookup interface {
	GetByID(id int) (*models.User, error)
}

// Notifier tells a representative that leads landed on their desk.
// Best-effort: failures are logged, never propagated.
type Notifier interface {
	NotifyLeadsAssigned(user *models.User, count int, categoryName string)
}

type DistributionService struct {
	leads    LeadClaimStore
	users    RepLookup
	cats     *repositories.CategoryRepository
	notifier Notifier
}

func NewDistributionService(leads LeadClaimStore, users RepLookup, cats *repositories.CategoryRepository, notifier Notifier) *DistributionService {
	return &DistributionService{leads: leads, users: users, cats: cats, notifier: notifier}
}

// Distribute hands count unassigned leads (optionally limited to one
// category, categoryID 0 meaning "all") to the given representative,
// oldest first, all-or-nothing. On a short pool it fails with
// InsufficientLeadsError carrying the real pool size. Only assignment
// changes; lead status is untouched.
func (s *DistributionService) Distribute(representativeID, count, categoryID int) (int, error) {
	if count < 1 {
		return 0, ErrInvalidCount
	}

	rep, err := s.users.GetByID(representativeID)
	if err != nil || rep == nil {
		return 0, ErrUnknownRepresentative
	}
	if rep.RoleID != authz.RoleSales {
		return 0, ErrNotSalesRole
	}

	var categoryName string
	if categoryID > 0 {
		cat, err := s.cats.GetByID(categoryID)
		if err != nil || cat == nil {
			return 0, ErrUnknownCategory
		}
		categoryName = cat.Name
	}

	claimed, available, err := s.leads.ClaimUnassigned(representativeID, count, categoryID)
	if err != nil {
		return 0, fmt.Errorf("claim leads: %w", err)
	}
	if len(claimed) < count {
		return 0, &InsufficientLeadsError{Available: available}
	}

	log.Printf("[distribute] rep=%d count=%d category=%d", representativeID, count, categoryID)

	if s.notifier != nil {
		s.notifier.NotifyLeadsAssigned(rep, len(claimed), categoryName)
	}
	return len(claimed), nil
}

// Available reports the current unassigned pool size for a category
// (0 = all), for the distribution form.
func (s *DistributionService) Available(categoryID int) (int, error) {
	return s.leads.CountUnassigned(categoryID)
}
