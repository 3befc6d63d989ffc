package services

import (
	"fmt"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/phone"
	"salescrm/internal/repositories"
)

type LeadService struct {
	Repo *repositories.LeadRepository
	Cats *repositories.CategoryRepository
	Norm phone.Normalizer
}

func NewLeadService(leadRepo *repositories.LeadRepository, catRepo *repositories.CategoryRepository, norm phone.Normalizer) *LeadService {
	return &LeadService{Repo: leadRepo, Cats: catRepo, Norm: norm}
}

// Create stores one manually entered lead. The phone is canonicalized here
// so single-entry and bulk leads share one key space.
func (s *LeadService) Create(lead *models.Lead) error {
	key, err := s.Norm.Normalize(lead.Phone)
	if err != nil {
		return err
	}
	lead.Phone = key

	ok, err := s.Cats.Exists(lead.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownCategory
	}

	existing, err := s.Repo.FindExistingPhones([]string{key})
	if err != nil {
		return err
	}
	if existing[key] {
		return ErrDuplicatePhone
	}

	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	} else if !lead.Status.Valid() {
		return ErrInvalidStatus
	}
	if lead.Priority == "" {
		lead.Priority = models.PriorityMedium
	}
	if lead.Source == "" {
		lead.Source = models.SourceManual
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	return s.Repo.Create(lead)
}

func (s *LeadService) Update(lead *models.Lead) error {
	if !lead.Status.Valid() {
		return ErrInvalidStatus
	}
	if lead.Priority != "" && !lead.Priority.Valid() {
		return ErrInvalidStatus
	}
	return s.Repo.Update(lead)
}

func (s *LeadService) GetByID(id int) (*models.Lead, error) {
	return s.Repo.GetByID(id)
}

// Delete is explicit and terminal; leads are never merged.
func (s *LeadService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func (s *LeadService) Filter(status string, categoryID, assignedTo int, sortBy, order string, limit, offset int) ([]*models.Lead, error) {
	return s.Repo.FilterLeads(status, categoryID, assignedTo, sortBy, order, limit, offset)
}

func (s *LeadService) ListMy(assigneeID, limit, offset int) ([]*models.Lead, error) {
	return s.Repo.ListByAssignee(assigneeID, limit, offset)
}

// UpdateStatus translates the API key through the status table and checks
// the transition; raw strings never reach the store.
func (s *LeadService) UpdateStatus(id int, apiKey string) error {
	to, ok := models.ParseLeadStatus(apiKey)
	if !ok {
		return ErrInvalidStatus
	}
	lead, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if lead == nil {
		return fmt.Errorf("lead %d not found", id)
	}
	if !canTransition(lead.Status, to) {
		return ErrInvalidTransition
	}
	return s.Repo.UpdateStatus(id, to)
}
