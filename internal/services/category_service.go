package services

import (
	"errors"
	"strings"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type CategoryService struct {
	Repo  *repositories.CategoryRepository
	Leads *repositories.LeadRepository
}

func NewCategoryService(repo *repositories.CategoryRepository, leads *repositories.LeadRepository) *CategoryService {
	return &CategoryService{Repo: repo, Leads: leads}
}

func (s *CategoryService) Create(cat *models.Category) error {
	if strings.TrimSpace(cat.Name) == "" {
		return errors.New("category name is required")
	}
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now()
	}
	return s.Repo.Create(cat)
}

func (s *CategoryService) Update(cat *models.Category) error {
	return s.Repo.Update(cat)
}

func (s *CategoryService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func (s *CategoryService) GetByID(id int) (*models.Category, error) {
	cat, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	counts, err := s.Leads.CountByCategory()
	if err != nil {
		return nil, err
	}
	cat.LeadCount = counts[cat.ID]
	return cat, nil
}

// List fills in the computed per-category lead counts.
func (s *CategoryService) List() ([]*models.Category, error) {
	cats, err := s.Repo.List()
	if err != nil {
		return nil, err
	}
	counts, err := s.Leads.CountByCategory()
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		c.LeadCount = counts[c.ID]
	}
	return cats, nil
}
