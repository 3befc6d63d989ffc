package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"salescrm/internal/authz"
	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type UserService interface {
	CreateUserWithPassword(user *models.User, plainPassword string) error
	GetUserByID(id int) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id int) error
	ListUsers(limit, offset int) ([]*models.User, error)
	ListRepresentatives() ([]*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserCount() (int, error)
	GetUserCountByRole(roleID int) (int, error)
	AddPoints(userID, points int) error
	PointHistory(userID int, from time.Time) ([]models.PointSnapshot, error)
}

// PointHistoryLog is the append/read slice of the point store this service
// needs. *repositories.PointHistoryRepository implements it.
type PointHistoryLog interface {
	Append(userID int, date time.Time, points int) error
	ListSince(userID int, from time.Time) ([]models.PointSnapshot, error)
}

type userService struct {
	repo         repositories.UserRepository
	points       PointHistoryLog
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, points PointHistoryLog, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		points:       points,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) CreateUserWithPassword(user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("password is required")
	}

	hashedPassword, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword

	if err := s.repo.Create(user); err != nil {
		return err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// warn but do not fail creation
			log.Printf("CreateUserWithPassword: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) UpdateUser(user *models.User) error {
	return s.repo.Update(user)
}

func (s *userService) DeleteUser(id int) error {
	return s.repo.Delete(id)
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *userService) ListRepresentatives() ([]*models.User, error) {
	return s.repo.ListByRole(authz.RoleSales)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) GetUserCount() (int, error) {
	return s.repo.GetCount()
}

func (s *userService) GetUserCountByRole(roleID int) (int, error) {
	return s.repo.GetCountByRole(roleID)
}

// AddPoints appends a dated snapshot to the representative's history. The
// history is append-only; existing rows are never edited.
func (s *userService) AddPoints(userID, points int) error {
	user, err := s.repo.GetByID(userID)
	if err != nil || user == nil {
		return ErrUnknownRepresentative
	}
	if user.RoleID != authz.RoleSales {
		return ErrNotSalesRole
	}
	return s.points.Append(userID, time.Now(), points)
}

// PointHistory returns the representative's dated snapshots from the given
// moment onward, oldest first.
func (s *userService) PointHistory(userID int, from time.Time) ([]models.PointSnapshot, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil || user == nil {
		return nil, ErrUnknownRepresentative
	}
	if user.RoleID != authz.RoleSales {
		return nil, ErrNotSalesRole
	}
	return s.points.ListSince(userID, from)
}
