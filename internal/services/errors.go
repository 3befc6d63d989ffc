package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory       = errors.New("unknown category")
	ErrUnknownRepresentative = errors.New("unknown representative")
	ErrNotSalesRole          = errors.New("user is not a sales representative")
	ErrInvalidCount          = errors.New("count must be at least 1")
	ErrInvalidStatus         = errors.New("unknown lead status")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrDuplicatePhone        = errors.New("phone already exists")
)

// InsufficientLeadsError reports the true pool size so the caller can
// resubmit with a corrected count.
type InsufficientLeadsError struct {
	Available int
}

func (e *InsufficientLeadsError) Error() string {
	return fmt.Sprintf("not enough unassigned leads: %d available", e.Available)
}
