package repository

import (
	"context"
	"errors"

	"task-api/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

type UserStore interface {
	// Create persists the user and fills in the generated ID.
	//
	// It returns ErrDuplicateEmail if a user with the
	// same email already exists.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type TaskStore interface {
	// Create persists the task and fills in the generated ID.
	//
	// It returns ErrUserNotFound if the owner
	// does not resolve to an existing user.
	Create(ctx context.Context, task *models.Task) error

	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByOwner(ctx context.Context, opts ListOptions) (*TaskPage, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
}

type ListOptions struct {
	OwnerID int64
	// Status restricts the listing to a single status when non-nil.
	Status *models.TaskStatus
	// Page is zero-based.
	Page int
	Size int
	// SortBy is an API-level field name (e.g. "createdAt");
	// unknown names fall back to the creation timestamp.
	SortBy     string
	Descending bool
}

type TaskPage struct {
	Tasks         []*models.Task
	TotalElements int64
	Page          int
	Size          int
}
