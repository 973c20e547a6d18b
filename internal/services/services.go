package services

import (
	"context"
	"errors"
	"time"

	"task-api/internal/models"
	"task-api/internal/repository"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrOwnerNotFound          = errors.New("user not found")
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskAccessDenied       = errors.New("access denied")
	ErrMalformedToken         = errors.New("malformed token")
	ErrUnauthenticated        = errors.New("unauthenticated")
)

type TokenService interface {
	// Issue signs a token for the given subject, expiring
	// at issue time plus the configured lifetime.
	Issue(subject string) (string, error)

	// ExtractSubject returns the subject embedded in the token.
	//
	// It returns ErrMalformedToken if the signature is invalid
	// or the encoding is corrupt. An expired but otherwise
	// well-formed token still yields its subject.
	ExtractSubject(token string) (string, error)

	// ExtractExpiration returns the absolute expiration instant,
	// failing with ErrMalformedToken on corrupt input.
	ExtractExpiration(token string) (time.Time, error)

	// Validate reports whether the token's signature verifies,
	// it is unexpired and its subject equals expectedSubject.
	//
	// Subject mismatch and expiry yield (false, nil); only
	// structural corruption yields ErrMalformedToken.
	Validate(token, expectedSubject string) (bool, error)
}

type AuthService interface {
	// Register hashes the password, persists a new user and
	// issues a token with the user's email as its subject.
	//
	// It returns ErrEmailAlreadyRegistered if the email
	// is already present.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login verifies the credentials and issues a fresh token.
	//
	// It returns ErrInvalidCredentials both when no user matches
	// the email and when the password does not verify; the two
	// cases are indistinguishable to the caller.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Authenticate resolves a bearer token to the user it was
	// issued for. It returns ErrMalformedToken on corrupt input
	// and ErrUnauthenticated on an expired token or an unknown
	// subject.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type TaskService interface {
	// Create persists a task for the given owner, defaulting
	// status to PENDING and priority to MEDIUM when unset.
	//
	// It returns ErrOwnerNotFound if the owner
	// does not resolve to an existing user.
	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// ListByOwner returns a page of tasks owned by ownerID,
	// optionally restricted to a single status.
	ListByOwner(ctx context.Context, params ListTasksParams) (*repository.TaskPage, error)

	// GetByID returns the task, failing with ErrTaskNotFound if
	// no task has that id and ErrTaskAccessDenied if it is owned
	// by someone other than the requester. The existence check
	// always happens before the ownership check.
	GetByID(ctx context.Context, taskID, requesterID int64) (*models.Task, error)

	// Update overwrites title, description and due date, applies
	// status and priority only when supplied, and refreshes the
	// update timestamp. Same existence and ownership checks as
	// GetByID.
	Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// Delete permanently removes the task. Same existence
	// and ownership checks as GetByID.
	Delete(ctx context.Context, taskID, requesterID int64) error
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *models.User
}

type CreateTaskParams struct {
	OwnerID     int64
	Title       string
	Description string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

type ListTasksParams struct {
	OwnerID   int64
	Status    *models.TaskStatus
	Page      int
	Size      int
	SortBy    string
	Direction string
}

type UpdateTaskParams struct {
	TaskID      int64
	RequesterID int64
	Title       string
	Description string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}
