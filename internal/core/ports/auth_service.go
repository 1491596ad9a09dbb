package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

// RegisterInput carries a registration request into the auth service.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Address   string
}

// UpdateRoleInput names a target user and the single role that will become
// the target's entire role set.
type UpdateRoleInput struct {
	Username string
	NewRole  string
}

// LoginResult pairs a freshly issued session token with the user projection
// returned to the client.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService interface {
	// SeedRoles converges the role registry to the four canonical roles,
	// creating whichever are missing. Idempotent from any starting state.
	SeedRoles(ctx context.Context) error

	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Me re-authenticates from a presented token: decodes it, re-resolves
	// the identity and its current roles, and issues a fresh token.
	Me(ctx context.Context, token string) (*LoginResult, error)

	// UpdateRole replaces the target's role set with {input.NewRole} when
	// the acting principal's roles permit it.
	UpdateRole(ctx context.Context, actorRoles []string, input UpdateRoleInput) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsernames(ctx context.Context) ([]string, error)

	// GetUserByUsername returns (nil, nil) when the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// LoginThrottle rate-limits failed login attempts per username.
type LoginThrottle interface {
	// TooManyAttempts reports whether the username has exhausted its
	// failed-attempt budget for the current window.
	TooManyAttempts(ctx context.Context, username string) (bool, error)

	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, username string) error

	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
