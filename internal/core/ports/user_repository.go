package ports

import (
	"context"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

// UserRepository is the credential store contract: the system of record for
// identities, password verification, and role membership. Password hashing is
// owned entirely by the implementation; plaintext never leaves these calls.
type UserRepository interface {
	// FindByUsername resolves a user by exact, case-sensitive username.
	// Returns domain.ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Create persists a new identity, hashing plaintext according to the
	// store's password policy. Returns domain.ErrUserExists on a duplicate
	// username and domain.ErrWeakPassword when the policy rejects plaintext.
	Create(ctx context.Context, user *domain.User, plaintext string) (*domain.User, error)

	// VerifyPassword reports whether plaintext matches the user's stored
	// hash. A nil user must still perform a comparison of equivalent cost so
	// unknown-username and wrong-password are indistinguishable in timing.
	VerifyPassword(ctx context.Context, user *domain.User, plaintext string) bool

	// ReplaceRoles atomically replaces the user's entire role set. The swap
	// must be a single operation: no observable window with zero roles.
	ReplaceRoles(ctx context.Context, username string, roles []string) error

	// List returns all identities.
	List(ctx context.Context) ([]domain.User, error)
}

// RoleRepository maintains the registry of role names.
type RoleRepository interface {
	// EnsureExists creates the role if missing. Idempotent.
	EnsureExists(ctx context.Context, name string) error

	// List returns every registered role name.
	List(ctx context.Context) ([]string, error)
}
