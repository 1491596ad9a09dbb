package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vertexlab/identity-api/internal/api/metrics"
	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/policy"
	"github.com/vertexlab/identity-api/internal/core/ports"
	"github.com/vertexlab/identity-api/internal/core/token"
)

type authService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	audit    ports.AuditSink
	throttle ports.LoginThrottle // optional; nil disables throttling
	codec    *token.Codec

	// allowExpiredRefresh lets Me accept an expired-but-authentic token.
	// Signature, issuer and audience are always verified either way.
	allowExpiredRefresh bool

	log zerolog.Logger
}

// NewAuthService wires the auth orchestrator. throttle may be nil when login
// throttling is disabled.
func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	audit ports.AuditSink,
	throttle ports.LoginThrottle,
	codec *token.Codec,
	allowExpiredRefresh bool,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:               users,
		roles:               roles,
		audit:               audit,
		throttle:            throttle,
		codec:               codec,
		allowExpiredRefresh: allowExpiredRefresh,
		log:                 log,
	}
}

// SeedRoles creates whichever canonical roles are missing from the registry.
// "None present", "some present" and "all present" all converge to the same
// all-four-present state without error.
func (s *authService) SeedRoles(ctx context.Context) error {
	for _, role := range domain.CanonicalRoles {
		if err := s.roles.EnsureExists(ctx, role); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}
	return nil
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user := &domain.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
		Roles:     []string{domain.RoleUser},
	}

	created, err := s.users.Create(ctx, user, input.Password)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.audit.Record(created.Username, "User created successfully")
	return created, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyAttempts(ctx, username)
		if err != nil {
			// Throttling is a hardening layer, not an availability
			// dependency: on store errors logins proceed.
			s.log.Warn().Err(err).Msg("login throttle check failed")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	// VerifyPassword burns one hash comparison even when user is nil, so an
	// unknown username costs the same as a wrong password and both collapse
	// into the same error.
	if user == nil || !s.users.VerifyPassword(ctx, user, password) {
		if s.throttle != nil {
			if err := s.throttle.RecordFailure(ctx, username); err != nil {
				s.log.Warn().Err(err).Msg("failed to record login failure")
			}
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	signed, err := s.codec.Issue(user, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	s.audit.Record(user.Username, "User logged in successfully")

	return &ports.LoginResult{Token: signed, User: user}, nil
}

// Me re-authenticates from a presented token. The decoded username is
// re-resolved against the credential store so the fresh token carries the
// target's current roles, picking up any changes made since first issuance.
func (s *authService) Me(ctx context.Context, tokenString string) (*ports.LoginResult, error) {
	principal, err := s.codec.Decode(tokenString, !s.allowExpiredRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	signed, err := s.codec.Issue(user, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("me: issue token: %w", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	s.audit.Record(user.Username, "User me token generated")

	return &ports.LoginResult{Token: signed, User: user}, nil
}

func (s *authService) UpdateRole(ctx context.Context, actorRoles []string, input ports.UpdateRoleInput) error {
	target, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		return err
	}

	if err := policy.CanAssign(actorRoles, target.Roles, input.NewRole); err != nil {
		metrics.RoleUpdatesTotal.WithLabelValues("denied").Inc()
		return err
	}

	// Single replace-all operation: the target never observes an empty role
	// set between removal and assignment.
	if err := s.users.ReplaceRoles(ctx, target.Username, []string{input.NewRole}); err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	metrics.RoleUpdatesTotal.WithLabelValues("applied").Inc()
	s.audit.Record(target.Username, "Role updated to "+input.NewRole)
	return nil
}

func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *authService) ListUsernames(ctx context.Context) ([]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names, nil
}

// GetUserByUsername returns (nil, nil) when the user does not exist; the
// transport layer decides how to render absence.
func (s *authService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
