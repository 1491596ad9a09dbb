package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/ports"
	"github.com/vertexlab/identity-api/internal/core/token"
)

// --- Stubs ---

type stubUserRepo struct {
	users       map[string]*domain.User
	passwords   map[string]string
	verifyCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		passwords: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User, plaintext string) (*domain.User, error) {
	if len(plaintext) < 8 {
		return nil, domain.ErrWeakPassword
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	created.ID = "id-" + user.Username
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	r.users[created.Username] = created
	r.passwords[created.Username] = plaintext
	return cloneUser(created), nil
}

func (r *stubUserRepo) VerifyPassword(_ context.Context, user *domain.User, plaintext string) bool {
	r.verifyCalls++
	if user == nil {
		return false
	}
	return r.passwords[user.Username] == plaintext
}

func (r *stubUserRepo) ReplaceRoles(_ context.Context, username string, roles []string) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = append([]string(nil), roles...)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(u))
	}
	return users, nil
}

type stubRoleRepo struct {
	roles map[string]struct{}
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]struct{})}
}

func (r *stubRoleRepo) EnsureExists(_ context.Context, name string) error {
	r.roles[name] = struct{}{}
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	return names, nil
}

type stubAuditSink struct {
	entries []string
}

func (s *stubAuditSink) Record(username, description string) {
	s.entries = append(s.entries, username+": "+description)
}

type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (s *stubThrottle) TooManyAttempts(context.Context, string) (bool, error) {
	return s.blocked, nil
}

func (s *stubThrottle) RecordFailure(context.Context, string) error {
	s.failures++
	return nil
}

func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

// --- Fixture ---

type authFixture struct {
	users    *stubUserRepo
	roles    *stubRoleRepo
	audit    *stubAuditSink
	throttle *stubThrottle
	codec    *token.Codec
	svc      ports.AuthService
}

func newAuthFixture(t *testing.T, allowExpiredRefresh bool) *authFixture {
	t.Helper()
	codec, err := token.NewCodec(token.SigningConfig{
		Secret:   "test-secret",
		Issuer:   "identity-api",
		Audience: "identity-clients",
		TTL:      time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	f := &authFixture{
		users:    newStubUserRepo(),
		roles:    newStubRoleRepo(),
		audit:    &stubAuditSink{},
		throttle: &stubThrottle{},
		codec:    codec,
	}
	f.svc = NewAuthService(f.users, f.roles, f.audit, f.throttle, codec, allowExpiredRefresh, zerolog.Nop())
	return f
}

func (f *authFixture) register(t *testing.T, username, password string) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

// --- Tests ---

func TestAuthService_Register_DefaultRole(t *testing.T) {
	f := newAuthFixture(t, false)

	user := f.register(t, "alice", "secret-pass")
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected role set {USER}, got %v", user.Roles)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected one audit entry, got %v", f.audit.entries)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t, false)

	f.register(t, "bob", "secret-pass")
	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "other-pass"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Username: "", Password: "secret-pass"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "carol", "secret-pass")

	result, err := f.svc.Login(context.Background(), "carol", "secret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.User == nil || result.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", result.User)
	}

	principal, err := f.codec.Decode(result.Token, true)
	if err != nil {
		t.Fatalf("decode issued token: %v", err)
	}
	if len(principal.Roles) != 1 || principal.Roles[0] != domain.RoleUser {
		t.Fatalf("expected USER role claim, got %v", principal.Roles)
	}
	if f.throttle.resets != 1 {
		t.Fatalf("expected throttle reset after success")
	}
}

func TestAuthService_Login_FailuresIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "dave", "good-password")

	_, wrongPwdErr := f.svc.Login(context.Background(), "dave", "bad-password")
	_, unknownErr := f.svc.Login(context.Background(), "ghost", "bad-password")

	if !errors.Is(wrongPwdErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPwdErr)
	}
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}

	// Both paths must burn a verification, so the unknown-user case costs
	// the same as a wrong password.
	if f.users.verifyCalls != 2 {
		t.Fatalf("expected 2 verify calls, got %d", f.users.verifyCalls)
	}
	if f.throttle.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", f.throttle.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "erin", "secret-pass")
	f.throttle.blocked = true

	_, err := f.svc.Login(context.Background(), "erin", "secret-pass")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Me_PicksUpRoleChanges(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "frank", "secret-pass")

	login, err := f.svc.Login(context.Background(), "frank", "secret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Role changes after issuance are invisible to the old token but must
	// appear in the refreshed one.
	if err := f.users.ReplaceRoles(context.Background(), "frank", []string{domain.RoleManager}); err != nil {
		t.Fatalf("replace roles: %v", err)
	}

	refreshed, err := f.svc.Me(context.Background(), login.Token)
	if err != nil {
		t.Fatalf("me: %v", err)
	}

	principal, err := f.codec.Decode(refreshed.Token, true)
	if err != nil {
		t.Fatalf("decode refreshed token: %v", err)
	}
	if len(principal.Roles) != 1 || principal.Roles[0] != domain.RoleManager {
		t.Fatalf("expected refreshed MANAGER claim, got %v", principal.Roles)
	}
}

func TestAuthService_Me_InvalidToken(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.svc.Me(context.Background(), "garbage")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Me_UnknownSubject(t *testing.T) {
	f := newAuthFixture(t, false)

	signed, err := f.codec.Issue(&domain.User{ID: "id-gone", Username: "gone"}, []string{domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = f.svc.Me(context.Background(), signed)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_UpdateRole_ReplacesWholeSet(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "gina", "secret-pass")

	err := f.svc.UpdateRole(context.Background(), []string{domain.RoleAdmin}, ports.UpdateRoleInput{
		Username: "gina",
		NewRole:  domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("update role: %v", err)
	}

	updated, _ := f.users.FindByUsername(context.Background(), "gina")
	if len(updated.Roles) != 1 || updated.Roles[0] != domain.RoleManager {
		t.Fatalf("expected role set {MANAGER}, got %v", updated.Roles)
	}
}

func TestAuthService_UpdateRole_AdminCannotTouchAdmin(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "hank", "secret-pass")
	if err := f.users.ReplaceRoles(context.Background(), "hank", []string{domain.RoleAdmin}); err != nil {
		t.Fatalf("replace roles: %v", err)
	}

	err := f.svc.UpdateRole(context.Background(), []string{domain.RoleAdmin}, ports.UpdateRoleInput{
		Username: "hank",
		NewRole:  domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The target keeps its roles on a denial.
	unchanged, _ := f.users.FindByUsername(context.Background(), "hank")
	if len(unchanged.Roles) != 1 || unchanged.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected roles unchanged, got %v", unchanged.Roles)
	}
}

func TestAuthService_UpdateRole_TargetNotFound(t *testing.T) {
	f := newAuthFixture(t, false)

	err := f.svc.UpdateRole(context.Background(), []string{domain.RoleOwner}, ports.UpdateRoleInput{
		Username: "nobody",
		NewRole:  domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_SeedRoles_Idempotent(t *testing.T) {
	f := newAuthFixture(t, false)

	// From empty.
	if err := f.svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("seed from empty: %v", err)
	}
	if len(f.roles.roles) != 4 {
		t.Fatalf("expected 4 roles, got %d", len(f.roles.roles))
	}

	// From fully seeded.
	if err := f.svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if len(f.roles.roles) != 4 {
		t.Fatalf("expected 4 roles after reseed, got %d", len(f.roles.roles))
	}
}

func TestAuthService_SeedRoles_FillsPartialRegistry(t *testing.T) {
	f := newAuthFixture(t, false)
	f.roles.roles[domain.RoleOwner] = struct{}{}
	f.roles.roles[domain.RoleUser] = struct{}{}

	if err := f.svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("seed partial: %v", err)
	}
	for _, role := range domain.CanonicalRoles {
		if _, ok := f.roles.roles[role]; !ok {
			t.Fatalf("role %s missing after seeding", role)
		}
	}
}

func TestAuthService_GetUserByUsername_Absent(t *testing.T) {
	f := newAuthFixture(t, false)

	user, err := f.svc.GetUserByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected nil error for absent user, got %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestAuthService_ListUsernames(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "alice", "secret-pass")
	f.register(t, "bob", "secret-pass")

	names, err := f.svc.ListUsernames(context.Background())
	if err != nil {
		t.Fatalf("list usernames: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 usernames, got %v", names)
	}
}

// End-to-end walk through the role lifecycle: register with the default
// role, login, promote through an admin, then attempt the forbidden OWNER
// assignment.
func TestAuthService_RoleLifecycle(t *testing.T) {
	f := newAuthFixture(t, false)

	user := f.register(t, "alice", "secret-pass1")
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected {USER} after registration, got %v", user.Roles)
	}

	login, err := f.svc.Login(context.Background(), "alice", "secret-pass1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	principal, err := f.codec.Decode(login.Token, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !domain.HasRole(principal.Roles, domain.RoleUser) {
		t.Fatalf("expected USER claim, got %v", principal.Roles)
	}

	admin := []string{domain.RoleAdmin}
	if err := f.svc.UpdateRole(context.Background(), admin, ports.UpdateRoleInput{Username: "alice", NewRole: domain.RoleManager}); err != nil {
		t.Fatalf("promote to manager: %v", err)
	}
	promoted, _ := f.users.FindByUsername(context.Background(), "alice")
	if len(promoted.Roles) != 1 || promoted.Roles[0] != domain.RoleManager {
		t.Fatalf("expected {MANAGER}, got %v", promoted.Roles)
	}

	err = f.svc.UpdateRole(context.Background(), admin, ports.UpdateRoleInput{Username: "alice", NewRole: domain.RoleOwner})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for OWNER request, got %v", err)
	}
}
