package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeUserRepo struct {
	byID map[string]*user.User
}

func (r *fakeUserRepo) Create(context.Context, *user.User) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeUserRepo) Update(context.Context, *user.User) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context, user.ListUsersFilter) ([]*user.User, string, error) {
	return nil, "", nil
}

type fakeTokens struct {
	mu      sync.Mutex
	expires time.Time
	issued  map[string]Claims
	seq     int
}

func (f *fakeTokens) Issue(u *user.User) (string, Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	token := fmt.Sprintf("token-%d", f.seq)
	claims := Claims{TokenID: fmt.Sprintf("jti-%d", f.seq), UserID: u.ID, Role: u.Role, ExpiresAt: f.expires}
	f.issued[token] = claims
	return token, claims, nil
}

func (f *fakeTokens) Parse(token string) (Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	claims, ok := f.issued[token]
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

type fakeRevocations struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fixture struct {
	svc         *Service
	revocations *fakeRevocations
	now         time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeUserRepo{byID: map[string]*user.User{
		"admin":    {ID: "admin", Email: "admin@example.com", PasswordHash: string(hash), Role: user.RoleAdmin, IsActive: true},
		"owner":    {ID: "owner", Email: "owner@example.com", PasswordHash: string(hash), Role: user.RoleParent, IsActive: true},
		"disabled": {ID: "disabled", Email: "disabled@example.com", PasswordHash: string(hash), Role: user.RoleEmployee, IsActive: false},
	}}
	tokens := &fakeTokens{expires: now.Add(time.Hour), issued: map[string]Claims{}}
	revocations := &fakeRevocations{revoked: map[string]time.Duration{}}

	return fixture{
		svc:         NewService(repo, tokens, revocations, fixedClock{now: now}, nil),
		revocations: revocations,
		now:         now,
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	result, err := f.svc.Login(context.Background(), LoginInput{Email: "  Admin@Example.com ", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" || result.User.ID != "admin" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.RedirectTo != PathDashboard {
		t.Fatalf("expected %s, got %s", PathDashboard, result.RedirectTo)
	}
	if !result.ExpiresAt.Equal(f.now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", result.ExpiresAt)
	}
}

func TestService_Login_ParentRedirectsToCompanyDashboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	result, err := f.svc.Login(context.Background(), LoginInput{Email: "owner@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.RedirectTo != PathCompanyDashboard {
		t.Fatalf("expected %s, got %s", PathCompanyDashboard, result.RedirectTo)
	}
}

func TestService_Login_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	cases := []struct {
		name string
		in   LoginInput
		want error
	}{
		{name: "missing email", in: LoginInput{Password: "password123"}, want: ErrMissingCredentials},
		{name: "missing password", in: LoginInput{Email: "admin@example.com"}, want: ErrMissingCredentials},
		{name: "unknown email", in: LoginInput{Email: "nobody@example.com", Password: "password123"}, want: ErrInvalidCredentials},
		{name: "wrong password", in: LoginInput{Email: "admin@example.com", Password: "wrong-password"}, want: ErrInvalidCredentials},
		{name: "deactivated", in: LoginInput{Email: "disabled@example.com", Password: "password123"}, want: ErrAccountDeactivated},
		{name: "deactivated with wrong password", in: LoginInput{Email: "disabled@example.com", Password: "nope"}, want: ErrInvalidCredentials},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := f.svc.Login(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_CurrentUserAndLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	identity, err := f.svc.CurrentUser(ctx, login.Token)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if identity.User.ID != "admin" || identity.Claims.Role != user.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if err := f.svc.Logout(ctx, login.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if ttl := f.revocations.revoked[identity.Claims.TokenID]; ttl != time.Hour {
		t.Fatalf("expected token revoked for 1h, got %v", ttl)
	}

	if _, err := f.svc.CurrentUser(ctx, login.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if err := f.svc.Logout(ctx, login.Token); err != nil {
		t.Fatalf("expected second logout to succeed, got %v", err)
	}
}

func TestService_CurrentUser_InvalidToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	if _, err := f.svc.CurrentUser(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := f.svc.CurrentUser(context.Background(), "forged"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestService_Logout_RevocationFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	storeErr := errors.New("redis down")
	f.revocations.err = storeErr
	if err := f.svc.Logout(ctx, login.Token); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
