package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Claims は検証済みトークンの内容です。
type Claims struct {
	TokenID   string
	UserID    string
	Role      user.Role
	CompanyID string
	ExpiresAt time.Time
}

// TokenIssuer はセッショントークンの発行と検証を行います。
// Parse は署名・有効期限が不正な場合に ErrInvalidToken をラップして返します。
type TokenIssuer interface {
	Issue(u *user.User) (string, Claims, error)
	Parse(token string) (Claims, error)
}

// RevocationStore はログアウト済みトークンを有効期限まで保持します。
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type noopRevocationStore struct{}

func (noopRevocationStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (noopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// Service はログイン・ログアウトと現在のユーザー取得をまとめます。
type Service struct {
	users       user.Repository
	tokens      TokenIssuer
	revocations RevocationStore
	clock       Clock
	logger      *zap.Logger
}

// UseCase はセッションユースケースの公開インターフェースです。
type UseCase interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	CurrentUser(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

// NewService は Service を生成します。
func NewService(users user.Repository, tokens TokenIssuer, revocations RevocationStore, clock Clock, logger *zap.Logger) *Service {
	if revocations == nil {
		revocations = noopRevocationStore{}
	}
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, revocations: revocations, clock: clock, logger: logger}
}

// LoginInput はログイン時の入力です。
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult はログイン結果です。RedirectTo はロールに応じた遷移先です。
type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	User       *user.User
	RedirectTo string
}

// Identity は検証済みトークンに対応するユーザーです。
type Identity struct {
	User   *user.User
	Claims Claims
}

// Login はメールアドレスとパスワードを検証し、セッショントークンを発行します。
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}

	token, claims, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("session: issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))

	return &LoginResult{
		Token:      token,
		ExpiresAt:  claims.ExpiresAt,
		User:       u,
		RedirectTo: Route(true, u.Role),
	}, nil
}

// CurrentUser はトークンを検証し、対応するユーザーを返します。
func (s *Service) CurrentUser(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}

	return &Identity{User: u, Claims: claims}, nil
}

// Logout はトークンを有効期限まで失効させます。失効済みのトークンは成功扱いです。
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			return nil
		}
		return err
	}

	ttl := claims.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("session: revoke token: %w", err)
	}

	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

func (s *Service) verify(ctx context.Context, token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Claims{}, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return Claims{}, fmt.Errorf("session: check revocation: %w", err)
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}
