package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
	"github.com/ogurasousui/company-admin-console/internal/platform/config"
)

type consoleClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer は HS256 で署名したセッショントークンを発行します。
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ session.TokenIssuer = (*Issuer)(nil)

// NewIssuer は Issuer を生成します。
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue はユーザーのトークンを発行します。jti は失効管理のキーになります。
func (i *Issuer) Issue(u *user.User) (string, session.Claims, error) {
	if u == nil || u.ID == "" {
		return "", session.Claims{}, errors.New("token: user is required")
	}

	now := i.now()
	expiresAt := now.Add(i.ttl).Truncate(time.Second)

	claims := consoleClaims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if u.CompanyID != nil {
		claims.CompanyID = *u.CompanyID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", session.Claims{}, fmt.Errorf("token: sign: %w", err)
	}

	return signed, toSessionClaims(claims), nil
}

// Parse は署名・発行者・有効期限を検証します。
func (i *Issuer) Parse(raw string) (session.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims consoleClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	}, opts...)
	if err != nil {
		return session.Claims{}, fmt.Errorf("%w: %v", session.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" || claims.UserID == "" || claims.ExpiresAt == nil {
		return session.Claims{}, session.ErrInvalidToken
	}

	return toSessionClaims(claims), nil
}

func toSessionClaims(c consoleClaims) session.Claims {
	out := session.Claims{
		TokenID:   c.ID,
		UserID:    c.UserID,
		Role:      user.Role(c.Role),
		CompanyID: c.CompanyID,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
