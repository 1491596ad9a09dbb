// Package token issues and verifies the signed session tokens that carry
// identity and role claims between requests. Tokens are stateless: once
// issued they stay valid until their embedded expiry, regardless of role
// changes made afterwards. Callers that need fresh claims must re-resolve
// the user (see AuthService.Me).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

const defaultTTL = 2 * time.Hour

// SigningConfig is an immutable bundle of signing parameters, built once at
// startup and threaded through every Issue/Decode call. Keeping it a single
// value rules out issuer/secret mismatches between issuance and validation.
type SigningConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims is the wire shape of a session token's payload.
type Claims struct {
	Username  string   `json:"username"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// Principal is the identity asserted by a verified token.
type Principal struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
	Roles     []string
}

// Codec signs and verifies session tokens with a symmetric HS256 secret.
type Codec struct {
	cfg SigningConfig
}

// NewCodec validates the signing configuration up front: a missing secret is
// a deployment error and must fail at startup, never at issuance time.
func NewCodec(cfg SigningConfig) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &Codec{cfg: cfg}, nil
}

// Issue builds a signed token for the user carrying one claim per role.
func (c *Codec) Issue(user *domain.User, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     append([]string(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    c.cfg.Issuer,
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(c.cfg.Secret))
}

// Decode verifies the signature and requires issuer and audience equality
// with the signing configuration. Lifetime (exp/nbf) is checked only when
// enforceLifetime is true: refresh deliberately distinguishes "authentic but
// expired" from "forged", and only the caller knows which it will accept.
// Every failure mode wraps domain.ErrInvalidToken.
func (c *Codec) Decode(tokenString string, enforceLifetime bool) (*Principal, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(c.cfg.Secret), nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Issuer != c.cfg.Issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", domain.ErrInvalidToken)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != c.cfg.Audience {
		return nil, fmt.Errorf("%w: audience mismatch", domain.ErrInvalidToken)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username claim", domain.ErrInvalidToken)
	}

	if enforceLifetime {
		now := time.Now()
		if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrInvalidToken)
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			return nil, fmt.Errorf("%w: token not yet valid", domain.ErrInvalidToken)
		}
	}

	return &Principal{
		UserID:    claims.Subject,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     claims.Roles,
	}, nil
}
