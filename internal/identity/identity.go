// Package identity adapts the external identity provider: it verifies the
// provider's tokens and models auth-state changes as an explicit event
// source.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned for a missing or invalid token
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the signed-in user as reported by the identity provider
type Identity struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Provider authenticates bearer tokens
type Provider interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// Claims is the token payload issued by the identity provider
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 tokens signed with a shared secret
type JWTProvider struct {
	secret []byte
	issuer string
}

// NewJWTProvider creates a provider for the given secret
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: "back2u"}
}

// Authenticate validates a token and returns the identity it carries
func (p *JWTProvider) Authenticate(_ context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	return &Identity{UID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}

// Issue signs a token for id that expires after ttl. Used for local
// development and tests; production tokens come from the provider.
func (p *JWTProvider) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  id.Name,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
