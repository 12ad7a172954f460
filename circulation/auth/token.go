package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

const issuer = "library-circulation-engine"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims are the JWT claims of a library session. The subject is the user id.
type Claims struct {
	Role core.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal validates the claims and returns the caller they describe.
func (c *Claims) Principal() (Principal, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidClaims)
	}

	if _, known := capabilities[c.Role]; !known {
		return Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidClaims, c.Role)
	}

	return Principal{UserID: userID, Role: c.Role}, nil
}

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  timewindow.Clock
}

// NewTokens creates Tokens signing with secret.
func NewTokens(secret string, ttl time.Duration, clock timewindow.Clock) Tokens {
	return Tokens{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Secret is the signing key, shared with the HTTP middleware.
func (t Tokens) Secret() []byte {
	return t.secret
}

// Issue creates a signed token for the user.
func (t Tokens) Issue(userID uuid.UUID, role core.Role) (string, error) {
	now := t.clock.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a raw token.
func (t Tokens) Verify(raw string) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	return claims.Principal()
}
