// Package jwt implements issuing and verification of signed access tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minimart-io/minimart/internal/domain"
)

// ErrInvalidToken is returned for any token that fails decoding, signature
// verification or expiry checks. Callers get no finer detail than this.
var ErrInvalidToken = errors.New("invalid token")

// Config holds token issuing settings.
type Config struct {
	SecretKey           string
	AccessTokenDuration time.Duration
}

// Claims is the token payload: subject and role plus the registered
// issued-at and expiry timestamps.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256-signed tokens. It is immutable
// after construction and safe for concurrent use; issuing and verification
// are pure computations over the token and the shared secret.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator creates a token authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.AccessTokenDuration,
		now:    time.Now,
	}
}

// IssueToken mints a signed token for the given identity and role, valid
// from now until now plus the configured TTL.
func (a *Authenticator) IssueToken(username string, role domain.Role) (string, error) {
	now := a.now()

	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate reports whether the token decodes, carries a valid HS256
// signature, and has not expired. It fails closed on any parse error.
func (a *Authenticator) Validate(token string) bool {
	_, err := a.parse(token)
	return err == nil
}

// VerifyToken validates the token and returns its subject and role claims.
// Any failure is reported as ErrInvalidToken.
func (a *Authenticator) VerifyToken(token string) (string, domain.Role, error) {
	claims, err := a.parse(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims.Subject, domain.Role(claims.Role), nil
}

// ExtractSubject returns the subject claim without verifying the token.
// The value is only meaningful after Validate has succeeded.
func (a *Authenticator) ExtractSubject(token string) string {
	claims := a.extract(token)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// ExtractRole returns the role claim without verifying the token.
// The value is only meaningful after Validate has succeeded.
func (a *Authenticator) ExtractRole(token string) string {
	claims := a.extract(token)
	if claims == nil {
		return ""
	}
	return claims.Role
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (a *Authenticator) extract(token string) *Claims {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}
	return &claims
}
