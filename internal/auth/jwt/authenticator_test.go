package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(ttl time.Duration) *Authenticator {
	return NewAuthenticator(Config{
		SecretKey:           "test-secret-key",
		AccessTokenDuration: ttl,
	})
}

func TestIssueToken_RoundTrip(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	token, err := auth.IssueToken("alice", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, auth.Validate(token))
	assert.Equal(t, "alice", auth.ExtractSubject(token))
	assert.Equal(t, string(domain.RoleAdmin), auth.ExtractRole(token))

	subject, role, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestIssueToken_CompactThreeSegmentFormat(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	token, err := auth.IssueToken("alice", domain.RoleUser)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	assert.Len(t, segments, 3)
	for _, segment := range segments {
		assert.NotContains(t, segment, "=")
		assert.NotContains(t, segment, "+")
		assert.NotContains(t, segment, "/")
	}
}

func TestValidate_Expired(t *testing.T) {
	auth := newTestAuthenticator(time.Minute)

	token, err := auth.IssueToken("alice", domain.RoleUser)
	require.NoError(t, err)
	require.True(t, auth.Validate(token))

	// Move the verifier's clock past expiry.
	auth.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	assert.False(t, auth.Validate(token))

	_, _, err = auth.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_SignatureTampering(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	token, err := auth.IssueToken("alice", domain.RoleUser)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	// Flipping any single character of the signature must invalidate the token.
	signature := segments[2]
	for i := range signature {
		flipped := flipChar(signature, i)
		if flipped == signature {
			continue
		}
		tampered := segments[0] + "." + segments[1] + "." + flipped
		assert.Falsef(t, auth.Validate(tampered), "flipped signature char %d", i)
	}
}

func TestValidate_PayloadTampering(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	token, err := auth.IssueToken("alice", domain.RoleUser)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	tampered := segments[0] + "." + flipChar(segments[1], 0) + "." + segments[2]
	assert.False(t, auth.Validate(tampered))
}

func TestValidate_Malformed(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	for _, token := range []string{
		"",
		"not-a-token",
		"only.two",
		"a.b.c.d",
	} {
		assert.Falsef(t, auth.Validate(token), "token %q", token)
	}
}

func TestValidate_RejectsUnsignedToken(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)

	claims := Claims{
		Role: string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, auth.Validate(token))
}

func TestValidate_RejectsForeignSecret(t *testing.T) {
	auth := newTestAuthenticator(15 * time.Minute)
	other := NewAuthenticator(Config{
		SecretKey:           "a-different-secret",
		AccessTokenDuration: 15 * time.Minute,
	})

	token, err := other.IssueToken("alice", domain.RoleUser)
	require.NoError(t, err)

	assert.False(t, auth.Validate(token))
}

func TestSharedSecret_VerifiableByIndependentVerifier(t *testing.T) {
	// Two authenticators with the same secret model separate service
	// processes verifying each other's tokens without coordination.
	issuer := newTestAuthenticator(15 * time.Minute)
	verifier := newTestAuthenticator(time.Hour)

	token, err := issuer.IssueToken("bob", domain.RoleUser)
	require.NoError(t, err)

	subject, role, err := verifier.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)
	assert.Equal(t, domain.RoleUser, role)
}

// flipChar replaces the character at index i with a different URL-safe one.
func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
