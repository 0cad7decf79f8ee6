package auth

import (
	"testing"
	"time"

	"recipebox/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("super-secret", 2*time.Hour)
	tok, exp, err := tokens.Issue("user-123", "ada@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ada@x.com", claims.Email)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", 2*time.Hour)
	issuedAt := time.Now().Add(-3 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }
	tok, _, err := tokens.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(tok)
	require.ErrorIs(t, err, apperr.ErrAuth)
	assert.Equal(t, "token expired", err.Error())
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokens("right-secret", time.Hour).Issue("u2", "u2@x.com")
	require.NoError(t, err)

	_, err = NewTokens("wrong-secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u3",
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("k", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestParse_MalformedOrEmpty(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("k", time.Hour)
	_, err := tokens.Parse("not.a.jwt")
	assert.ErrorIs(t, err, apperr.ErrAuth)
	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}
