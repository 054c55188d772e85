package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehall/dinehall/internal/domain/account"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	a := &account.Account{ID: 42, Username: "alice", Role: account.RoleCustomer}

	signed, err := tokens.Issue(a)
	require.NoError(t, err)

	ident, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.AccountID)
	assert.Equal(t, account.RoleCustomer, ident.Role)
}

func TestTokens_AdminRoleSurvives(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	signed, err := tokens.Issue(&account.Account{ID: 1, Role: account.RoleAdmin})
	require.NoError(t, err)

	ident, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.True(t, ident.Role.IsAdmin())
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	issuedAt := time.Now()
	tokens.now = func() time.Time { return issuedAt }
	signed, err := tokens.Issue(&account.Account{ID: 42, Role: account.RoleCustomer})
	require.NoError(t, err)

	// Still good one minute before expiry.
	tokens.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = tokens.Verify(signed)
	require.NoError(t, err)

	// Dead one minute after.
	tokens.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	issuer := NewTokens(testSecret, time.Hour)
	verifier := NewTokens([]byte("a completely different secret!!!"), time.Hour)

	signed, err := issuer.Issue(&account.Account{ID: 42, Role: account.RoleCustomer})
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Garbage(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	for _, token := range []string{"", "not.a.jwt", "Bearer abc"} {
		_, err := tokens.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokens_UnknownRoleRejected(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	// Hand-craft a token with a role the platform does not define.
	now := time.Now()
	c := claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(testSecret)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_NoneAlgorithmRejected(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	c := claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	ident := Identity{AccountID: 7, Role: account.RoleCustomer}

	ctx := WithIdentity(context.Background(), ident)
	got, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, ident, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}
