package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireserve/internal/auth"
)

func TestAuthGuardRejectsMissingHeader(t *testing.T) {
	verifier := auth.NewTokenVerifier([]byte("secret"))
	req, res, _ := newReqRes("GET", "/posts")

	var nextCalled bool
	AuthGuard(verifier)(req, res, func(err error) { nextCalled = true })

	assert.False(t, nextCalled)
	assert.True(t, res.HeadersSent())
}

func TestAuthGuardAcceptsValidToken(t *testing.T) {
	secret := []byte("secret")
	issuer := auth.NewTokenIssuer(secret, 0)
	verifier := auth.NewTokenVerifier(secret)

	token, err := issuer.Issue("user-1", "alice")
	require.NoError(t, err)

	req, res, _ := newReqRes("GET", "/posts")
	req.Headers.Set("authorization", "Bearer "+token)

	var nextCalled bool
	AuthGuard(verifier)(req, res, func(err error) { nextCalled = true })

	assert.True(t, nextCalled)
	assert.False(t, res.HeadersSent())
	claims, ok := req.User.(*auth.Claims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestAuthGuardSkipsConfiguredPaths(t *testing.T) {
	verifier := auth.NewTokenVerifier([]byte("secret"))
	req, res, _ := newReqRes("POST", "/auth/login")

	var nextCalled bool
	AuthGuardWithConfig(AuthGuardConfig{Verifier: verifier, SkipPaths: []string{"/auth/login"}})(req, res, func(err error) { nextCalled = true })

	assert.True(t, nextCalled)
}

func TestAuthGuardRejectsWrongScheme(t *testing.T) {
	verifier := auth.NewTokenVerifier([]byte("secret"))
	req, res, _ := newReqRes("GET", "/posts")
	req.Headers.Set("authorization", "Basic dXNlcjpwYXNz")

	var nextCalled bool
	AuthGuard(verifier)(req, res, func(err error) { nextCalled = true })

	assert.False(t, nextCalled)
	assert.True(t, res.HeadersSent())
}
