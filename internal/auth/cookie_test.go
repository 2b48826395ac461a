package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/colorboard/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookie_MatchesTokenTTL(t *testing.T) {
	s, err := NewTokenService(config.SessionConfig{
		Secret:       "secret",
		TTL:          90 * time.Minute,
		CookieName:   "sid",
		SecureCookie: true,
	})
	require.NoError(t, err)

	cookie := s.Cookie("tok")
	assert.Equal(t, "sid", cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 90*60, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestClearCookie(t *testing.T) {
	s := newTestTokenService(t, "secret", time.Hour)

	cookie := s.ClearCookie()
	assert.Equal(t, "session", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	assert.True(t, cookie.HttpOnly)
}

func TestTokenFromRequest(t *testing.T) {
	s := newTestTokenService(t, "secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := s.TokenFromRequest(req)
	assert.ErrorIs(t, err, ErrNoSession)

	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})
	token, err := s.TokenFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestTokenFromRequest_IgnoresBearerHeader(t *testing.T) {
	s := newTestTokenService(t, "secret", time.Hour)

	token, err := s.Issue("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = s.TokenFromRequest(req)
	assert.ErrorIs(t, err, ErrNoSession)
}
