package auth

import (
	"errors"
	"net/http"
	"time"
)

// ErrNoSession is returned when a request carries no session cookie.
var ErrNoSession = errors.New("no session cookie")

// Cookie wraps a token in the session cookie. MaxAge is derived from the
// token TTL so the browser drops the cookie when the token expires.
func (s *TokenService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie returns a cookie that removes the session from the browser.
func (s *TokenService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenFromRequest reads the session token from the request cookie.
func (s *TokenService) TokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}
	return cookie.Value, nil
}

func (s *TokenService) CookieName() string {
	return s.cookieName
}
