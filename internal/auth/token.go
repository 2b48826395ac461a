package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colorboard/apiserver/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrSessionInvalid = errors.New("session invalid")
)

const defaultCookieName = "session"

// Claims is the verified content of a session token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates HS256 session tokens and binds them to
// the session cookie. The cookie lifetime and the token lifetime both come
// from ttl.
type TokenService struct {
	secret       []byte
	ttl          time.Duration
	cookieName   string
	secureCookie bool
	now          func() time.Time
}

func NewTokenService(cfg config.SessionConfig) (*TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL < time.Second {
		return nil, errors.New("session ttl must be at least one second")
	}

	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	return &TokenService{
		secret:       []byte(cfg.Secret),
		ttl:          cfg.TTL.Truncate(time.Second),
		cookieName:   cookieName,
		secureCookie: cfg.SecureCookie,
		now:          time.Now,
	}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires ttl after issuance.
// IssuedAt is truncated to the second so the exp claim is exactly iat+ttl.
func (s *TokenService) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}

	issuedAt := s.now().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate returns the claims of a well-formed, correctly signed, unexpired
// token. It fails with ErrSessionExpired once now >= exp and with
// ErrSessionInvalid for anything else.
func (s *TokenService) Validate(tokenString string) (Claims, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if !token.Valid {
		return Claims{}, ErrSessionInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrSessionInvalid)
	}

	out := Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
