package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/colorboard/apiserver/internal/auth"
	"github.com/colorboard/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxAuthBodyBytes = 1 << 16
	msgUnauthorized  = "unauthorized"
)

// AuthHandler provides signup, login and session endpoints.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenService
	logger      *zap.Logger
}

func NewAuthHandler(userService *services.UserService, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		logger:      logger,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, tokens *auth.TokenService, logger *zap.Logger) {
	handler := NewAuthHandler(userService, tokens, logger)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.With(RequireSession(tokens)).Post("/logout", handler.Logout)
	r.With(RequireSession(tokens)).Get("/check", handler.Check)
}

// RequireSession is the gate in front of every protected route. It accepts
// only a valid session cookie and puts the token subject in the request
// context; every failure gets the same 401 body.
func RequireSession(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := tokens.TokenFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), claims.Subject)))
		})
	}
}

// Signup creates a new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if _, err := h.userService.Register(r.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "missing required fields")
		case errors.Is(err, services.ErrUserExists):
			writeError(w, http.StatusConflict, "username already exists")
		default:
			writeInternalError(w, r, h.logger, "failed to create user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "user created"})
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeInternalError(w, r, h.logger, "failed to authenticate", err)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create session", err)
		return
	}

	http.SetCookie(w, h.tokens.Cookie(token))
	writeJSON(w, http.StatusOK, LoginResponse{Message: "logged in", Username: user.Username})
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokens.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}

// Check returns the username of the current session.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	username, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{Username: username})
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type CheckResponse struct {
	Username string `json:"username"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return CredentialsRequest{}, false
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return CredentialsRequest{}, false
	}
	return req, true
}
