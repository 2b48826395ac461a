package handlers

import (
	"net/http"

	"github.com/colorboard/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler exposes the registered usernames to administrators.
type UserHandler struct {
	userService *services.UserService
	admins      map[string]struct{}
	logger      *zap.Logger
}

func NewUserHandler(userService *services.UserService, adminUsernames []string, logger *zap.Logger) *UserHandler {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[name] = struct{}{}
	}
	return &UserHandler{
		userService: userService,
		admins:      admins,
		logger:      logger,
	}
}

// UserRouter registers user routes. The caller applies RequireSession.
func UserRouter(r chi.Router, userService *services.UserService, adminUsernames []string, logger *zap.Logger) {
	handler := NewUserHandler(userService, adminUsernames, logger)

	r.With(handler.requireAdmin).Get("/users", handler.ListUsers)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.userService.ListUsernames(r.Context())
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, usernames)
}

func (h *UserHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := subjectFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if _, ok := h.admins[username]; !ok {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
