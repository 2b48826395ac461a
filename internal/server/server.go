package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/colorboard/apiserver/config"
	"github.com/colorboard/apiserver/internal/auth"
	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/internal/handlers"
	"github.com/colorboard/apiserver/internal/logging"
	"github.com/colorboard/apiserver/internal/mq"
	"github.com/colorboard/apiserver/internal/services"
	"github.com/colorboard/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	kv         db.Store
	bus        *mq.MQ
	logger     *zap.Logger
}

// New opens the configured store and broker and builds the server.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	kv, err := db.OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bus, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("open mq: %w", err)
	}

	srv, err := NewWithStore(cfg, logger, kv, bus)
	if err != nil {
		if bus != nil {
			_ = bus.Close()
		}
		_ = kv.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithStore builds the server on an already opened store. bus may be nil,
// in which case no color events are published.
func NewWithStore(cfg config.Config, logger *zap.Logger, kv db.Store, bus *mq.MQ) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens, err := auth.NewTokenService(cfg.Session)
	if err != nil {
		return nil, err
	}
	if cfg.Session.DevSecret {
		logger.Warn("SESSION_SECRET is unset, using the development secret")
	}

	userRepo := store.NewUserRepository(kv)
	colorRepo := store.NewColorRepository(kv)
	favoriteRepo := store.NewFavoriteRepository(kv)

	var colorOpts []services.ColorOption
	if bus != nil {
		colorOpts = append(colorOpts, services.WithEventPublisher(bus, cfg.MQ.ColorsChannel))
	}

	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	colorService := services.NewColorService(colorRepo, favoriteRepo, logger, colorOpts...)
	favoriteService := services.NewFavoriteService(colorRepo, favoriteRepo)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.RequestLogger(logger),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokens, logger)
		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireSession(tokens))
			handlers.ColorRouter(r, colorService, favoriteService, logger)
			handlers.UserRouter(r, userService, cfg.Auth.AdminUsernames, logger)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		kv:         kv,
		bus:        bus,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the broker and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.bus != nil {
		if closeErr := s.bus.Close(); closeErr != nil {
			s.logger.Warn("failed to close mq", zap.Error(closeErr))
		}
	}
	if s.kv != nil {
		if closeErr := s.kv.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}
	return err
}
