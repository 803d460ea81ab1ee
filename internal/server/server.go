// Package server wires the HTTP surface: routes, middleware chain and the
// http.Server lifecycle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/internal/server/handlers"
	"github.com/iudanet/fortress/internal/server/middleware"
)

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TokenRate    int           // token endpoint requests per window per client
	TokenWindow  time.Duration // token endpoint rate limit window
	Version      string
}

// Server is the API gateway in front of the user directory.
type Server struct {
	logger  *slog.Logger
	httpSrv *http.Server
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New assembles the full middleware/handler tree.
func New(logger *slog.Logger, opts Options, dir *directory.Directory, tokens handlers.TokenConfig) *Server {
	rootHandler := handlers.NewRootHandler(logger)
	healthHandler := handlers.NewHealthHandler(logger, dir, opts.Version)
	authHandler := handlers.NewAuthHandler(logger, dir, tokens)
	userHandler := handlers.NewUserHandler(logger, dir)

	limiter := middleware.NewRateLimiter(opts.TokenRate, opts.TokenWindow, logger)

	auth := middleware.Auth(logger, tokens, dir)
	anyRole := middleware.RequireRoles(logger,
		models.RolePrincipal, models.RoleWorker, models.RoleUser)
	principalOnly := middleware.RequireRoles(logger, models.RolePrincipal)
	principalOrWorker := middleware.RequireRoles(logger,
		models.RolePrincipal, models.RoleWorker)

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", http.HandlerFunc(rootHandler.Root))
	mux.Handle("GET /health", http.HandlerFunc(healthHandler.Health))
	mux.Handle("POST /token", middleware.RateLimit(limiter)(http.HandlerFunc(authHandler.Token)))
	mux.Handle("POST /token/refresh", middleware.RateLimit(limiter)(http.HandlerFunc(authHandler.Refresh)))

	mux.Handle("GET /me", auth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /users", auth(anyRole(http.HandlerFunc(userHandler.List))))
	mux.Handle("GET /users/{id}", auth(anyRole(http.HandlerFunc(userHandler.Get))))
	mux.Handle("POST /users", auth(principalOnly(http.HandlerFunc(userHandler.Create))))
	mux.Handle("PUT /users/{id}", auth(principalOrWorker(http.HandlerFunc(userHandler.Replace))))
	mux.Handle("PATCH /users/{id}", auth(principalOrWorker(http.HandlerFunc(userHandler.Patch))))
	mux.Handle("DELETE /users/{id}", auth(principalOnly(http.HandlerFunc(userHandler.Delete))))

	handler := middleware.Recovery(logger)(middleware.Logging(logger)(mux))

	return &Server{
		logger: logger,
		httpSrv: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		limiter: limiter,
		handler: handler,
	}
}

// Handler exposes the assembled handler tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	s.logger.Info("HTTP server listening", "addr", s.httpSrv.Addr)

	select {
	case err := <-errC:
		s.limiter.Stop()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	s.limiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
