package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/movies"
	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/desertthunder/reelist/internal/session"
	"github.com/desertthunder/reelist/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Server wires the movie list API onto a [BasicRouter] and runs it with graceful shutdown.
type Server struct {
	cfg      *shared.Config
	logger   *log.Logger
	router   *BasicRouter
	sessions *session.Manager
}

// New builds the router, middleware chain, and handlers for cfg backed by db.
//
// The example session secret is refused since anyone can forge tokens with it.
func New(cfg *shared.Config, db *sql.DB, logger *log.Logger) (*Server, error) {
	if cfg.Session.Secret == shared.ExampleSecret {
		return nil, fmt.Errorf("%w: session.secret is the example value", shared.ErrInvalidConfig)
	}

	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(db)
	entries := repositories.NewListEntryRepository(db)

	reader := movies.NewReader(entries, shared.WithLogger(logger, "component", "reader"))
	writer := movies.NewWriter(users, entries, shared.WithLogger(logger, "component", "writer"), movies.WriterConfig{
		StrictCategories: cfg.Catalog.StrictCategories,
		DefaultSource:    cfg.Catalog.DefaultSource,
	})

	httpLogger := shared.WithLogger(logger, "component", "server")
	errs := errorWriter{logger: httpLogger, debug: cfg.Server.DebugErrors}

	s := &Server{
		cfg:      cfg,
		logger:   httpLogger,
		router:   NewBasicRouter(),
		sessions: sessions,
	}

	s.router.Use(
		RequestID(),
		Recoverer(),
		RequestLogger(httpLogger),
		CORS(cfg.Server.AllowedOrigins),
		RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)

	s.router.HandleFunc(http.MethodGet, "/healthz", healthHandler(db))
	s.router.Handler(NewSessionHandler(sessions))

	if cfg.Credentials.Google.Enabled() {
		google := NewGoogleAuthHandler(GoogleOAuthConfig(cfg.Credentials.Google), users, sessions, httpLogger, nil)
		s.router.Handler(google)
	} else {
		httpLogger.Debug("google sign-in disabled, no client credentials")
	}

	requireSession := RequireSession(sessions, errs)
	moviesHandler := NewMoviesHandler(reader, writer, errs)
	for _, route := range moviesHandler.Routes() {
		for _, method := range route.Methods {
			s.router.Handle(method, route.Path, requireSession(moviesHandler))
		}
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session manager used to verify requests.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then drains in-flight requests
// for up to the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownGrace())
		defer cancel()

		s.logger.Info("shutting down", "grace", s.cfg.Server.ShutdownGrace())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
