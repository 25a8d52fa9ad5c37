// ABOUTME: Server orchestrator that owns the HTTP listener and the session store
// ABOUTME: Handles startup, health checks and graceful shutdown of the console

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tailscale.com/tsnet"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/config"
	"github.com/2389/confadmin/internal/session"
	"github.com/2389/confadmin/internal/webadmin"
)

// JanitorInterval is how often expired session rows are purged.
const JanitorInterval = 10 * time.Minute

// shutdownTimeout bounds graceful shutdown once the run context is done.
const shutdownTimeout = 5 * time.Second

// Server is the console process.
type Server struct {
	config *config.Config
	logger *slog.Logger

	sessions   *session.SQLiteStore
	client     *cms.Client
	admin      *webadmin.Admin
	httpServer *http.Server

	tsnetServer *tsnet.Server
}

// New opens the session database and builds the console handlers.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	sessions, err := session.NewSQLiteStore(cfg.Database.Path, []byte(cfg.Session.Secret), cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	client := cms.New(cfg.Backend.URL, sessions, cms.WithTimeout(cfg.Backend.Timeout))

	admin := webadmin.New(client, sessions, webadmin.Config{
		BaseURL:         cfg.ExternalURL(),
		CookieName:      cfg.Session.CookieName,
		SecureCookie:    cfg.Session.SecureCookie || cfg.Tailscale.HTTPS,
		SessionTTL:      cfg.Session.TTL,
		CSRFKey:         cfg.CSRFKey(),
		TrustedOrigins:  cfg.WebAdmin.TrustedOrigins,
		NoticeTTL:       cfg.WebAdmin.NoticeTTL,
		RefreshInterval: cfg.Dashboard.RefreshInterval,
		IdleTTL:         cfg.Session.IdleTTL,
		MaxWorkspaces:   cfg.Session.MaxWorkspaces,
	})

	s := &Server{
		config:   cfg,
		logger:   logger,
		sessions: sessions,
		client:   client,
		admin:    admin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
	})
	admin.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("console configured",
		"backend", client.BaseURL(),
		"external_url", cfg.ExternalURL(),
		"database", cfg.Database.Path,
	)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupListener creates the HTTP listener based on configuration (Tailscale or TCP).
func (s *Server) setupListener(ctx context.Context) (net.Listener, error) {
	if s.config.Tailscale.Enabled {
		if s.config.Server.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled",
				"http_addr", s.config.Server.HTTPAddr,
			)
		}
		return s.setupTailscaleListener(ctx)
	}

	s.logger.Info("starting console", "http_addr", s.config.Server.HTTPAddr)
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// startServer serves HTTP in a goroutine and reports failures on the returned channel.
func (s *Server) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Run serves until ctx is canceled. It returns nil on a graceful shutdown
// and the server error otherwise.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener(ctx)
	if err != nil {
		return err
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.RunJanitor(janitorCtx, JanitorInterval)

	errCh := s.startServer(ln)
	serverErr := s.waitForShutdownSignal(ctx, errCh)
	stopJanitor()

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the run context is already done.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the session store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down console")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))

	if s.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", s.tsnetServer.Close())
	}

	s.admin.Close()
	errs = appendCloseError(errs, "session store close", s.sessions.Close())

	return errors.Join(errs...)
}

// handleHealth returns 200 OK if the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
