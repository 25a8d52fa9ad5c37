// ABOUTME: Auth gate that turns the stored credential into an authenticated state
// ABOUTME: Decodes locally, then confirms the operator with the backend's /auth/me

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/session"
)

// Backend is the subset of the CMS client the gate needs.
type Backend interface {
	Me(ctx context.Context) (*content.User, error)
	Login(ctx context.Context, creds cms.Credentials) (string, error)
	Register(ctx context.Context, reg cms.Registration) error
}

// Gate resolves the operator's identity from the session store.
type Gate struct {
	tokens  session.Store
	backend Backend
	logger  *slog.Logger
}

// NewGate creates a gate over the given store and backend.
func NewGate(tokens session.Store, backend Backend) *Gate {
	return &Gate{
		tokens:  tokens,
		backend: backend,
		logger:  slog.Default().With("component", "auth"),
	}
}

// Resolve computes the current state. With no credential it makes no
// network call. A credential that fails to decode is cleared. When the
// backend rejects or cannot answer /auth/me the state is unauthenticated but
// the credential is kept.
func (g *Gate) Resolve(ctx context.Context) State {
	token, err := g.tokens.Get(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoToken) {
			g.logger.Warn("reading stored credential", "error", err)
		}
		return Anonymous()
	}

	claims, err := Decode(token)
	if err != nil {
		g.logger.Info("discarding malformed credential", "error", err)
		if clearErr := g.tokens.Clear(ctx); clearErr != nil {
			g.logger.Warn("clearing malformed credential", "error", clearErr)
		}
		return Anonymous()
	}

	user, err := g.backend.Me(ctx)
	if err != nil {
		g.logger.Warn("fetching current user", "error", err)
		return Anonymous()
	}

	return State{Authenticated: true, User: user, Claims: &claims}
}

// Login stores token and resolves the operator it belongs to.
func (g *Gate) Login(ctx context.Context, token string) (State, error) {
	if err := g.tokens.Set(ctx, token); err != nil {
		return Anonymous(), fmt.Errorf("storing credential: %w", err)
	}
	return g.Resolve(ctx), nil
}

// SignIn exchanges email and password for a credential, stores it, and
// resolves the operator.
func (g *Gate) SignIn(ctx context.Context, email, password string) (State, error) {
	token, err := g.backend.Login(ctx, cms.Credentials{Email: email, Password: password})
	if err != nil {
		return Anonymous(), err
	}
	return g.Login(ctx, token)
}

// Register creates an account. The operator must sign in afterwards.
func (g *Gate) Register(ctx context.Context, username, email, password string) error {
	return g.backend.Register(ctx, cms.Registration{Username: username, Email: email, Password: password})
}

// Logout clears the stored credential.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// Attach resolves the state once per request and stores it in the request
// context before calling next.
func (g *Gate) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := g.Resolve(r.Context())
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
	})
}
