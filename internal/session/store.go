// ABOUTME: Session store contract for the operator's bearer credential
// ABOUTME: Exposes get/set/clear plus browser-session scoping through context

package session

import (
	"context"
	"errors"
)

var (
	// ErrNoToken is returned by Get when no credential is stored.
	ErrNoToken = errors.New("no credential stored")

	// ErrNoSession is returned when a scoped store is used without a session id in context.
	ErrNoSession = errors.New("no session id in context")
)

// Store holds exactly one value per scope: the bearer credential.
type Store interface {
	// Get returns the stored credential or ErrNoToken.
	Get(ctx context.Context) (string, error)
	// Set persists the credential, replacing any previous one.
	Set(ctx context.Context, token string) error
	// Clear forgets the credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// idContextKey is the key type for the browser session id.
type idContextKey struct{}

// WithID returns a context scoped to the given browser session.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idContextKey{}, id)
}

// IDFromContext returns the browser session id, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idContextKey{}).(string)
	return id, ok && id != ""
}

// Has reports whether the store currently holds a credential.
// Errors other than ErrNoToken are treated as absent.
func Has(ctx context.Context, s Store) bool {
	tok, err := s.Get(ctx)
	return err == nil && tok != ""
}
