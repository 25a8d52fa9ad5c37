// ABOUTME: Authentication state carried through request handlers
// ABOUTME: Provides WithState/FromContext for propagating the resolved gate state

package auth

import (
	"context"

	"github.com/2389/confadmin/internal/content"
)

// State is the outcome of resolving the stored credential.
type State struct {
	Authenticated bool
	User          *content.User
	// Loading is true until resolution finishes. Protected content must not
	// render while it is set.
	Loading bool
	// Claims holds the decoded credential when one was present and well formed.
	Claims *Claims
}

// Pending is the state before the gate has resolved.
func Pending() State {
	return State{Loading: true}
}

// Anonymous is the resolved state with no operator signed in.
func Anonymous() State {
	return State{}
}

// IsAdmin reports whether the signed-in user carries the admin role. Routes
// do not enforce roles; this only drives what the shell shows.
func (s State) IsAdmin() bool {
	return s.Authenticated && s.User != nil && s.User.Role == "admin"
}

type stateContextKey struct{}

// WithState returns a new context with the state attached.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, s)
}

// FromContext retrieves the state from the context. A context without one
// reports Pending, so protected rendering stays blocked.
func FromContext(ctx context.Context) State {
	s, ok := ctx.Value(stateContextKey{}).(State)
	if !ok {
		return Pending()
	}
	return s
}
