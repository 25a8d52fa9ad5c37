// Package auth resolves who is operating the console.
//
// # Credential
//
// The backend issues a bearer JWT at POST /auth/login. The console keeps it
// in a session.Store and never verifies its signature; Decode only checks
// that it is a well-formed JWT and exposes its exp claim.
//
// # Gate
//
// Gate.Resolve turns the stored credential into a State:
//
//   - no credential: unauthenticated, no network call
//   - malformed credential: cleared, unauthenticated, no network call
//   - GET /auth/me succeeds: authenticated with the returned user
//   - GET /auth/me fails: unauthenticated, credential kept
//
// Gate.Attach runs resolution once per request and stores the State in the
// request context, where handlers read it with FromContext.
//
// # Route guard
//
// RequireToken protects console routes by credential existence alone:
//
//	mux.Handle("GET /admin/", auth.RequireToken(store, "/admin/login")(h))
//
// Requests without a credential get 303 See Other to the login route, or
// an HX-Redirect header when issued by htmx.
package auth
