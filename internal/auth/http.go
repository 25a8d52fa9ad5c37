// ABOUTME: HTTP route guard for protected console pages
// ABOUTME: Redirects to the login route when no credential is stored

package auth

import (
	"net/http"

	"github.com/2389/confadmin/internal/session"
)

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// RequireToken serves the wrapped handler only when tokens holds a
// credential. Only existence is checked; roles are accepted for route
// declarations but not enforced. Without a credential the request is sent
// to loginPath with 303 See Other, or with HX-Redirect for htmx requests so
// the whole page navigates.
func RequireToken(tokens session.Store, loginPath string, roles ...string) func(http.Handler) http.Handler {
	_ = roles
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.Has(r.Context(), tokens) {
				next.ServeHTTP(w, r)
				return
			}

			if isHTMX(r) {
				w.Header().Set("HX-Redirect", loginPath)
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		})
	}
}
