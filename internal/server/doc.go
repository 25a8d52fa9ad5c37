// Package server runs the confadmin console process.
//
// # Overview
//
// A Server opens the SQLite session store, builds the CMS API client and the
// web console, and serves them over a single HTTP listener until its context
// is canceled.
//
// # Listeners
//
// Without Tailscale the console listens on server.http_addr. With Tailscale
// enabled a tsnet node is started and the console is served on :80, on :443
// with tailnet certificates when tailscale.https is set, or publicly through
// Funnel.
//
// # Lifecycle
//
// Run blocks until the context is canceled or the HTTP server fails, then
// shuts down within five seconds. Expired session rows are purged by a
// janitor for as long as Run is serving.
package server
