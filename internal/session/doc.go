// Package session stores the operator's bearer credential.
//
// The store holds a single value per scope and exposes Get, Set and Clear.
// In the web console the scope is the browser session: an opaque cookie id
// carried in the request context with WithID. SQLiteStore persists the
// credential sealed with NaCl secretbox. The command line client uses
// FileStore, and tests use MemoryStore.
package session
