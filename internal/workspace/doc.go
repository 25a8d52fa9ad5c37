// Package workspace keeps per-session server-side state for the console.
//
// Each browser session owns one workspace holding its content managers.
// Workspaces expire after a period of inactivity, the least recently used
// one is evicted when the registry is full, and logging out drops the
// workspace so every draft and pending delete is discarded.
package workspace
