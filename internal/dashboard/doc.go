// Package dashboard aggregates the read-only summary widgets: headline
// counters, the visitor series, the registration breakdown and recent activity.
package dashboard
