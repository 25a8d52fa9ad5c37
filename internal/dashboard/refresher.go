// ABOUTME: Periodic dashboard refresh gated on a visibility predicate
// ABOUTME: Stops when its context is cancelled

package dashboard

import (
	"context"
	"time"
)

// Refresher re-fetches the dashboard on a fixed interval.
type Refresher struct {
	svc      *Service
	interval time.Duration
	visible  func() bool
	onUpdate func(Snapshot)
}

// NewRefresher creates a refresher. A nil visible predicate counts as always
// visible; a non-positive interval uses DefaultRefreshInterval.
func NewRefresher(svc *Service, interval time.Duration, visible func() bool, onUpdate func(Snapshot)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if visible == nil {
		visible = func() bool { return true }
	}
	return &Refresher{svc: svc, interval: interval, visible: visible, onUpdate: onUpdate}
}

// Run fetches on every tick while visible reports true, until ctx is done.
// It does not fetch immediately; callers render the first snapshot themselves.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.visible() {
				continue
			}
			snap := r.svc.Fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			if r.onUpdate != nil {
				r.onUpdate(snap)
			}
		}
	}
}
