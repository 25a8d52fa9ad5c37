// ABOUTME: Dashboard aggregation: four widgets fetched concurrently
// ABOUTME: Each widget carries its own error so one failure never blanks the rest

package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/2389/confadmin/internal/content"
)

// DefaultRefreshInterval is how often the dashboard refreshes while visible.
const DefaultRefreshInterval = 30 * time.Second

// Source is the backend the dashboard reads. cms.Client satisfies it.
type Source interface {
	Stats(ctx context.Context) (content.Stats, error)
	Visitors(ctx context.Context) ([]content.VisitorPoint, error)
	RegistrationTypes(ctx context.Context) ([]content.RegistrationType, error)
	RecentActivity(ctx context.Context) ([]content.Activity, error)
}

// Widget is one independently fetched panel.
type Widget[T any] struct {
	Data T
	Err  error
}

// OK reports whether the widget loaded.
func (w Widget[T]) OK() bool {
	return w.Err == nil
}

// ActivityItem is an activity entry with a human-readable timestamp.
type ActivityItem struct {
	content.Activity
	When string
}

// Snapshot is one complete dashboard refresh.
type Snapshot struct {
	Stats             Widget[content.Stats]
	Visitors          Widget[[]content.VisitorPoint]
	RegistrationTypes Widget[[]content.RegistrationType]
	Activity          Widget[[]ActivityItem]
	FetchedAt         time.Time
}

// Failed reports whether every widget failed.
func (s Snapshot) Failed() bool {
	return !s.Stats.OK() && !s.Visitors.OK() && !s.RegistrationTypes.OK() && !s.Activity.OK()
}

// Service fetches dashboard snapshots.
type Service struct {
	src    Source
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a dashboard service over src.
func NewService(src Source) *Service {
	return &Service{
		src:    src,
		now:    time.Now,
		logger: slog.Default().With("component", "dashboard"),
	}
}

// Fetch loads all widgets in parallel.
func (s *Service) Fetch(ctx context.Context) Snapshot {
	var (
		wg   sync.WaitGroup
		snap Snapshot
	)
	wg.Add(4)

	go func() {
		defer wg.Done()
		snap.Stats.Data, snap.Stats.Err = s.src.Stats(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Visitors.Data, snap.Visitors.Err = s.src.Visitors(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.RegistrationTypes.Data, snap.RegistrationTypes.Err = s.src.RegistrationTypes(ctx)
	}()
	go func() {
		defer wg.Done()
		items, err := s.src.RecentActivity(ctx)
		snap.Activity.Err = err
		if err == nil {
			snap.Activity.Data = s.humanizeActivity(items)
		}
	}()

	wg.Wait()
	snap.FetchedAt = s.now()

	for name, err := range map[string]error{
		"stats":              snap.Stats.Err,
		"visitors":           snap.Visitors.Err,
		"registration-types": snap.RegistrationTypes.Err,
		"activity":           snap.Activity.Err,
	} {
		if err != nil {
			s.logger.Warn("dashboard widget failed", "widget", name, "error", err)
		}
	}
	return snap
}

func (s *Service) humanizeActivity(items []content.Activity) []ActivityItem {
	now := s.now()
	out := make([]ActivityItem, len(items))
	for i, a := range items {
		out[i] = ActivityItem{Activity: a, When: HumanTime(a.Time, now)}
	}
	return out
}

// HumanTime renders an RFC 3339 timestamp relative to now ("3 minutes ago").
// Values that do not parse are returned unchanged.
func HumanTime(raw string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Count formats a counter with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// TotalRegistrations sums a registration breakdown.
func TotalRegistrations(types []content.RegistrationType) int {
	total := 0
	for _, t := range types {
		total += t.Value
	}
	return total
}

// Share returns v as a percentage of total, 0 when total is 0.
func Share(v, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(v) * 100 / float64(total)
}
