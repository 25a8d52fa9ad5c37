// ABOUTME: Read-only dashboard endpoints for stats, charts, and recent activity
// ABOUTME: Each widget is fetched independently so one failure does not hide the rest

package cms

import (
	"context"
	"fmt"

	"github.com/2389/confadmin/internal/content"
)

// Stats fetches the headline counters.
func (c *Client) Stats(ctx context.Context) (content.Stats, error) {
	var out content.Stats
	if err := c.get(ctx, "/dashboard/stats", &out); err != nil {
		return out, fmt.Errorf("fetching stats: %w", err)
	}
	return out, nil
}

// Visitors fetches the visitor series.
func (c *Client) Visitors(ctx context.Context) ([]content.VisitorPoint, error) {
	var out []content.VisitorPoint
	if err := c.get(ctx, "/dashboard/visitors", &out); err != nil {
		return nil, fmt.Errorf("fetching visitors: %w", err)
	}
	return out, nil
}

// RegistrationTypes fetches the registration breakdown.
func (c *Client) RegistrationTypes(ctx context.Context) ([]content.RegistrationType, error) {
	var out []content.RegistrationType
	if err := c.get(ctx, "/dashboard/registration-types", &out); err != nil {
		return nil, fmt.Errorf("fetching registration types: %w", err)
	}
	return out, nil
}

// RecentActivity fetches the activity feed.
func (c *Client) RecentActivity(ctx context.Context) ([]content.Activity, error) {
	var out []content.Activity
	if err := c.get(ctx, "/dashboard/activity", &out); err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	return out, nil
}
