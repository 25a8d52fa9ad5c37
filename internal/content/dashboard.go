// ABOUTME: Read-only dashboard summaries returned by the backend
// ABOUTME: Stat counters, visitor series, registration breakdown and activity feed

package content

// Stats are the headline counters.
type Stats struct {
	TotalVisitors      int `json:"totalVisitors"`
	TotalRegistrations int `json:"totalRegistrations"`
	ActiveUsers        int `json:"activeUsers"`
}

// VisitorPoint is one bucket of the visitor series.
type VisitorPoint struct {
	Name     string `json:"name"`
	Visitors int    `json:"visitors"`
}

// RegistrationType is one slice of the registration breakdown.
type RegistrationType struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	User   string `json:"user"`
	Time   string `json:"time"`
}
