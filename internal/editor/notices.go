// ABOUTME: Auto-dismissing notices produced by every mutation outcome
// ABOUTME: Notices expire after a TTL; expired entries are pruned on read

package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNoticeTTL is how long a notice stays visible.
const DefaultNoticeTTL = 3 * time.Second

// Level is the severity of a notice.
type Level string

// Notice levels.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one transient message shown to the operator.
type Notice struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notices holds the active notices for one operator.
type Notices struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notice
}

// NewNotices creates a notice list. A non-positive ttl uses DefaultNoticeTTL.
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notices{ttl: ttl, now: time.Now}
}

// TTL returns how long notices stay visible.
func (n *Notices) TTL() time.Duration {
	return n.ttl
}

// Add records a notice and returns it.
func (n *Notices) Add(level Level, message string) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	notice := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.items = append(n.pruneLocked(now), notice)
	return notice
}

// Success records a success notice.
func (n *Notices) Success(message string) Notice {
	return n.Add(LevelSuccess, message)
}

// Error records an error notice.
func (n *Notices) Error(message string) Notice {
	return n.Add(LevelError, message)
}

// Active returns the notices that have not expired, oldest first.
func (n *Notices) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = n.pruneLocked(n.now())
	out := make([]Notice, len(n.items))
	copy(out, n.items)
	return out
}

// Dismiss removes a notice before it expires.
func (n *Notices) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.items[:0]
	for _, it := range n.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	n.items = kept
}

func (n *Notices) pruneLocked(now time.Time) []Notice {
	kept := n.items[:0]
	for _, it := range n.items {
		if now.Before(it.ExpiresAt) {
			kept = append(kept, it)
		}
	}
	return kept
}
