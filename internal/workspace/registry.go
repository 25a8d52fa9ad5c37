// ABOUTME: Thread-safe idle-TTL registry of per-session workspaces
// ABOUTME: Evicts the least recently used entry at capacity and sweeps idle ones

package workspace

import (
	"container/list"
	"sync"
	"time"
)

// DefaultSweepInterval is how often idle entries are removed.
const DefaultSweepInterval = time.Minute

type entry[V any] struct {
	key      string
	value    V
	lastUsed time.Time
	element  *list.Element
}

// Registry maps session ids to values that expire after a period of
// inactivity. Uses a doubly-linked list in least-recently-used order for O(1)
// eviction.
type Registry[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	order   *list.List // keys, least recently used at front
	idleTTL time.Duration
	maxSize int
	onEvict func(key string, v V)
	now     func() time.Time

	sweepEvery time.Duration
	done       chan struct{}
	closed     bool
}

// Option configures a Registry.
type Option[V any] func(*Registry[V])

// WithEvict registers a callback run for every entry that leaves the
// registry, whether it expired, was evicted, or was dropped. It runs without
// the registry lock held.
func WithEvict[V any](fn func(key string, v V)) Option[V] {
	return func(r *Registry[V]) {
		r.onEvict = fn
	}
}

// WithSweepInterval overrides how often idle entries are swept. A
// non-positive interval disables the background sweep.
func WithSweepInterval[V any](d time.Duration) Option[V] {
	return func(r *Registry[V]) {
		r.sweepEvery = d
	}
}

// New creates a registry. A background goroutine sweeps idle entries until
// Close is called.
func New[V any](idleTTL time.Duration, maxSize int, opts ...Option[V]) *Registry[V] {
	r := &Registry[V]{
		entries:    make(map[string]*entry[V]),
		order:      list.New(),
		idleTTL:    idleTTL,
		maxSize:    maxSize,
		now:        time.Now,
		done:       make(chan struct{}),
		sweepEvery: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sweepEvery > 0 {
		go r.sweepLoop(r.sweepEvery)
	}
	return r
}

// Get returns the live value for key and marks it used.
func (r *Registry[V]) Get(key string) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok || r.expiredLocked(e, r.now()) {
		var zero V
		return zero, false
	}
	r.touchLocked(e)
	return e.value, true
}

// GetOrCreate returns the value for key, building it with create when absent
// or expired. It reports whether the value was created.
func (r *Registry[V]) GetOrCreate(key string, create func() V) (V, bool) {
	r.mu.Lock()

	now := r.now()
	var evicted []*entry[V]
	if e, ok := r.entries[key]; ok {
		if !r.expiredLocked(e, now) {
			r.touchLocked(e)
			r.mu.Unlock()
			return e.value, false
		}
		r.removeLocked(e)
		evicted = append(evicted, e)
	}

	if r.maxSize > 0 && len(r.entries) >= r.maxSize {
		if oldest := r.oldestLocked(); oldest != nil {
			r.removeLocked(oldest)
			evicted = append(evicted, oldest)
		}
	}

	e := &entry[V]{key: key, value: create(), lastUsed: now}
	e.element = r.order.PushBack(key)
	r.entries[key] = e
	r.mu.Unlock()

	r.notify(evicted)
	return e.value, true
}

// Drop removes key immediately.
func (r *Registry[V]) Drop(key string) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		r.removeLocked(e)
	}
	r.mu.Unlock()

	if ok {
		r.notify([]*entry[V]{e})
	}
}

// Len returns the number of entries, including ones not yet swept.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes every idle entry and returns how many it removed.
func (r *Registry[V]) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var evicted []*entry[V]
	for _, e := range r.entries {
		if r.expiredLocked(e, now) {
			r.removeLocked(e)
			evicted = append(evicted, e)
		}
	}
	r.mu.Unlock()

	r.notify(evicted)
	return len(evicted)
}

// Close stops the background sweep. It is safe to call multiple times.
func (r *Registry[V]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		close(r.done)
		r.closed = true
	}
}

func (r *Registry[V]) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.done:
			return
		}
	}
}

func (r *Registry[V]) expiredLocked(e *entry[V], now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(e.lastUsed) > r.idleTTL
}

func (r *Registry[V]) touchLocked(e *entry[V]) {
	e.lastUsed = r.now()
	r.order.MoveToBack(e.element)
}

func (r *Registry[V]) oldestLocked() *entry[V] {
	front := r.order.Front()
	if front == nil {
		return nil
	}
	key, _ := front.Value.(string)
	return r.entries[key]
}

func (r *Registry[V]) removeLocked(e *entry[V]) {
	r.order.Remove(e.element)
	delete(r.entries, e.key)
}

func (r *Registry[V]) notify(evicted []*entry[V]) {
	if r.onEvict == nil {
		return
	}
	for _, e := range evicted {
		r.onEvict(e.key, e.value)
	}
}
