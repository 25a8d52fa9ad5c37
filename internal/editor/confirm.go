// ABOUTME: Two-step delete confirmation holding a single pending target id
// ABOUTME: Nothing is deleted until the pending id is taken by a confirm

package editor

// ConfirmGate holds at most one pending delete target. It is not safe for
// concurrent use; owners guard it with their own lock.
type ConfirmGate struct {
	pending string
	armed   bool
}

// Request arms the gate for id, replacing any earlier target.
func (g *ConfirmGate) Request(id string) {
	g.pending, g.armed = id, true
}

// Pending returns the armed target, if any.
func (g *ConfirmGate) Pending() (string, bool) {
	return g.pending, g.armed
}

// Cancel disarms the gate.
func (g *ConfirmGate) Cancel() {
	g.pending, g.armed = "", false
}

// Take disarms the gate and returns the target it held.
func (g *ConfirmGate) Take() (string, bool) {
	id, ok := g.pending, g.armed
	g.Cancel()
	return id, ok
}
