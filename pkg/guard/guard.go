// Package guard tracks recent local mutations so that authoritative updates
// arriving shortly after do not revert them.
package guard

import (
	"sync"
	"time"
)

// DefaultWindow is how long a local mutation holds off remote overwrites.
const DefaultWindow = 2 * time.Second

// Guard records, per entity and per field, when the viewer last mutated state
// locally. A remote write to a guarded field is rejected until the window has
// elapsed. Expiry is computed on read, never scheduled.
type Guard struct {
	mu sync.Mutex

	window time.Duration
	now    func() time.Time

	entities map[string]map[string]time.Time
}

const allFields = "*"

func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Guard{
		window:   window,
		now:      time.Now,
		entities: make(map[string]map[string]time.Time),
	}
}

// SetNow overrides the clock, for tests.
func (g *Guard) SetNow(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.now = now
}

// MarkMutated records a local mutation covering every field of the entity.
// A repeated mark restarts the window.
func (g *Guard) MarkMutated(id string) {
	g.mark(id, allFields)
}

// MarkField records a local mutation of a single field.
func (g *Guard) MarkField(id, field string) {
	g.mark(id, field)
}

func (g *Guard) mark(id, field string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fields, ok := g.entities[id]
	if !ok {
		fields = make(map[string]time.Time)
		g.entities[id] = fields
	}

	fields[field] = g.now()
}

// ShouldAcceptRemote reports whether an entity-level remote change, such as
// a deletion or full replacement, may be applied. Any unexpired mark on the
// entity blocks it, field-scoped or entity-wide.
func (g *Guard) ShouldAcceptRemote(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	fields, ok := g.entities[id]
	if !ok {
		return true
	}

	now := g.now()

	for key, marked := range fields {
		if now.Sub(marked) < g.window {
			return false
		}

		delete(fields, key)
	}

	delete(g.entities, id)

	return true
}

// ShouldAcceptField reports whether a remote write to the given field may be
// applied. A field is guarded by its own mark or by an entity-wide mark.
func (g *Guard) ShouldAcceptField(id, field string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	fields, ok := g.entities[id]
	if !ok {
		return true
	}

	now := g.now()

	for key, marked := range fields {
		if key != field && key != allFields {
			continue
		}

		if now.Sub(marked) < g.window {
			return false
		}

		delete(fields, key)
	}

	if len(fields) == 0 {
		delete(g.entities, id)
	}

	return true
}

// Forget drops all marks for an entity, for when it is deleted.
func (g *Guard) Forget(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entities, id)
}

// ForgetField drops a single field mark, for when an optimistic mutation is
// rolled back and the local value no longer needs protecting.
func (g *Guard) ForgetField(id, field string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fields, ok := g.entities[id]
	if !ok {
		return
	}

	delete(fields, field)

	if len(fields) == 0 {
		delete(g.entities, id)
	}
}
