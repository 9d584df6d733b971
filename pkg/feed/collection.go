package feed

import (
	"sort"
	"sync"
)

// Collection is an ordered set of entities, most recent first. All mutation
// funnels through Insert, Update and Remove so that nothing bypasses the
// reconciliation checks callers attach to Update.
type Collection struct {
	mu sync.RWMutex

	items []Entity
	index map[string]Entity
}

func NewCollection() *Collection {
	return &Collection{
		items: make([]Entity, 0),
		index: make(map[string]Entity),
	}
}

// Insert adds an entity at its timestamp-ordered position. Returns false
// without modifying the collection when the id is already present.
func (c *Collection) Insert(entity Entity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := entity.EntityID()

	_, ok := c.index[id]
	if ok {
		return false
	}

	// first position whose timestamp is older than the new entity
	at := sort.Search(len(c.items), func(i int) bool {
		return c.items[i].CreatedAt() < entity.CreatedAt()
	})

	c.items = append(c.items, nil)
	copy(c.items[at+1:], c.items[at:])
	c.items[at] = entity

	c.index[id] = entity

	return true
}

// Update applies fields to an existing entity. Each field is passed through
// accept before being written; a nil accept applies everything. Returns false
// when the id is absent.
func (c *Collection) Update(id string, fields map[string]interface{}, accept func(field string) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity, ok := c.index[id]
	if !ok {
		return false
	}

	for field, value := range fields {
		if accept != nil && !accept(field) {
			continue
		}

		entity.Apply(field, value)
	}

	return true
}

// SetVersion records the version of the last applied remote update.
func (c *Collection) SetVersion(id string, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity, ok := c.index[id]
	if !ok {
		return
	}

	entity.SetEntityVersion(version)
}

// Remove deletes the entity with the given id. No-op when absent.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.index[id]
	if !ok {
		return false
	}

	delete(c.index, id)

	for i, entity := range c.items {
		if entity.EntityID() != id {
			continue
		}

		c.items = append(c.items[:i], c.items[i+1:]...)
		break
	}

	return true
}

// Snapshot returns a copy of the entity with the given id. The copy is made
// with the collection lock held, so reading it never races a merge writing
// the live entity.
func (c *Collection) Snapshot(id string) (Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entity, ok := c.index[id]
	if !ok {
		return nil, false
	}

	return entity.Clone(), true
}

// Snapshots returns copies of the ordered entities, taken under the
// collection lock.
func (c *Collection) Snapshots() []Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]Entity, 0, len(c.items))
	for _, entity := range c.items {
		snapshot = append(snapshot, entity.Clone())
	}

	return snapshot
}

// Version returns the recorded version of the entity with the given id.
func (c *Collection) Version(id string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entity, ok := c.index[id]
	if !ok {
		return 0, false
	}

	return entity.EntityVersion(), true
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// IDs returns the ordered entity ids.
func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.items))
	for _, entity := range c.items {
		ids = append(ids, entity.EntityID())
	}

	return ids
}
