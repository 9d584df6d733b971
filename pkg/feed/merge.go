package feed

import (
	"sync"

	"github.com/kennedyongogo/tuvibe/pkg/guard"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

// Decoder builds an entity from a created event payload.
type Decoder func(event pubsub.Event) (Entity, error)

// PostDecoder decodes a post created event.
func PostDecoder(event pubsub.Event) (Entity, error) {
	post := &Post{}

	err := decodeInto(event.Payload, post)
	if err != nil {
		return nil, err
	}

	post.ID = event.ID
	post.Version = event.Version

	return post, nil
}

// CommentDecoder decodes a comment created event.
func CommentDecoder(event pubsub.Event) (Entity, error) {
	comment := &Comment{}

	err := decodeInto(event.Payload, comment)
	if err != nil {
		return nil, err
	}

	comment.ID = event.ID
	comment.Version = event.Version

	return comment, nil
}

// Engine folds remote events into the collections registered per topic.
// Applying the same event twice is a no-op: created and deleted events are
// idempotent against presence checks, updated events against the per-entity
// version.
type Engine struct {
	mu sync.RWMutex

	guard *guard.Guard

	collections map[pubsub.Topic]*Collection
	decoders    map[pubsub.Topic]Decoder

	onDeleted func(topic pubsub.Topic, id string)
}

func NewEngine(g *guard.Guard) *Engine {
	return &Engine{
		guard:       g,
		collections: make(map[pubsub.Topic]*Collection),
		decoders:    make(map[pubsub.Topic]Decoder),
	}
}

// Attach registers a collection for a topic. An open comment thread attaches
// its collection here and detaches on close.
func (e *Engine) Attach(topic pubsub.Topic, collection *Collection, decode Decoder) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.collections[topic] = collection
	e.decoders[topic] = decode
}

// Detach removes the collection for a topic. Events for it become no-ops.
func (e *Engine) Detach(topic pubsub.Topic) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.collections, topic)
	delete(e.decoders, topic)
}

// OnDeleted registers a hook fired after an entity is removed, so that views
// holding an index into the collection can clamp it.
func (e *Engine) OnDeleted(f func(topic pubsub.Topic, id string)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onDeleted = f
}

// Apply folds one event into its collection. Events for unknown topics or
// absent entities are absorbed silently; only decode failures return an error.
func (e *Engine) Apply(event pubsub.Event) error {
	e.mu.RLock()
	collection, ok := e.collections[event.Topic]
	decode := e.decoders[event.Topic]
	deleted := e.onDeleted
	e.mu.RUnlock()

	if !ok {
		return nil
	}

	switch event.Type {
	case pubsub.EventTypeCreated:
		entity, err := decode(event)
		if err != nil {
			return err
		}

		collection.Insert(entity)
	case pubsub.EventTypeUpdated:
		version, ok := collection.Version(event.ID)
		if !ok {
			// update for an entity we never had: dropped, not inserted
			return nil
		}

		if event.Version != 0 && event.Version <= version {
			return nil
		}

		collection.Update(event.ID, event.Payload, func(field string) bool {
			return e.guard.ShouldAcceptField(event.ID, field)
		})

		if event.Version != 0 {
			collection.SetVersion(event.ID, event.Version)
		}
	case pubsub.EventTypeDeleted:
		if !collection.Remove(event.ID) {
			return nil
		}

		e.guard.Forget(event.ID)

		if deleted != nil {
			deleted(event.Topic, event.ID)
		}
	}

	return nil
}
