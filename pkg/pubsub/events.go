package pubsub

import "encoding/json"

type Topic string

const (
	PostTopic    Topic = "post"
	CommentTopic Topic = "comment"
	StoryTopic   Topic = "story"
)

type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// Event is an incremental change to a single entity, published on a topic.
// Version increases per entity so that duplicate or out-of-order updates can
// be ignored by consumers.
type Event struct {
	Type    EventType              `json:"type"`
	Topic   Topic                  `json:"topic"`
	ID      string                 `json:"id"`
	Version int64                  `json:"version,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// GetString returns a string payload field.
func (e Event) GetString(key string) (string, bool) {
	val, ok := e.Payload[key]
	if !ok {
		return "", false
	}

	str, ok := val.(string)
	return str, ok
}

// GetInt returns an integer payload field. JSON decoding produces float64,
// raw construction may produce int.
func (e Event) GetInt(key string) (int, bool) {
	val, ok := e.Payload[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}

	return 0, false
}

func NewCreatedEvent(topic Topic, id string, version int64, payload map[string]interface{}) Event {
	return Event{
		Type:    EventTypeCreated,
		Topic:   topic,
		ID:      id,
		Version: version,
		Payload: payload,
	}
}

func NewUpdatedEvent(topic Topic, id string, version int64, delta map[string]interface{}) Event {
	return Event{
		Type:    EventTypeUpdated,
		Topic:   topic,
		ID:      id,
		Version: version,
		Payload: delta,
	}
}

func NewDeletedEvent(topic Topic, id string) Event {
	return Event{
		Type:    EventTypeDeleted,
		Topic:   topic,
		ID:      id,
	}
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a wire payload into an Event.
func Decode(data []byte) (*Event, error) {
	event := &Event{}

	err := json.Unmarshal(data, event)
	if err != nil {
		return nil, err
	}

	return event, nil
}
