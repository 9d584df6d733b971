package pubsub

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a new redis pubsub Queue.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Publish an Event on a specific topic.
func (q *Queue) Publish(topic Topic, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return q.rdb.Publish(context.Background(), string(topic), data).Err()
}

// Subscribe to a list of topics, returning a channel of decoded events.
// Messages that fail to decode are logged and skipped.
func (q *Queue) Subscribe(topics ...Topic) <-chan Event {
	t := make([]string, 0)
	for _, topic := range topics {
		t = append(t, string(topic))
	}

	pubsub := q.rdb.Subscribe(context.Background(), t...)

	buffer := make(chan Event, 100)
	go read(pubsub, buffer)

	return buffer
}

func read(pubsub *redis.PubSub, buffer chan Event) {
	defer close(buffer)

	for msg := range pubsub.Channel() {
		event, err := Decode([]byte(msg.Payload))
		if err != nil {
			log.Printf("failed to decode event: %s", err.Error())
			continue
		}

		buffer <- *event
	}
}
