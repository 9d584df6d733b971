package stories

import (
	"encoding/json"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

type Kind string

const (
	KindMedia Kind = "media"
	KindText  Kind = "text"
)

// Story represents an ephemeral story.
type Story struct {
	ID            string `json:"id"`
	Owner         int    `json:"owner"`
	Media         string `json:"media,omitempty"`
	Kind          Kind   `json:"kind"`
	Timestamp     int64  `json:"timestamp"`
	ExpiresAt     int64  `json:"expires_at"`
	Version       int64  `json:"version"`
	ViewCount     int    `json:"view_count"`
	ReactionCount int    `json:"reaction_count"`
	CommentCount  int    `json:"comment_count"`
	UserReaction  string `json:"user_reaction,omitempty"`
}

func (s *Story) EntityID() string {
	return s.ID
}

func (s *Story) EntityVersion() int64 {
	return s.Version
}

func (s *Story) SetEntityVersion(version int64) {
	s.Version = version
}

func (s *Story) CreatedAt() int64 {
	return s.Timestamp
}

func (s *Story) Clone() feed.Entity {
	clone := *s
	return &clone
}

func (s *Story) Apply(field string, value interface{}) {
	switch field {
	case "view_count":
		s.ViewCount = toInt(value)
	case "reaction_count":
		s.ReactionCount = toInt(value)
	case "comment_count":
		s.CommentCount = toInt(value)
	case "user_reaction":
		str, _ := value.(string)
		s.UserReaction = str
	}
}

// StoryGroup is one owner's ordered stories. Groups in an active collection
// are non-empty; a group emptied by deletions is dropped by its consumer.
type StoryGroup struct {
	Owner   int      `json:"owner"`
	Stories []*Story `json:"stories"`
}

// Decoder decodes a story created event for the merge engine.
func Decoder(event pubsub.Event) (feed.Entity, error) {
	story := &Story{}

	data, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(data, story)
	if err != nil {
		return nil, err
	}

	story.ID = event.ID
	story.Version = event.Version

	return story, nil
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}

	return 0
}
