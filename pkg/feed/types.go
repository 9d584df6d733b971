// Package feed contains the feed entities, the ordered collection they live
// in, and the merge engine that reconciles local and remote mutations.
package feed

import "encoding/json"

// Entity is an item kept in an ordered Collection and mutated through its
// guarded write path.
type Entity interface {
	EntityID() string
	EntityVersion() int64
	SetEntityVersion(version int64)
	CreatedAt() int64
	Apply(field string, value interface{})

	// Clone returns a copy detached from the collection, safe to read
	// after the collection lock is released.
	Clone() Entity
}

// Post represents a feed post.
type Post struct {
	ID            string `json:"id"`
	Author        int    `json:"author"`
	Body          string `json:"body"`
	Media         string `json:"media,omitempty"`
	Timestamp     int64  `json:"timestamp"`
	Version       int64  `json:"version"`
	LikeCount     int    `json:"like_count"`
	ReactionCount int    `json:"reaction_count"`
	CommentCount  int    `json:"comment_count"`
	UserReaction  string `json:"user_reaction,omitempty"`
}

func (p *Post) EntityID() string {
	return p.ID
}

func (p *Post) EntityVersion() int64 {
	return p.Version
}

func (p *Post) SetEntityVersion(version int64) {
	p.Version = version
}

func (p *Post) CreatedAt() int64 {
	return p.Timestamp
}

func (p *Post) Clone() Entity {
	clone := *p
	return &clone
}

func (p *Post) Apply(field string, value interface{}) {
	switch field {
	case "body":
		p.Body = toString(value)
	case "media":
		p.Media = toString(value)
	case "like_count":
		p.LikeCount = toInt(value)
	case "reaction_count":
		p.ReactionCount = toInt(value)
	case "comment_count":
		p.CommentCount = toInt(value)
	case "user_reaction":
		p.UserReaction = toString(value)
	}
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string `json:"id"`
	Post      string `json:"post"`
	Author    int    `json:"author"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
	Version   int64  `json:"version"`
	LikeCount int    `json:"like_count"`
}

func (c *Comment) EntityID() string {
	return c.ID
}

func (c *Comment) EntityVersion() int64 {
	return c.Version
}

func (c *Comment) SetEntityVersion(version int64) {
	c.Version = version
}

func (c *Comment) CreatedAt() int64 {
	return c.Timestamp
}

func (c *Comment) Clone() Entity {
	clone := *c
	return &clone
}

func (c *Comment) Apply(field string, value interface{}) {
	switch field {
	case "body":
		c.Body = toString(value)
	case "like_count":
		c.LikeCount = toInt(value)
	}
}

// Counts are the authoritative aggregates returned with a mutation response.
type Counts struct {
	Likes     int `json:"likes"`
	Reactions int `json:"reactions"`
	Comments  int `json:"comments"`
}

// ReactionResult is the canonical outcome of a like or reaction request.
type ReactionResult struct {
	Counts       Counts `json:"counts"`
	UserReaction string `json:"user_reaction,omitempty"`
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

func toString(value interface{}) string {
	str, _ := value.(string)
	return str
}

func decodeInto(payload map[string]interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}
