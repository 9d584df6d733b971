package feed

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/kennedyongogo/tuvibe/pkg/guard"
)

var (
	// ErrPostNotFound is returned when a mutation targets an unknown post.
	ErrPostNotFound = errors.New("post not found")
)

// API is the backend contract the controller mutates through.
type API interface {
	Like(ctx context.Context, post string) (*ReactionResult, error)
	React(ctx context.Context, post, emoji string) (*ReactionResult, error)
	ReactBatch(ctx context.Context, post string, emojis []string) (*ReactionResult, error)
	Comment(ctx context.Context, post, body string) (*Comment, error)
	Feed(ctx context.Context) ([]*Post, error)
}

// UserReactionLike is the single-tap reaction.
const UserReactionLike = "like"

// Controller owns the viewer-side feed state. User actions are applied
// optimistically, guard-marked, then confirmed or rolled back when the API
// responds. A response arriving after Close is discarded.
type Controller struct {
	mu sync.Mutex

	posts *Collection
	guard *guard.Guard
	api   API

	closed bool
}

func NewController(posts *Collection, g *guard.Guard, api API) *Controller {
	return &Controller{
		posts: posts,
		guard: g,
		api:   api,
	}
}

// Posts returns copies of the ordered posts, so callers never read a post
// the merge engine is writing.
func (c *Controller) Posts() []*Post {
	entities := c.posts.Snapshots()

	posts := make([]*Post, 0, len(entities))
	for _, entity := range entities {
		post, ok := entity.(*Post)
		if !ok {
			continue
		}

		posts = append(posts, post)
	}

	return posts
}

// Post returns a copy of the post with the given id.
func (c *Controller) Post(id string) (Post, bool) {
	post, ok := c.post(id)
	if !ok {
		return Post{}, false
	}

	return *post, true
}

// ToggleLike flips the viewer's like on a post, optimistically.
func (c *Controller) ToggleLike(ctx context.Context, id string) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return nil
	}

	post, ok := c.post(id)
	if !ok {
		c.mu.Unlock()
		return ErrPostNotFound
	}

	prev := map[string]interface{}{
		"user_reaction": post.UserReaction,
		"like_count":    post.LikeCount,
	}

	next := map[string]interface{}{
		"user_reaction": UserReactionLike,
		"like_count":    post.LikeCount + 1,
	}

	if post.UserReaction == UserReactionLike {
		next["user_reaction"] = ""
		next["like_count"] = post.LikeCount - 1
	}

	c.applyLocal(id, next, "user_reaction", "like_count")
	c.mu.Unlock()

	result, err := c.api.Like(ctx, id)

	return c.settle(id, prev, result, err, "user_reaction", "like_count")
}

// React sets the viewer's emoji reaction on a post, optimistically.
func (c *Controller) React(ctx context.Context, id, emoji string) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return nil
	}

	post, ok := c.post(id)
	if !ok {
		c.mu.Unlock()
		return ErrPostNotFound
	}

	prev := map[string]interface{}{
		"user_reaction":  post.UserReaction,
		"reaction_count": post.ReactionCount,
	}

	next := map[string]interface{}{
		"user_reaction":  emoji,
		"reaction_count": post.ReactionCount,
	}

	if post.UserReaction == "" {
		next["reaction_count"] = post.ReactionCount + 1
	}

	c.applyLocal(id, next, "user_reaction", "reaction_count")
	c.mu.Unlock()

	result, err := c.api.React(ctx, id, emoji)

	return c.settle(id, prev, result, err, "user_reaction", "reaction_count")
}

// AddComment posts a comment, bumping the count optimistically. The comment
// entity itself arrives through the push channel.
func (c *Controller) AddComment(ctx context.Context, id, body string) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return nil
	}

	post, ok := c.post(id)
	if !ok {
		c.mu.Unlock()
		return ErrPostNotFound
	}

	prev := map[string]interface{}{"comment_count": post.CommentCount}

	c.applyLocal(id, map[string]interface{}{"comment_count": post.CommentCount + 1}, "comment_count")
	c.mu.Unlock()

	_, err := c.api.Comment(ctx, id, body)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if err != nil {
		c.posts.Update(id, prev, nil)
		c.guard.ForgetField(id, "comment_count")
		return pkgerrors.Wrap(err, "comment failed")
	}

	return nil
}

// Refresh replaces feed state with a full snapshot, respecting active guards.
// Used on initial load and explicit user refresh only.
func (c *Controller) Refresh(ctx context.Context) error {
	posts, err := c.api.Feed(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "fetch feed failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.reconcile(posts)

	return nil
}

// Close marks the controller dead. In-flight responses arriving afterwards
// no longer touch state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

func (c *Controller) post(id string) (*Post, bool) {
	entity, ok := c.posts.Snapshot(id)
	if !ok {
		return nil, false
	}

	post, ok := entity.(*Post)
	return post, ok
}

func (c *Controller) applyLocal(id string, fields map[string]interface{}, guarded ...string) {
	for _, field := range guarded {
		c.guard.MarkField(id, field)
	}

	c.posts.Update(id, fields, nil)
}

// settle finishes an optimistic mutation once its response arrives: rollback
// on failure, canonical overwrite plus a fresh guard window on success.
func (c *Controller) settle(id string, prev map[string]interface{}, result *ReactionResult, err error, guarded ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if err != nil {
		c.posts.Update(id, prev, nil)

		for _, field := range guarded {
			c.guard.ForgetField(id, field)
		}

		return pkgerrors.Wrap(err, "mutation failed")
	}

	canonical := map[string]interface{}{
		"like_count":     result.Counts.Likes,
		"reaction_count": result.Counts.Reactions,
		"comment_count":  result.Counts.Comments,
		"user_reaction":  result.UserReaction,
	}

	c.applyLocal(id, canonical, guarded...)

	return nil
}

// reconcile merges a snapshot into the collection through the guarded path:
// new posts are inserted, known posts updated field by field, and posts
// missing from the snapshot removed unless a guard still protects them.
func (c *Controller) reconcile(posts []*Post) {
	seen := make(map[string]bool)

	for _, post := range posts {
		seen[post.ID] = true

		current, ok := c.posts.Version(post.ID)
		if !ok {
			c.posts.Insert(post)
			continue
		}

		if post.Version != 0 && post.Version <= current {
			continue
		}

		id := post.ID
		c.posts.Update(id, post.fields(), func(field string) bool {
			return c.guard.ShouldAcceptField(id, field)
		})

		if post.Version != 0 {
			c.posts.SetVersion(id, post.Version)
		}
	}

	for _, id := range c.posts.IDs() {
		if seen[id] {
			continue
		}

		if !c.guard.ShouldAcceptRemote(id) {
			continue
		}

		c.posts.Remove(id)
	}
}

func (p *Post) fields() map[string]interface{} {
	return map[string]interface{}{
		"body":           p.Body,
		"media":          p.Media,
		"like_count":     p.LikeCount,
		"reaction_count": p.ReactionCount,
		"comment_count":  p.CommentCount,
		"user_reaction":  p.UserReaction,
	}
}
