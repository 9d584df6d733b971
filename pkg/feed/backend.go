package feed

import (
	"database/sql"

	"github.com/lib/pq"
)

type Backend struct {
	db *sql.DB
}

func NewBackend(db *sql.DB) *Backend {
	return &Backend{db}
}

// GetPosts returns posts most recent first, with the viewer's own reaction.
func (b *Backend) GetPosts(viewer, limit, offset int) ([]*Post, error) {
	stmt, err := b.db.Prepare(
		"SELECT p.id, p.author, p.body, p.media, p.timestamp, p.version, p.like_count, p.reaction_count, p.comment_count, " +
			"(SELECT COALESCE(MAX(emoji), '') FROM post_reactions WHERE post_id = p.id AND user_id = $1) " +
			"FROM posts p ORDER BY p.timestamp DESC LIMIT $2 OFFSET $3;",
	)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(viewer, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*Post, 0)

	for rows.Next() {
		post := &Post{}

		err := rows.Scan(
			&post.ID, &post.Author, &post.Body, &post.Media, &post.Timestamp,
			&post.Version, &post.LikeCount, &post.ReactionCount, &post.CommentCount,
			&post.UserReaction,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, post)
	}

	return result, nil
}

func (b *Backend) AddPost(post *Post) error {
	stmt, err := b.db.Prepare("INSERT INTO posts (id, author, body, media, timestamp, version) VALUES ($1, $2, $3, $4, $5, 1);")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(post.ID, post.Author, post.Body, post.Media, post.Timestamp)
	return err
}

func (b *Backend) DeletePost(post string, author int) error {
	stmt, err := b.db.Prepare("DELETE FROM posts WHERE id = $1 AND author = $2;")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(post, author)
	return err
}

// ToggleLike flips a user's like and returns the canonical counts. The
// returned result carries the user's reaction after the toggle.
func (b *Backend) ToggleLike(post string, user int) (*ReactionResult, int64, error) {
	stmt, err := b.db.Prepare("DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2;")
	if err != nil {
		return nil, 0, err
	}

	res, err := stmt.Exec(post, user)
	if err != nil {
		return nil, 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return nil, 0, err
	}

	reaction := ""
	if removed == 0 {
		stmt, err = b.db.Prepare("INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2);")
		if err != nil {
			return nil, 0, err
		}

		_, err = stmt.Exec(post, user)
		if err != nil {
			return nil, 0, err
		}

		reaction = UserReactionLike
	}

	result, version, err := b.refreshCounts(post)
	if err != nil {
		return nil, 0, err
	}

	result.UserReaction = reaction

	return result, version, nil
}

// AddReactions stores a batch of emoji reactions in submission order.
func (b *Backend) AddReactions(post string, user int, emojis []string) (*ReactionResult, int64, error) {
	stmt, err := b.db.Prepare("INSERT INTO post_reactions (post_id, user_id, emoji) SELECT $1, $2, unnest($3::text[]);")
	if err != nil {
		return nil, 0, err
	}

	_, err = stmt.Exec(post, user, pq.Array(emojis))
	if err != nil {
		return nil, 0, err
	}

	result, version, err := b.refreshCounts(post)
	if err != nil {
		return nil, 0, err
	}

	if len(emojis) > 0 {
		result.UserReaction = emojis[len(emojis)-1]
	}

	return result, version, nil
}

func (b *Backend) AddComment(comment *Comment) (*ReactionResult, int64, error) {
	stmt, err := b.db.Prepare("INSERT INTO comments (id, post_id, author, body, timestamp, version) VALUES ($1, $2, $3, $4, $5, 1);")
	if err != nil {
		return nil, 0, err
	}

	_, err = stmt.Exec(comment.ID, comment.Post, comment.Author, comment.Body, comment.Timestamp)
	if err != nil {
		return nil, 0, err
	}

	return b.refreshCounts(comment.Post)
}

func (b *Backend) GetComments(post string, limit, offset int) ([]*Comment, error) {
	stmt, err := b.db.Prepare(
		"SELECT id, post_id, author, body, timestamp, version, like_count FROM comments WHERE post_id = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3;",
	)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(post, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*Comment, 0)

	for rows.Next() {
		comment := &Comment{}

		err := rows.Scan(
			&comment.ID, &comment.Post, &comment.Author, &comment.Body,
			&comment.Timestamp, &comment.Version, &comment.LikeCount,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, comment)
	}

	return result, nil
}

// refreshCounts recomputes the post aggregates and bumps its version.
func (b *Backend) refreshCounts(post string) (*ReactionResult, int64, error) {
	stmt, err := b.db.Prepare(
		"UPDATE posts SET " +
			"like_count = (SELECT COUNT(*) FROM post_likes WHERE post_id = $1), " +
			"reaction_count = (SELECT COUNT(*) FROM post_reactions WHERE post_id = $1), " +
			"comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1), " +
			"version = version + 1 " +
			"WHERE id = $1 RETURNING like_count, reaction_count, comment_count, version;",
	)
	if err != nil {
		return nil, 0, err
	}

	result := &ReactionResult{}

	var version int64

	err = stmt.QueryRow(post).Scan(&result.Counts.Likes, &result.Counts.Reactions, &result.Counts.Comments, &version)
	if err != nil {
		return nil, 0, err
	}

	return result, version, nil
}
