package stories

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
)

type Backend struct {
	db *sql.DB
}

func NewBackend(db *sql.DB) *Backend {
	return &Backend{db}
}

// GetGroups returns unexpired stories grouped per owner, oldest first within
// a group (server order = insertion order).
func (b *Backend) GetGroups(viewer int, time int64) ([]*StoryGroup, error) {
	stmt, err := b.db.Prepare(
		"SELECT s.id, s.owner, s.media, s.kind, s.timestamp, s.expires_at, s.version, s.view_count, s.reaction_count, s.comment_count, " +
			"(SELECT COALESCE(MAX(emoji), '') FROM story_reactions WHERE story_id = s.id AND user_id = $1) " +
			"FROM stories s WHERE s.expires_at >= $2 ORDER BY s.owner, s.timestamp;",
	)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(viewer, time)
	if err != nil {
		return nil, err
	}

	result := make([]*StoryGroup, 0)

	var group *StoryGroup

	for rows.Next() {
		story := &Story{}

		err := rows.Scan(
			&story.ID, &story.Owner, &story.Media, &story.Kind, &story.Timestamp,
			&story.ExpiresAt, &story.Version, &story.ViewCount, &story.ReactionCount,
			&story.CommentCount, &story.UserReaction,
		)
		if err != nil {
			return nil, err
		}

		if group == nil || group.Owner != story.Owner {
			group = &StoryGroup{Owner: story.Owner, Stories: make([]*Story, 0)}
			result = append(result, group)
		}

		group.Stories = append(group.Stories, story)
	}

	return result, nil
}

func (b *Backend) AddStory(story *Story) error {
	stmt, err := b.db.Prepare("INSERT INTO stories (id, owner, media, kind, timestamp, expires_at, version) VALUES ($1, $2, $3, $4, $5, $6, 1);")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(story.ID, story.Owner, story.Media, story.Kind, story.Timestamp, story.ExpiresAt)
	return err
}

func (b *Backend) DeleteStory(story string, owner int) error {
	stmt, err := b.db.Prepare("DELETE FROM stories WHERE id = $1 AND owner = $2;")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(story, owner)
	return err
}

// DeleteExpired deletes all stories where the expire_at time has passed and
// returns their IDs.
func (b *Backend) DeleteExpired(time int64) ([]string, error) {
	stmt, err := b.db.Prepare("DELETE FROM stories WHERE expires_at <= $1 RETURNING id;")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(time)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0)

	for rows.Next() {
		var id string

		err := rows.Scan(&id)
		if err != nil {
			continue
		}

		result = append(result, id)
	}

	return result, nil
}

// MarkViewed records a view once per user and returns the new count.
func (b *Backend) MarkViewed(story string, user int) (int, int64, error) {
	stmt, err := b.db.Prepare("INSERT INTO story_views (story_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;")
	if err != nil {
		return 0, 0, err
	}

	_, err = stmt.Exec(story, user)
	if err != nil {
		return 0, 0, err
	}

	stmt, err = b.db.Prepare(
		"UPDATE stories SET view_count = (SELECT COUNT(*) FROM story_views WHERE story_id = $1), version = version + 1 " +
			"WHERE id = $1 RETURNING view_count, version;",
	)
	if err != nil {
		return 0, 0, err
	}

	var views int
	var version int64

	err = stmt.QueryRow(story).Scan(&views, &version)
	if err != nil {
		return 0, 0, err
	}

	return views, version, nil
}

// AddReactions stores a batch of emoji reactions on a story.
func (b *Backend) AddReactions(story string, user int, emojis []string) (*feed.ReactionResult, int64, error) {
	stmt, err := b.db.Prepare("INSERT INTO story_reactions (story_id, user_id, emoji) SELECT $1, $2, unnest($3::text[]);")
	if err != nil {
		return nil, 0, err
	}

	_, err = stmt.Exec(story, user, pq.Array(emojis))
	if err != nil {
		return nil, 0, err
	}

	stmt, err = b.db.Prepare(
		"UPDATE stories SET reaction_count = (SELECT COUNT(*) FROM story_reactions WHERE story_id = $1), version = version + 1 " +
			"WHERE id = $1 RETURNING reaction_count, comment_count, version;",
	)
	if err != nil {
		return nil, 0, err
	}

	result := &feed.ReactionResult{}

	var version int64

	err = stmt.QueryRow(story).Scan(&result.Counts.Reactions, &result.Counts.Comments, &version)
	if err != nil {
		return nil, 0, err
	}

	if len(emojis) > 0 {
		result.UserReaction = emojis[len(emojis)-1]
	}

	return result, version, nil
}
