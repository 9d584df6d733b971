package cmd

import (
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
	"github.com/kennedyongogo/tuvibe/pkg/redis"
	"github.com/kennedyongogo/tuvibe/pkg/sql"
	"github.com/kennedyongogo/tuvibe/pkg/stories"
)

var sweep = &cobra.Command{
	Use:   "sweep",
	Short: "deletes expired stories",
	RunE:  runSweep,
}

func runSweep(*cobra.Command, []string) error {
	rdb := redis.NewRedis(config.Redis)

	db, err := sql.Open(config.DB)
	if err != nil {
		return errors.Wrap(err, "failed to open db")
	}

	backend := stories.NewBackend(db)
	queue := pubsub.NewQueue(rdb)

	ids, err := backend.DeleteExpired(time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, "failed to delete expired stories")
	}

	for _, id := range ids {
		err := queue.Publish(pubsub.StoryTopic, pubsub.NewDeletedEvent(pubsub.StoryTopic, id))
		if err != nil {
			log.Printf("queue.Publish err: %v", err)
		}
	}

	log.Printf("deleted %d expired stories", len(ids))

	return nil
}
