package cmd

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
	httputil "github.com/kennedyongogo/tuvibe/pkg/http"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
	"github.com/kennedyongogo/tuvibe/pkg/redis"
	"github.com/kennedyongogo/tuvibe/pkg/sql"
	"github.com/kennedyongogo/tuvibe/pkg/stories"
)

var server = &cobra.Command{
	Use:   "server",
	Short: "runs the feed api",
	RunE:  runServer,
}

func runServer(*cobra.Command, []string) error {
	rdb := redis.NewRedis(config.Redis)

	db, err := sql.Open(config.DB)
	if err != nil {
		return errors.Wrap(err, "failed to open db")
	}

	queue := pubsub.NewQueue(rdb)

	router := mux.NewRouter()

	router.PathPrefix("/v1/feed").Handler(
		http.StripPrefix("/v1/feed", feed.NewEndpoint(feed.NewBackend(db), queue).Router()),
	)

	router.PathPrefix("/v1/stories").Handler(
		http.StripPrefix("/v1/stories", stories.NewEndpoint(stories.NewBackend(db), queue).Router()),
	)

	router.Path("/metrics").Handler(promhttp.Handler())

	return http.ListenAndServe(fmt.Sprintf(":%d", config.API.Port), httputil.CORS(router))
}
