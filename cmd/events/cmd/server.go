package cmd

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kennedyongogo/tuvibe/pkg/hub"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
	"github.com/kennedyongogo/tuvibe/pkg/redis"
)

var server = &cobra.Command{
	Use:   "server",
	Short: "runs the event push server",
	RunE:  runServer,
}

func runServer(*cobra.Command, []string) error {
	rdb := redis.NewRedis(config.Redis)

	queue := pubsub.NewQueue(rdb)
	events := queue.Subscribe(pubsub.PostTopic, pubsub.CommentTopic, pubsub.StoryTopic)

	h := hub.NewHub(events)
	go h.Run()

	router := mux.NewRouter()
	router.Path("/ws").HandlerFunc(h.ServeWS)
	router.Path("/metrics").Handler(promhttp.Handler())

	return http.ListenAndServe(fmt.Sprintf(":%d", config.API.Port), router)
}
