package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/kennedyongogo/tuvibe/pkg/channel"
	"github.com/kennedyongogo/tuvibe/pkg/client"
	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/guard"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

var run = &cobra.Command{
	Use:   "run",
	Short: "runs the headless feed client",
	RunE:  runClient,
}

// runClient wires the client core end to end: the HTTP API feeds the
// controller, the push channel feeds the merge engine, and the supervisor
// falls back to polling the API when the channel stays down.
func runClient(*cobra.Command, []string) error {
	api := client.NewClient(config.API.URL, config.API.User)

	g := guard.NewGuard(guard.DefaultWindow)
	posts := feed.NewCollection()

	controller := feed.NewController(posts, g, api)

	err := controller.Refresh(context.Background())
	if err != nil {
		return err
	}

	engine := feed.NewEngine(g)
	engine.Attach(pubsub.PostTopic, posts, feed.PostDecoder)

	supervisor := channel.NewSupervisor(channel.NewConfig(config.Channel, func(event pubsub.Event) {
		err := engine.Apply(event)
		if err != nil {
			log.Printf("apply err: %v", err)
		}
	}, controller.Refresh))

	supervisor.Run()

	<-supervisor.Done()

	return nil
}
