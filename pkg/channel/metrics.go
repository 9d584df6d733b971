package channel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuvibe_channel_events_received_total",
		Help: "Events received over the push channel.",
	})

	framesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuvibe_channel_frames_dropped_total",
		Help: "Frames dropped because they failed to decode.",
	})

	reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuvibe_channel_reconnects_total",
		Help: "Reconnection attempts after the channel dropped.",
	})
)
