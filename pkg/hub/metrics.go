package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var clientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "tuvibe_hub_clients_connected",
	Help: "Number of websocket clients currently connected.",
})

var eventsFanned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tuvibe_hub_events_fanned_total",
	Help: "Total events delivered to client send queues.",
})
