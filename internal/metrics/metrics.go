package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections counts open signaling connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kinstream_active_connections",
		Help: "Number of open signaling websocket connections.",
	})

	// ActiveRooms counts rooms with at least one member.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kinstream_active_rooms",
		Help: "Number of rooms with at least one member.",
	})

	// JoinsTotal counts successful join-room events.
	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinstream_joins_total",
		Help: "Total join-room events processed.",
	})

	// PeerSignalsTotal counts frames forwarded on the peer-setup channel.
	PeerSignalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinstream_peer_signals_total",
		Help: "Peer-setup frames forwarded, by signal type.",
	}, []string{"type"})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
