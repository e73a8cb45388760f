package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Channel connection metrics
	ActiveConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "register_live_connections_active",
		Help: "The current number of active channel connections, by classification.",
	}, []string{"class"})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "register_live_connections_total",
		Help: "The total number of channel connections admitted.",
	})
	AdmissionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "register_live_admission_rejections_total",
		Help: "The total number of refused channel handshakes, by reason.",
	}, []string{"reason"})

	// Broadcast metrics
	BroadcastsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "register_live_broadcasts_total",
		Help: "The total number of events fanned out to rooms, by event.",
	}, []string{"event"})

	// Game metrics
	MatchesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "register_live_matches_swept_total",
		Help: "The total number of abandoned matches reclaimed.",
	})
)
