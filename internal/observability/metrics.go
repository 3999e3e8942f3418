package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupride"

var (
	RidesCreated      = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_created_total", Help: "Rides created"})
	RideJoins         = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "ride_joins_total", Help: "New ride memberships"})
	RidesEnded        = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_ended_total", Help: "Rides ended"})
	PositionsRecorded = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "positions_recorded_total", Help: "Position samples stored"})
	GuestRidesTracked = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "guest_rides_tracked_total", Help: "Guest rides counted"})
	GuestCooldowns    = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "guest_cooldowns_total", Help: "Guest records that entered cooldown"})
	VoiceTokensIssued = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "voice_tokens_issued_total", Help: "Voice access tokens issued"})

	SideChannelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "side_channel_failures_total", Help: "Best-effort publishes that failed"},
		[]string{"channel"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
