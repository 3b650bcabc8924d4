package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// WSConnections tracks live realtime connections.
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmingle_ws_connections",
			Help: "Number of open WebSocket connections",
		},
	)

	// MessagesBroadcast counts chat messages persisted and fanned out, per mood room.
	MessagesBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmingle_messages_broadcast_total",
			Help: "Chat messages persisted and broadcast",
		},
		[]string{"room"},
	)

	// RealtimeErrors counts error events sent back to sockets, per inbound event.
	RealtimeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmingle_realtime_errors_total",
			Help: "Error events returned to clients",
		},
		[]string{"event"},
	)

	HeartsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmingle_hearts_sent_total",
			Help: "Hearts upserted",
		},
	)

	// ChatRequests counts private chat handshake steps by outcome.
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmingle_chat_requests_total",
			Help: "Private chat requests by outcome",
		},
		[]string{"outcome"},
	)
)

// Middleware returns a gin middleware that collects Prometheus HTTP metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
