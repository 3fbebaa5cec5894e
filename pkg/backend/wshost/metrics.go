package wshost

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics namespace/subsystem follow the teacher's own Prometheus
// middleware convention (pkg/middleware/metrics.go): "<namespace>_<name>"
// with no subsystem, registered against the default registerer via
// promauto so a single import wires a process up for /metrics scraping.
var (
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "filament",
		Name:      "wshost_active_connections",
		Help:      "Number of currently connected live pages.",
	})

	framesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "filament",
		Name:      "wshost_frames_sent_total",
		Help:      "Total number of patch-batch frames sent to clients.",
	})

	bytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "filament",
		Name:      "wshost_bytes_sent_total",
		Help:      "Total number of bytes sent to clients across all connections.",
	})

	writeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "filament",
		Name:      "wshost_write_errors_total",
		Help:      "Total number of WebSocket write failures.",
	})
)
