package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the HTTP layer, the
// lifecycle engine and the realtime hub.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	wsConnectedClients  prometheus.Gauge
	broadcastsTotal     *prometheus.CounterVec
	batchActionsTotal   *prometheus.CounterVec
	timerSweepFailures  prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sgmi_backend",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sgmi_backend",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		wsConnectedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "sgmi_backend",
				Name:      "ws_connected_clients",
				Help:      "Current number of live websocket connections.",
			},
		),
		broadcastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sgmi_backend",
				Name:      "ws_broadcasts_total",
				Help:      "Total number of websocket broadcasts by event type.",
			},
			[]string{"event"},
		),
		batchActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sgmi_backend",
				Name:      "batch_actions_total",
				Help:      "Total number of batch lifecycle actions by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		timerSweepFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sgmi_backend",
				Name:      "timer_sweep_failures_total",
				Help:      "Total number of timer-push sweep cycles skipped due to read failures.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.wsConnectedClients,
		m.broadcastsTotal,
		m.batchActionsTotal,
		m.timerSweepFailures,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) SetConnectedClients(n int) {
	if m == nil {
		return
	}
	m.wsConnectedClients.Set(float64(n))
}

func (m *Metrics) IncBroadcast(event string) {
	if m == nil {
		return
	}
	label := strings.TrimSpace(event)
	if label == "" {
		label = "unknown"
	}
	m.broadcastsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) IncBatchAction(action string, outcome string) {
	if m == nil {
		return
	}
	m.batchActionsTotal.WithLabelValues(strings.ToLower(action), strings.ToLower(outcome)).Inc()
}

func (m *Metrics) IncTimerSweepFailure() {
	if m == nil {
		return
	}
	m.timerSweepFailures.Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
		return route.Path
	}
	return c.Path()
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return e.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
