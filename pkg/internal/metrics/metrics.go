package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	CascadeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "cascade_failures_total",
			Help:      "Cascading deletions that failed, by root kind and stage.",
		},
		[]string{"root", "stage"},
	)
	CleanupPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "cleanup_purged_rows_total",
			Help:      "Soft deleted rows purged by the cleaner.",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CascadeFailures)
	prometheus.MustRegister(CleanupPurged)
}

func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// Label values outlive the request, fasthttp reuses the buffers behind them
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
