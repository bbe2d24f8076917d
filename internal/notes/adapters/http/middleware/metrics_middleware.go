package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal считает запросы по методу, шаблону маршрута и статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notes",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration - длительность обработки запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notes",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// ActiveRequests - число запросов в обработке.
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "notes",
			Name:      "http_active_requests",
			Help:      "Current number of active HTTP requests",
		},
	)

	// RateLimitedTotal считает запросы, отклоненные ограничителем частоты.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notes",
			Name:      "http_rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// NewMetricsMiddleware собирает метрики Prometheus для каждого запроса.
// Путь берется из шаблона маршрута, чтобы идентификаторы не попадали в метки.
func NewMetricsMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		err := ctx.Next()

		method := ctx.Method()
		path := ctx.Route().Path

		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(ctx.Response().StatusCode())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
