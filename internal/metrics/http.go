package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "server",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "abw",
			Subsystem: "server",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "server",
			Name:      "http_errors_total",
			Help:      "Total number of HTTP responses with status >= 500",
		},
		[]string{"method", "route", "status"},
	)
)

// HTTPMiddleware records request count, latency and server errors per route.
// Handler errors are rendered here so the recorded status is the one sent.
func HTTPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			route := routeLabel(c.Path())
			code := c.Response().Status
			status := strconv.Itoa(code)

			httpRequestsTotal.WithLabelValues(method, route, status).Inc()
			httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			if code >= 500 {
				httpErrorsTotal.WithLabelValues(method, route, status).Inc()
			}

			return nil
		}
	}
}

// routeLabel uses the registered route pattern ("/v1/:chain/plan") so path
// parameters do not blow up label cardinality.
func routeLabel(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}
