package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of gateway API calls",
		},
		[]string{"method", "status"}, // success, error
	)

	gatewayRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "gateway",
			Name:      "retries_total",
			Help:      "Total number of retried gateway API calls",
		},
	)

	gatewayBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "abw",
			Subsystem: "gateway",
			Name:      "breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// GatewayMetrics records gateway client activity
type GatewayMetrics struct{}

func NewGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{}
}

func (gm *GatewayMetrics) RecordRequest(method string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	gatewayRequestsTotal.WithLabelValues(method, status).Inc()
}

func (gm *GatewayMetrics) RecordRetry() {
	gatewayRetriesTotal.Inc()
}

func (gm *GatewayMetrics) SetBreakerState(state int) {
	gatewayBreakerState.Set(float64(state))
}
