package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Plan outcomes per chain
	transferPlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "transfer",
			Name:      "plans_total",
			Help:      "Total number of transfer plans by outcome",
		},
		[]string{"chain", "outcome"}, // built, empty, failed
	)

	transferExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abw",
			Subsystem: "transfer",
			Name:      "executions_total",
			Help:      "Total number of signed and submitted transfer plans",
		},
		[]string{"chain", "status"}, // success, error
	)

	transferExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "abw",
			Subsystem: "transfer",
			Name:      "execution_duration_seconds",
			Help:      "Time taken to assemble, sign and execute a plan",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	transferLastExecutionTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "abw",
			Subsystem: "transfer",
			Name:      "last_execution_timestamp",
			Help:      "Timestamp of last successful execution",
		},
		[]string{"chain"},
	)
)

// TransferMetrics records transfer plan and execution outcomes
type TransferMetrics struct{}

func NewTransferMetrics() *TransferMetrics {
	return &TransferMetrics{}
}

// RecordPlan records a plan outcome for a chain
func (tm *TransferMetrics) RecordPlan(chain, outcome string) {
	transferPlansTotal.WithLabelValues(chain, outcome).Inc()
}

// RecordExecution records an execution attempt with its duration
func (tm *TransferMetrics) RecordExecution(chain string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	transferExecutionsTotal.WithLabelValues(chain, status).Inc()
	transferExecutionDuration.WithLabelValues(chain).Observe(duration.Seconds())
	if success {
		transferLastExecutionTimestamp.WithLabelValues(chain).Set(float64(time.Now().Unix()))
	}
}
