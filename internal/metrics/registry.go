package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const (
	ServiceHTTP     = "http"
	ServiceTransfer = "transfer"
	ServiceGateway  = "gateway"
)

// RegisterMetrics registers metrics for the specified services
func RegisterMetrics(reg prometheus.Registerer, services []string, logger logrus.FieldLogger) {
	// Always register Go and process metrics
	registerIfNotExists(reg, collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(reg, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	for _, service := range services {
		switch service {
		case ServiceHTTP:
			registerHTTPMetrics(reg, logger)
		case ServiceTransfer:
			registerTransferMetrics(reg, logger)
		case ServiceGateway:
			registerGatewayMetrics(reg, logger)
		default:
			logger.Warnf("Unknown service type for metrics registration: %s", service)
		}
	}
}

// registerIfNotExists registers a collector if it's not already registered
func registerIfNotExists(reg prometheus.Registerer, collector prometheus.Collector, name string, logger logrus.FieldLogger) {
	if err := reg.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			// This is expected on restart/reload - just debug log
			logger.Debugf("%s already registered", name)
		} else {
			logger.Errorf("Failed to register %s: %v", name, err)
		}
	}
}

func registerHTTPMetrics(reg prometheus.Registerer, logger logrus.FieldLogger) {
	registerIfNotExists(reg, httpRequestsTotal, "http_requests_total", logger)
	registerIfNotExists(reg, httpRequestDuration, "http_request_duration", logger)
	registerIfNotExists(reg, httpErrorsTotal, "http_errors_total", logger)
}

func registerTransferMetrics(reg prometheus.Registerer, logger logrus.FieldLogger) {
	registerIfNotExists(reg, transferPlansTotal, "transfer_plans_total", logger)
	registerIfNotExists(reg, transferExecutionsTotal, "transfer_executions_total", logger)
	registerIfNotExists(reg, transferExecutionDuration, "transfer_execution_duration", logger)
	registerIfNotExists(reg, transferLastExecutionTimestamp, "transfer_last_execution_timestamp", logger)
}

func registerGatewayMetrics(reg prometheus.Registerer, logger logrus.FieldLogger) {
	registerIfNotExists(reg, gatewayRequestsTotal, "gateway_requests_total", logger)
	registerIfNotExists(reg, gatewayRetriesTotal, "gateway_retries_total", logger)
	registerIfNotExists(reg, gatewayBreakerState, "gateway_breaker_state", logger)
}
