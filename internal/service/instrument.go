// instrument.go — Prometheus-метрики длительности операций сервисного слоя.
package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serviceOperationDuration — гистограмма длительности операций сервисного слоя.
var serviceOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lm_service_operation_duration_seconds",
		Help:    "Длительность операций сервисного слоя Library Module в секундах",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// observe записывает длительность операции с момента start.
// Используется через defer в начале каждой публичной операции.
func observe(operation string, start time.Time) {
	serviceOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
