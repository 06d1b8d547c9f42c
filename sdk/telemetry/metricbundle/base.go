package metricbundle

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// MetricsClient es lo mínimo que un bundle necesita del cliente de telemetría.
//
// Registrar a través del cliente adjunta los atributos Common y Metric del
// contexto sin que este paquete dependa de telemetry.
type MetricsClient interface {
	// RecordCounter incrementa un contador con un valor específico.
	RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue)

	// RecordHistogram registra un valor en un histograma.
	RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue)
}

// BaseMetrics registra resultado y duración de una entidad bajo
// <namespace>.<entity>.result y <namespace>.<entity>.duration.
type BaseMetrics struct {
	client    MetricsClient
	entity    string
	namespace string
}

// NewBaseMetrics crea la base de un bundle.
//
// Parámetros:
//   - client: implementación de MetricsClient
//   - namespace: espacio de nombres (ej. "dwx")
//   - entity: entidad monitoreada (ej. "command", "response")
func NewBaseMetrics(client MetricsClient, namespace, entity string) *BaseMetrics {
	return &BaseMetrics{
		client:    client,
		entity:    entity,
		namespace: namespace,
	}
}

// RecordResult incrementa el contador de resultados.
//
// Atributos comunes a incluir:
//   - semconv.DWX.Status.String("success"/"error")
//   - semconv.DWX.ErrorCode.String(code)
func (bm *BaseMetrics) RecordResult(ctx context.Context, attrs ...attribute.KeyValue) {
	if bm == nil || bm.client == nil {
		return
	}
	bm.client.RecordCounter(ctx, MetricName(bm.namespace, bm.entity, "result"), 1, attrs...)
}

// StartDurationTimer retorna una función que registra los segundos transcurridos.
//
//	done := metrics.StartDurationTimer(ctx, semconv.DWX.Action.String("POS_OPEN"))
//	// ... operación ...
//	done()
func (bm *BaseMetrics) StartDurationTimer(ctx context.Context, attrs ...attribute.KeyValue) func() {
	start := time.Now()
	return func() {
		if bm == nil || bm.client == nil {
			return
		}
		duration := time.Since(start).Seconds()
		bm.client.RecordHistogram(ctx, MetricName(bm.namespace, bm.entity, "duration"), duration, attrs...)
	}
}

// MetricName genera <namespace>.<entity>.<metric_type>.
func MetricName(namespace, entity string, metricType string) string {
	return strings.Join([]string{namespace, entity, metricType}, ".")
}
