package metricbundle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Namespace de todas las métricas del bridge.
const Namespace = "dwx"

// BridgeMetrics bundle de métricas del bridge DWX.
//
// # Métricas de Comando
//
//   - dwx.command.result: comandos codificados (status success/error, error_code)
//   - dwx.command.duration: segundos entre codificar y escribir en el pipe
//   - dwx.command.advisories: advisories emitidos (advisory_code)
//
// # Métricas de Respuesta
//
//   - dwx.response.result: mensajes leídos del terminal
//   - dwx.response.applied: claves del tracker actualizadas (key)
//   - dwx.response.skipped: claves malformadas descartadas (key)
//   - dwx.response.terminal_error: respuestas _response=ERROR (error_code)
//
// # Uso
//
//	metrics := client.BridgeMetrics()
//	done := metrics.Command.StartDurationTimer(ctx, semconv.DWX.Action.String("POS_OPEN"))
//	defer done()
//	metrics.RecordAdvisory(ctx, semconv.DWX.AdvisoryCode.String("NO_STOP_LOSS"))
type BridgeMetrics struct {
	Command  *BaseMetrics
	Response *BaseMetrics

	// Counters
	Advisories     metric.Int64Counter
	KeysApplied    metric.Int64Counter
	KeysSkipped    metric.Int64Counter
	TerminalErrors metric.Int64Counter
}

// NewBridgeMetrics crea el bundle a partir de un meter.
// client puede ser nil: en ese caso result/duration no se registran.
func NewBridgeMetrics(meter metric.Meter, client MetricsClient) (*BridgeMetrics, error) {
	advisories, err := meter.Int64Counter(
		MetricName(Namespace, "command", "advisories"),
		metric.WithDescription("Advisories emitted while encoding commands"),
		metric.WithUnit("{advisory}"),
	)
	if err != nil {
		return nil, err
	}

	applied, err := meter.Int64Counter(
		MetricName(Namespace, "response", "applied"),
		metric.WithDescription("Tracker keys updated from terminal responses"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter(
		MetricName(Namespace, "response", "skipped"),
		metric.WithDescription("Malformed tracker keys ignored"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, err
	}

	terminalErrors, err := meter.Int64Counter(
		MetricName(Namespace, "response", "terminal_error"),
		metric.WithDescription("Error responses reported by the terminal"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	return &BridgeMetrics{
		Command:        NewBaseMetrics(client, Namespace, "command"),
		Response:       NewBaseMetrics(client, Namespace, "response"),
		Advisories:     advisories,
		KeysApplied:    applied,
		KeysSkipped:    skipped,
		TerminalErrors: terminalErrors,
	}, nil
}

// RecordAdvisory registra un advisory emitido.
func (m *BridgeMetrics) RecordAdvisory(ctx context.Context, attrs ...attribute.KeyValue) {
	m.Advisories.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordKeysApplied registra n claves actualizadas.
func (m *BridgeMetrics) RecordKeysApplied(ctx context.Context, n int, attrs ...attribute.KeyValue) {
	if n <= 0 {
		return
	}
	m.KeysApplied.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}

// RecordKeysSkipped registra n claves descartadas.
func (m *BridgeMetrics) RecordKeysSkipped(ctx context.Context, n int, attrs ...attribute.KeyValue) {
	if n <= 0 {
		return
	}
	m.KeysSkipped.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}

// RecordTerminalError registra una respuesta de error del terminal.
func (m *BridgeMetrics) RecordTerminalError(ctx context.Context, attrs ...attribute.KeyValue) {
	m.TerminalErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
}
