// Package metricbundle agrupa las métricas del bridge DWX en bundles tipados.
//
// Convención de nombres: <namespace>.<entity>.<metric_type>, por ejemplo
// dwx.command.result o dwx.response.applied.
//
// Los bundles no importan telemetry: reciben un metric.Meter y, para
// result/duration, cualquier MetricsClient (telemetry.Client lo implementa).
package metricbundle
