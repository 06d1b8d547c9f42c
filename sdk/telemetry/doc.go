// Package telemetry proporciona observabilidad para echo-dwx mediante los tres pilares:
//
// 1. Logs: slog JSON (stdout por defecto)
// 2. Métricas: OpenTelemetry exportadas vía OTLP gRPC
// 3. Trazas: OpenTelemetry exportadas vía OTLP gRPC
//
// Uso básico:
//
//	client, err := telemetry.New(ctx, "echo-dwx-agent", "production",
//	    telemetry.WithOTLPEndpoint("otel-collector:4317"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Shutdown(ctx)
//
//	ctx = telemetry.AppendCommonAttrs(ctx, semconv.DWX.Component.String("connector"))
//	client.Info(ctx, "Command sent", semconv.DWX.Action.String("POS_OPEN"))
//
// Los atributos del contexto (AppendCommonAttrs, AppendEventAttrs,
// AppendMetricAttrs) se agregan automáticamente a logs, spans y métricas.
// Un pilar deshabilitado cae en un provider no-op.
package telemetry
