package internal

import (
	"context"
	"fmt"

	"github.com/xKoRx/echo-dwx/sdk/telemetry"
)

// initTelemetry inicializa el cliente de telemetría desde Config.
//
// Sin endpoint OTLP sólo quedan los logs: métricas y trazas usan no-op.
func initTelemetry(ctx context.Context, config *Config, extra ...telemetry.Option) (*telemetry.Client, error) {
	opts := []telemetry.Option{
		telemetry.WithVersion(config.ServiceVersion),
		telemetry.WithLogLevel(telemetry.ParseLogLevel(config.LogLevel)),
		telemetry.WithGRPCKeepalive(config.KeepAliveTime, config.KeepAliveTimeout),
	}

	if config.OTLPEndpoint != "" {
		opts = append(opts, telemetry.WithOTLPEndpoint(config.OTLPEndpoint))
		if config.MetricsEndpoint != "" {
			opts = append(opts, telemetry.WithMetricsEndpoint(config.MetricsEndpoint))
		}
	} else {
		opts = append(opts, telemetry.WithMetricsDisabled(), telemetry.WithTracesDisabled())
	}
	opts = append(opts, extra...)

	client, err := telemetry.New(ctx, config.ServiceName, config.Environment, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	return client, nil
}
