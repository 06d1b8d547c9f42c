package internal

import (
	"context"
	"time"

	"github.com/xKoRx/echo-dwx/sdk/telemetry"
	"github.com/xKoRx/echo-dwx/sdk/telemetry/semconv"
)

// RunHeartbeat envía HEARTBEAT cada interval hasta que ctx se cancela.
// interval <= 0 retorna de inmediato. Un envío fallido se registra y no
// detiene el loop (Send ya lo registra en logs y métricas).
func (c *Connector) RunHeartbeat(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ctx = telemetry.AppendCommonAttrs(ctx, semconv.DWX.Component.String("heartbeat"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = c.Heartbeat(ctx, nil)
		}
	}
}
