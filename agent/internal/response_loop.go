package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/ipc"
	"github.com/xKoRx/echo-dwx/sdk/telemetry"
	"github.com/xKoRx/echo-dwx/sdk/telemetry/semconv"
	"github.com/xKoRx/echo-dwx/sdk/tracker"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

const (
	responseKey      = "_response"
	responseValueKey = "_response_value"
	responseError    = "ERROR"

	defaultRetryDelay = 100 * time.Millisecond
)

// ResponseHandler recibe cada payload leído del terminal.
type ResponseHandler func(ctx context.Context, p tracker.Payload) tracker.ApplyResult

// ResponseLoop lee mensajes JSON del pipe de respuestas y los entrega al handler.
type ResponseLoop struct {
	reader     *ipc.JSONReader
	handle     ResponseHandler
	telemetry  *telemetry.Client
	retryDelay time.Duration
}

// NewResponseLoop crea el loop sobre pull. readTimeout 0 = lecturas bloqueantes.
func NewResponseLoop(pull ipc.Pipe, readTimeout time.Duration, handle ResponseHandler, tel *telemetry.Client) *ResponseLoop {
	return &ResponseLoop{
		reader:     ipc.NewJSONReaderWithTimeout(pull, readTimeout),
		handle:     handle,
		telemetry:  tel,
		retryDelay: defaultRetryDelay,
	}
}

// Run procesa mensajes hasta que ctx se cancela.
//
// Timeout y EOF no son errores: se reintenta tras retryDelay. Un mensaje
// inválido se descarta con WARN. Sólo un pipe cerrado termina el loop con error.
func (l *ResponseLoop) Run(ctx context.Context) error {
	ctx = telemetry.AppendCommonAttrs(ctx, semconv.DWX.Component.String("response_loop"))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := l.reader.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var invalid *ipc.ErrInvalidMessage
			switch {
			case errors.As(err, &invalid):
				l.telemetry.Warn(ctx, "Invalid response discarded",
					attribute.String("reason", invalid.Reason),
					attribute.Int("bytes", len(invalid.Data)),
				)
				continue
			case errors.Is(err, ipc.ErrPipeClosed):
				return fmt.Errorf("response pipe closed: %w", err)
			case !ipc.IsTimeout(err) && !errors.Is(err, io.EOF):
				l.telemetry.Error(ctx, "Failed to read response", err)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(l.retryDelay):
			}
			continue
		}

		l.process(ctx, msg)
	}
}

func (l *ResponseLoop) process(ctx context.Context, msg map[string]interface{}) {
	start := utils.NowUnixMilli()
	p := tracker.Payload(msg)

	if p.String(responseKey) == responseError {
		code := terminalErrorCode(msg)
		err := domain.NewError(code, "terminal reported an error").
			WithDetail(responseValueKey, msg[responseValueKey])
		l.telemetry.Error(ctx, "Terminal error response", err,
			semconv.DWX.ErrorCode.String(string(code)),
			attribute.String("action", utils.ExtractString(msg, "_action")),
			attribute.Bool("retryable", domain.IsRetryable(code)),
		)
		l.telemetry.BridgeMetrics().RecordTerminalError(ctx, semconv.DWX.ErrorCode.String(string(code)))
	}

	res := l.handle(ctx, p)

	status := semconv.StatusSuccess
	if len(res.Skipped) > 0 {
		status = semconv.StatusError
	}
	l.telemetry.BridgeMetrics().Response.RecordResult(ctx, semconv.DWX.Status.String(status))
	l.telemetry.Debug(ctx, "Response processed",
		attribute.Int("updated", len(res.Updated)),
		attribute.Int("skipped", len(res.Skipped)),
		attribute.Int64("elapsed_ms", utils.ElapsedMs(start)),
	)
}

// terminalErrorCode traduce _response_value al código de dominio. Sin un
// valor numérico el error queda como ErrTerminal.
func terminalErrorCode(msg map[string]interface{}) domain.ErrorCode {
	n, ok := utils.ExtractFloat64(msg, responseValueKey)
	if !ok {
		return domain.ErrTerminal
	}
	return domain.ErrorFromMT4Code(int(n))
}
