package internal

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xKoRx/echo-dwx/sdk/ipc"
	"github.com/xKoRx/echo-dwx/sdk/telemetry"
)

// mapSource es un VarSource en memoria
type mapSource map[string]string

func (m mapSource) GetVarWithDefault(_ context.Context, key, defaultValue string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func quietTelemetryOptions() []telemetry.Option {
	return []telemetry.Option{
		telemetry.WithLogWriter(io.Discard),
		telemetry.WithMetricsDisabled(),
		telemetry.WithTracesDisabled(),
	}
}

func newTestTelemetry(t *testing.T) *telemetry.Client {
	t.Helper()
	client, err := telemetry.New(context.Background(), "echo-dwx-test", "test", quietTelemetryOptions()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Shutdown(context.Background()) })
	return client
}

// pipePair retorna (lado agent, lado terminal)
func pipePair(t *testing.T) (*ipc.ConnPipe, *ipc.ConnPipe) {
	t.Helper()
	a, b := net.Pipe()
	agentSide, terminalSide := ipc.NewConnPipe(a), ipc.NewConnPipe(b)
	t.Cleanup(func() {
		agentSide.Close()
		terminalSide.Close()
	})
	return agentSide, terminalSide
}

// readLines lee líneas del lado terminal en background
func readLines(p ipc.Pipe) <-chan string {
	out := make(chan string, 16)
	go func() {
		defer close(out)
		r := ipc.NewLineReaderWithTimeout(p, 0)
		for {
			line, err := r.ReadLine()
			if err != nil {
				return
			}
			out <- string(line)
		}
	}()
	return out
}
