package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/domain/command"
	"github.com/xKoRx/echo-dwx/sdk/ipc"
	"github.com/xKoRx/echo-dwx/sdk/tracker"
)

type loopHarness struct {
	connector *Connector
	loop      *ResponseLoop
	agentSide *ipc.ConnPipe
	terminal  *ipc.LineWriter
	errCh     chan error
	cancel    context.CancelFunc
}

func startLoop(t *testing.T) *loopHarness {
	t.Helper()
	agentSide, terminalSide := pipePair(t)
	tel := newTestTelemetry(t)

	c := NewConnector(command.DefaultDefaults(), nil, nil, tel)
	loop := NewResponseLoop(agentSide, 50*time.Millisecond, c.ApplyResponse, tel)
	loop.retryDelay = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	h := &loopHarness{
		connector: c,
		loop:      loop,
		agentSide: agentSide,
		terminal:  ipc.NewLineWriter(terminalSide),
		errCh:     make(chan error, 1),
		cancel:    cancel,
	}
	go func() { h.errCh <- loop.Run(ctx) }()
	t.Cleanup(cancel)
	return h
}

func (h *loopHarness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("response loop did not stop")
		return nil
	}
}

func TestResponseLoopAppliesMessages(t *testing.T) {
	h := startLoop(t)

	require.NoError(t, h.terminal.WriteString(`{"_action":"EXECUTION","_ticket":555}`))
	require.Eventually(t, func() bool {
		ticket, ok := h.connector.Ticket()
		return ok && ticket == 555
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.terminal.WriteJSON(map[string]interface{}{
		"_action": "OPEN_TRADES",
		"_positions": map[string]interface{}{
			"555": map[string]interface{}{"_symbol": "GBPUSD", "_lots": 0.1, "_type": 1},
		},
	}))
	require.Eventually(t, func() bool {
		positions, ok := h.connector.Positions()
		return ok && positions["555"].Symbol == "GBPUSD"
	}, 2*time.Second, 10*time.Millisecond)

	ticket, _ := h.connector.Ticket()
	assert.Equal(t, int64(555), ticket)

	h.cancel()
	assert.NoError(t, h.wait(t))
}

func TestResponseLoopSkipsInvalidLines(t *testing.T) {
	h := startLoop(t)

	require.NoError(t, h.terminal.WriteString("not json"))
	require.NoError(t, h.terminal.WriteString(""))
	require.NoError(t, h.terminal.WriteString(`{"_ticket":9}`))

	require.Eventually(t, func() bool {
		ticket, ok := h.connector.Ticket()
		return ok && ticket == 9
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResponseLoopErrorResponseStillApplied(t *testing.T) {
	h := startLoop(t)

	require.NoError(t, h.terminal.WriteString(`{"_action":"EXECUTION","_response":"ERROR","_response_value":134,"_ticket":10}`))
	require.Eventually(t, func() bool {
		ticket, ok := h.connector.Ticket()
		return ok && ticket == 10
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTerminalErrorCode(t *testing.T) {
	cases := []struct {
		name string
		msg  map[string]interface{}
		want domain.ErrorCode
	}{
		{"mt4 code", map[string]interface{}{"_response": "ERROR", "_response_value": 134.0}, domain.ErrNoMoney},
		{"unmapped mt4 code", map[string]interface{}{"_response": "ERROR", "_response_value": 9999.0}, domain.ErrUnknown},
		{"no value", map[string]interface{}{"_response": "ERROR"}, domain.ErrTerminal},
		{"text value", map[string]interface{}{"_response": "ERROR", "_response_value": "INVALID_SYMBOL"}, domain.ErrTerminal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, terminalErrorCode(tc.msg))
		})
	}
}

func TestResponseLoopSurvivesIdleTimeouts(t *testing.T) {
	h := startLoop(t)

	time.Sleep(150 * time.Millisecond)
	require.NoError(t, h.terminal.WriteString(`{"_ticket":1}`))
	require.Eventually(t, func() bool {
		_, ok := h.connector.Ticket()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case err := <-h.errCh:
		t.Fatalf("loop stopped early: %v", err)
	default:
	}
}

func TestResponseLoopStopsWhenPipeClosed(t *testing.T) {
	h := startLoop(t)

	require.NoError(t, h.agentSide.Close())
	err := h.wait(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, ipc.ErrPipeClosed)
}

func TestResponseLoopHandlerOrder(t *testing.T) {
	agentSide, terminalSide := pipePair(t)
	tel := newTestTelemetry(t)

	var (
		mu   sync.Mutex
		seen []string
	)
	loop := NewResponseLoop(agentSide, 0, func(_ context.Context, p tracker.Payload) tracker.ApplyResult {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, p.String("_action"))
		return tracker.ApplyResult{}
	}, tel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	w := ipc.NewLineWriter(terminalSide)
	for _, action := range []string{"A", "B", "C"} {
		require.NoError(t, w.WriteJSON(map[string]interface{}{"_action": action}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"A", "B", "C"}, seen)
}
