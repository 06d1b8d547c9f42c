package internal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xKoRx/echo-dwx/sdk/ipc"
	"github.com/xKoRx/echo-dwx/sdk/telemetry"
	"github.com/xKoRx/echo-dwx/sdk/tracker"
)

// Agent representa el servicio que habla con el terminal.
//
// Responsabilidades:
//   - Pipe de comandos (push) y pipe de respuestas (pull)
//   - Connector: encoder + tracker
//   - Loop de respuestas y heartbeat opcional
//   - Snapshot del último estado (bbolt, opcional)
type Agent struct {
	config *Config

	push ipc.Pipe
	pull ipc.Pipe

	connector *Connector
	loop      *ResponseLoop
	snapshots *SnapshotStore

	telemetry *telemetry.Client

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Dialer abre un pipe. ipc.Dial en producción; los tests inyectan net.Pipe.
type Dialer func(ctx context.Context, cfg *ipc.PipeConfig) (ipc.Pipe, error)

// AgentOption personaliza New.
type AgentOption func(*agentOptions)

type agentOptions struct {
	dial      Dialer
	telemetry []telemetry.Option
}

// WithDialer reemplaza ipc.Dial.
func WithDialer(d Dialer) AgentOption {
	return func(o *agentOptions) {
		if d != nil {
			o.dial = d
		}
	}
}

// WithTelemetryOptions agrega opciones al cliente de telemetría.
func WithTelemetryOptions(opts ...telemetry.Option) AgentOption {
	return func(o *agentOptions) { o.telemetry = append(o.telemetry, opts...) }
}

// New crea el Agent: telemetría, snapshot store, pipes y connector.
//
// Si hay snapshot guardado, el tracker arranca con ese estado.
//
// Example:
//
//	cfg, err := internal.LoadConfigFrom(ctx, "")
//	if err != nil {
//	    return err
//	}
//	agent, err := internal.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer agent.Shutdown()
func New(ctx context.Context, config *Config, opts ...AgentOption) (*Agent, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := agentOptions{dial: ipc.Dial}
	for _, opt := range opts {
		opt(&o)
	}

	agentCtx, cancel := context.WithCancel(ctx)
	a := &Agent{config: config, ctx: agentCtx, cancel: cancel}

	telClient, err := initTelemetry(agentCtx, config, o.telemetry...)
	if err != nil {
		cancel()
		return nil, err
	}
	a.telemetry = telClient

	tr := tracker.New()
	if config.SnapshotPath != "" {
		a.snapshots, err = OpenSnapshotStore(config.SnapshotPath)
		if err != nil {
			a.abort()
			return nil, err
		}
		snap, err := a.snapshots.Load()
		if err != nil {
			a.abort()
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		res := tr.Restore(snap)
		a.logInfo("Tracker restored from snapshot", map[string]interface{}{
			"restored": len(res.Updated),
			"skipped":  len(res.Skipped),
		})
	}

	a.push, err = o.dial(agentCtx, config.PushPipeConfig())
	if err != nil {
		a.abort()
		return nil, fmt.Errorf("failed to open push pipe: %w", err)
	}
	a.pull, err = o.dial(agentCtx, config.PullPipeConfig())
	if err != nil {
		a.abort()
		return nil, fmt.Errorf("failed to open pull pipe: %w", err)
	}

	writer := ipc.NewCommandWriter(ipc.NewLineWriterWithTimeout(a.push, config.WriteTimeout), config.CommandPrefix)
	a.connector = NewConnector(config.CommandDefaults(), writer, tr, telClient)
	if a.snapshots != nil {
		a.connector.SetSnapshotStore(a.snapshots)
	}
	a.loop = NewResponseLoop(a.pull, config.ReadTimeout, a.connector.ApplyResponse, telClient)

	return a, nil
}

// Connector expone el connector para enviar comandos.
func (a *Agent) Connector() *Connector {
	return a.connector
}

// Start ejecuta el loop de respuestas y el heartbeat.
//
// Bloquea hasta que el contexto de New se cancela, se llama Shutdown o el
// pipe de respuestas se cierra.
func (a *Agent) Start() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return fmt.Errorf("agent already closed")
	}
	a.mu.Unlock()

	a.logInfo("Agent starting", map[string]interface{}{
		"transport": string(a.config.Transport),
		"push_addr": a.config.PushAddr,
		"pull_addr": a.config.PullAddr,
		"agent_id":  a.config.AgentID,
		"version":   a.config.ServiceVersion,
	})

	g, ctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		return a.loop.Run(ctx)
	})
	g.Go(func() error {
		return a.connector.RunHeartbeat(ctx, a.config.HeartbeatInterval)
	})

	err := g.Wait()
	if err != nil {
		a.logError("Agent stopped with error", err, nil)
		return err
	}
	a.logInfo("Agent shutting down", nil)
	return nil
}

// Shutdown detiene el Agent. Es idempotente.
func (a *Agent) Shutdown() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.logInfo("Agent shutdown initiated", nil)
	a.cancel()
	a.closeResources()

	if err := a.telemetry.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}
	return nil
}

// abort libera lo abierto durante un New fallido.
func (a *Agent) abort() {
	a.cancel()
	a.closeResources()
	if a.telemetry != nil {
		_ = a.telemetry.Shutdown(context.Background())
	}
}

func (a *Agent) closeResources() {
	if a.push != nil {
		_ = a.push.Close()
	}
	if a.pull != nil {
		_ = a.pull.Close()
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.logError("Failed to close snapshot store", err, nil)
		}
	}
}

func (a *Agent) logInfo(message string, fields map[string]interface{}) {
	a.telemetry.Info(a.ctx, message, mapToAttrs(fields)...)
}

func (a *Agent) logError(message string, err error, fields map[string]interface{}) {
	a.telemetry.Error(a.ctx, message, err, mapToAttrs(fields)...)
}
