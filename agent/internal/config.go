// Package internal contiene el Agent de echo-dwx: conecta con el terminal
// MT4 (server DWX), envía comandos y mantiene el estado de respuestas.
package internal

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xKoRx/echo-dwx/sdk/domain/command"
	"github.com/xKoRx/echo-dwx/sdk/ipc"
)

// VarSource entrega variables de configuración con fallback.
// Lo implementan etcd.Client y ViperSource.
type VarSource interface {
	GetVarWithDefault(ctx context.Context, key, defaultValue string) (string, error)
}

// Config configuración del Agent.
type Config struct {
	// Endpoints
	Transport ipc.Transport // agent/transport (tcp|pipe|pipe_server)
	PushAddr  string        // endpoints/push_addr
	PullAddr  string        // endpoints/pull_addr

	// Comandos
	CommandPrefix  string // agent/command_prefix
	DefaultMagic   int64  // agent/default_magic
	DefaultComment string // agent/default_comment

	// Agent
	AgentID           string        // agent/agent_id
	ReadTimeout       time.Duration // agent/read_timeout_ms
	WriteTimeout      time.Duration // agent/write_timeout_ms
	HeartbeatInterval time.Duration // agent/heartbeat_interval_s (0 = deshabilitado)
	SnapshotPath      string        // agent/snapshot_path (vacío = deshabilitado)

	// gRPC KeepAlive de los exporters OTLP
	KeepAliveTime    time.Duration // grpc/client_keepalive/time_s
	KeepAliveTimeout time.Duration // grpc/client_keepalive/timeout_s

	// Telemetry
	ServiceName     string // telemetry/service_name
	ServiceVersion  string // telemetry/service_version
	Environment     string // telemetry/environment
	OTLPEndpoint    string // endpoints/otel/otlp_endpoint (vacío = sin métricas ni trazas)
	MetricsEndpoint string // endpoints/otel/metrics_endpoint
	LogLevel        string // agent/log_level (INFO, DEBUG, WARN, ERROR)
}

// DefaultConfig retorna la configuración base, antes de aplicar el VarSource.
func DefaultConfig(env, hostKey string) *Config {
	return &Config{
		Transport:         ipc.TransportTCP,
		PushAddr:          "127.0.0.1:32768",
		PullAddr:          "127.0.0.1:32769",
		CommandPrefix:     ipc.DefaultCommandPrefix,
		DefaultMagic:      command.DefaultMagic,
		DefaultComment:    "",
		AgentID:           fmt.Sprintf("agent_%s", hostKey),
		ReadTimeout:       time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 0,
		KeepAliveTime:     60 * time.Second,
		KeepAliveTimeout:  20 * time.Second,
		ServiceName:       "echo-dwx-agent",
		ServiceVersion:    "0.1.0",
		Environment:       env,
		LogLevel:          "INFO",
	}
}

// Environment lee ENV y HOST_KEY (con fallback a hostname).
func Environment() (env, hostKey string) {
	env = os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	hostKey = os.Getenv("HOST_KEY")
	if hostKey == "" {
		if hostname, err := os.Hostname(); err == nil {
			hostKey = hostname
		} else {
			hostKey = "unknown"
		}
	}
	return env, hostKey
}

// LoadConfig aplica src sobre DefaultConfig y valida el resultado.
//
// Un valor presente pero inválido (por ejemplo un entero mal formado) es un
// error: un agent mal configurado no debe arrancar con defaults silenciosos.
func LoadConfig(ctx context.Context, src VarSource, env, hostKey string) (*Config, error) {
	cfg := DefaultConfig(env, hostKey)
	l := loader{ctx: ctx, src: src}

	// Endpoints
	l.str("endpoints/push_addr", &cfg.PushAddr)
	l.str("endpoints/pull_addr", &cfg.PullAddr)
	l.str("endpoints/otel/otlp_endpoint", &cfg.OTLPEndpoint)
	l.str("endpoints/otel/metrics_endpoint", &cfg.MetricsEndpoint)

	// Agent
	var transport string
	l.str("agent/transport", &transport)
	if transport != "" {
		t, err := ipc.ParseTransport(transport)
		if err != nil {
			return nil, fmt.Errorf("agent/transport: %w", err)
		}
		cfg.Transport = t
	}
	l.str("agent/command_prefix", &cfg.CommandPrefix)
	l.integer("agent/default_magic", &cfg.DefaultMagic)
	l.str("agent/default_comment", &cfg.DefaultComment)
	l.str("agent/agent_id", &cfg.AgentID)
	l.duration("agent/read_timeout_ms", time.Millisecond, &cfg.ReadTimeout)
	l.duration("agent/write_timeout_ms", time.Millisecond, &cfg.WriteTimeout)
	l.duration("agent/heartbeat_interval_s", time.Second, &cfg.HeartbeatInterval)
	l.str("agent/snapshot_path", &cfg.SnapshotPath)
	l.str("agent/log_level", &cfg.LogLevel)

	// gRPC KeepAlive
	l.duration("grpc/client_keepalive/time_s", time.Second, &cfg.KeepAliveTime)
	l.duration("grpc/client_keepalive/timeout_s", time.Second, &cfg.KeepAliveTimeout)

	// Telemetry
	l.str("telemetry/service_name", &cfg.ServiceName)
	l.str("telemetry/service_version", &cfg.ServiceVersion)
	l.str("telemetry/environment", &cfg.Environment)

	if l.err != nil {
		return nil, l.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica la configuración mínima requerida.
func (c *Config) Validate() error {
	if c.PushAddr == "" {
		return fmt.Errorf("endpoints/push_addr not configured")
	}
	if c.PullAddr == "" {
		return fmt.Errorf("endpoints/pull_addr not configured")
	}
	if strings.ContainsAny(c.CommandPrefix, ";\r\n") || c.CommandPrefix == "" {
		return fmt.Errorf("agent/command_prefix %q is invalid", c.CommandPrefix)
	}
	if strings.ContainsAny(c.DefaultComment, ";\r\n") {
		return fmt.Errorf("agent/default_comment must not contain ';' or line breaks")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.HeartbeatInterval < 0 {
		return fmt.Errorf("timeouts and intervals must not be negative")
	}
	return nil
}

// PushPipeConfig retorna la configuración del pipe de comandos.
func (c *Config) PushPipeConfig() *ipc.PipeConfig {
	pc := ipc.DefaultPipeConfig(c.Transport, c.PushAddr)
	pc.Timeout = c.WriteTimeout
	return pc
}

// PullPipeConfig retorna la configuración del pipe de respuestas.
func (c *Config) PullPipeConfig() *ipc.PipeConfig {
	pc := ipc.DefaultPipeConfig(c.Transport, c.PullAddr)
	pc.Timeout = c.ReadTimeout
	return pc
}

// CommandDefaults retorna los defaults del encoder.
func (c *Config) CommandDefaults() command.Defaults {
	return command.Defaults{
		Comment: c.DefaultComment,
		Magic:   c.DefaultMagic,
	}
}

// loader acumula el primer error de parseo.
type loader struct {
	ctx context.Context
	src VarSource
	err error
}

func (l *loader) get(key string) string {
	if l.err != nil || l.src == nil {
		return ""
	}
	val, err := l.src.GetVarWithDefault(l.ctx, key, "")
	if err != nil {
		l.err = fmt.Errorf("failed to read %s: %w", key, err)
		return ""
	}
	return strings.TrimSpace(val)
}

func (l *loader) str(key string, dst *string) {
	if val := l.get(key); val != "" {
		*dst = val
	}
}

func (l *loader) integer(key string, dst *int64) {
	val := l.get(key)
	if val == "" {
		return
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		l.err = fmt.Errorf("%s: invalid integer %q", key, val)
		return
	}
	*dst = n
}

func (l *loader) duration(key string, unit time.Duration, dst *time.Duration) {
	val := l.get(key)
	if val == "" {
		return
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n < 0 {
		l.err = fmt.Errorf("%s: invalid non-negative integer %q", key, val)
		return
	}
	*dst = time.Duration(n) * unit
}
