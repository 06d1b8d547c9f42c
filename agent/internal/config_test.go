package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xKoRx/echo-dwx/sdk/domain/command"
	"github.com/xKoRx/echo-dwx/sdk/ipc"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), mapSource{}, "test", "host1")
	require.NoError(t, err)

	assert.Equal(t, ipc.TransportTCP, cfg.Transport)
	assert.Equal(t, "TRADE", cfg.CommandPrefix)
	assert.Equal(t, command.DefaultMagic, cfg.DefaultMagic)
	assert.Equal(t, "agent_host1", cfg.AgentID)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, time.Duration(0), cfg.HeartbeatInterval)
	assert.Empty(t, cfg.SnapshotPath)
}

func TestLoadConfigOverrides(t *testing.T) {
	src := mapSource{
		"endpoints/push_addr":             "dwx_push",
		"endpoints/pull_addr":             "dwx_pull",
		"agent/transport":                 "pipe",
		"agent/command_prefix":            "CMD",
		"agent/default_magic":             "777",
		"agent/default_comment":           "echo",
		"agent/read_timeout_ms":           "250",
		"agent/write_timeout_ms":          "1500",
		"agent/heartbeat_interval_s":      "10",
		"agent/snapshot_path":             "/tmp/dwx.db",
		"agent/log_level":                 "DEBUG",
		"grpc/client_keepalive/time_s":    "30",
		"grpc/client_keepalive/timeout_s": "5",
		"endpoints/otel/otlp_endpoint":    "collector:4317",
		"telemetry/service_name":          "dwx-agent-eu",
	}

	cfg, err := LoadConfig(context.Background(), src, "production", "host1")
	require.NoError(t, err)

	assert.Equal(t, ipc.TransportPipe, cfg.Transport)
	assert.Equal(t, "dwx_push", cfg.PushAddr)
	assert.Equal(t, "dwx_pull", cfg.PullAddr)
	assert.Equal(t, "CMD", cfg.CommandPrefix)
	assert.Equal(t, command.Defaults{Comment: "echo", Magic: 777}, cfg.CommandDefaults())
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.KeepAliveTime)
	assert.Equal(t, 5*time.Second, cfg.KeepAliveTimeout)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
	assert.Equal(t, "dwx-agent-eu", cfg.ServiceName)

	push := cfg.PushPipeConfig()
	assert.Equal(t, ipc.TransportPipe, push.Transport)
	assert.Equal(t, "dwx_push", push.Address)
	assert.Equal(t, 1500*time.Millisecond, push.Timeout)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		src  mapSource
		want string
	}{
		{"bad magic", mapSource{"agent/default_magic": "abc"}, "agent/default_magic"},
		{"negative timeout", mapSource{"agent/read_timeout_ms": "-1"}, "agent/read_timeout_ms"},
		{"bad transport", mapSource{"agent/transport": "zmq"}, "agent/transport"},
		{"prefix with delimiter", mapSource{"agent/command_prefix": "TR;ADE"}, "agent/command_prefix"},
		{"comment with delimiter", mapSource{"agent/default_comment": "a;b"}, "agent/default_comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(context.Background(), tt.src, "test", "h")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestViperSourceFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoints:
  push_addr: 10.0.0.5:32768
agent:
  default_magic: 42
  heartbeat_interval_s: 3
`), 0o600))
	t.Setenv("ECHO_DWX_ENDPOINTS_PULL_ADDR", "10.0.0.5:32769")

	src, err := NewViperSource(path)
	require.NoError(t, err)

	v, err := src.GetVarWithDefault(context.Background(), "endpoints/push_addr", "")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:32768", v)

	v, err = src.GetVarWithDefault(context.Background(), "agent/transport", "tcp")
	require.NoError(t, err)
	assert.Equal(t, "tcp", v)

	cfg, err := LoadConfig(context.Background(), src, "test", "h")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:32768", cfg.PushAddr)
	assert.Equal(t, "10.0.0.5:32769", cfg.PullAddr)
	assert.Equal(t, int64(42), cfg.DefaultMagic)
	assert.Equal(t, 3*time.Second, cfg.HeartbeatInterval)
}

func TestViperSourceMissingFile(t *testing.T) {
	_, err := NewViperSource(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentFromEnv(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("HOST_KEY", "vps-01")
	env, host := Environment()
	assert.Equal(t, "staging", env)
	assert.Equal(t, "vps-01", host)
}
