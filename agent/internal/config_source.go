package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/xKoRx/echo-dwx/sdk/etcd"
)

// EnvPrefix prefijo de variables de entorno leídas por ViperSource.
// endpoints/push_addr se lee de ECHO_DWX_ENDPOINTS_PUSH_ADDR.
const EnvPrefix = "ECHO_DWX"

// ViperSource lee variables desde un archivo (yaml/json/toml) y el entorno.
// Las claves con "/" se buscan como rutas anidadas del archivo.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource crea un VarSource local. path vacío = sólo entorno.
func NewViperSource(path string) (*ViperSource, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s failed: %w", path, err)
		}
	}
	return &ViperSource{v: v}, nil
}

// GetVarWithDefault implementa VarSource.
func (s *ViperSource) GetVarWithDefault(_ context.Context, key, defaultValue string) (string, error) {
	path := strings.ReplaceAll(key, "/", ".")
	if !s.v.IsSet(path) {
		return defaultValue, nil
	}
	return s.v.GetString(path), nil
}

// OpenVarSource elige el VarSource: archivo local si configPath no es vacío,
// etcd (/echo-dwx/<env>/) en caso contrario. close libera el source.
func OpenVarSource(configPath, env string) (src VarSource, closeFn func() error, err error) {
	if configPath != "" {
		vs, err := NewViperSource(configPath)
		if err != nil {
			return nil, nil, err
		}
		return vs, func() error { return nil }, nil
	}

	client, err := etcd.New(
		etcd.WithApp("echo-dwx"),
		etcd.WithEnv(env),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ETCD client: %w", err)
	}
	return client, client.Close, nil
}

// LoadConfigFrom carga la configuración usando OpenVarSource.
func LoadConfigFrom(ctx context.Context, configPath string) (*Config, error) {
	env, hostKey := Environment()

	src, closeFn, err := OpenVarSource(configPath, env)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return LoadConfig(ctx, src, env, hostKey)
}
