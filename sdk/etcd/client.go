package etcd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
)

const (
	defaultTimeout  = 5
	defaultApp      = "echo-dwx"
	defaultEndpoint = "http://127.0.0.1:2379"

	// EnvEndpoints lista de endpoints separados por coma.
	EnvEndpoints = "ETCD_ENDPOINTS"
	envTimeout   = "ETCD_TIMEOUT"
	envScope     = "ENV"
)

type (
	// KV define las operaciones básicas que nos interesan de etcd (facilita mocking).
	KV interface {
		Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
		Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
		Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
	}

	// Client encapsula el cliente etcd con namespace /<app>/<env>/
	Client struct {
		raw     *clientv3.Client
		kv      KV
		app     string
		env     string
		prefix  string
		timeout time.Duration
	}
)

// Option define una función que modifica la configuración del cliente
type Option func(*config)

type config struct {
	endpoints []string
	timeout   time.Duration
	app       string
	env       string
	prefix    string
}

// defaultConfig crea una configuración por defecto basada en variables de entorno
func defaultConfig() *config {
	timeout := defaultTimeout
	if i, err := strconv.Atoi(os.Getenv(envTimeout)); err == nil {
		timeout = i
	}

	endpoints := EndpointsFromEnv()
	if len(endpoints) == 0 {
		endpoints = []string{defaultEndpoint}
	}

	return &config{
		endpoints: endpoints,
		timeout:   time.Duration(timeout) * time.Second,
		app:       defaultApp,
		env:       firstNonEmpty(os.Getenv(envScope), "development"),
	}
}

// WithEndpoints establece los endpoints del servidor etcd
func WithEndpoints(eps ...string) Option { return func(c *config) { c.endpoints = eps } }

// WithTimeout establece el timeout para las operaciones del cliente
func WithTimeout(t time.Duration) Option { return func(c *config) { c.timeout = t } }

// WithApp establece el nombre de la aplicación para el namespace
func WithApp(name string) Option { return func(c *config) { c.app = name } }

// WithEnv establece el entorno para el namespace
func WithEnv(env string) Option { return func(c *config) { c.env = env } }

// WithPrefix establece un prefijo personalizado para el namespace
func WithPrefix(p string) Option { return func(c *config) { c.prefix = p } }

// EndpointsFromEnv lee ETCD_ENDPOINTS. Devuelve nil si no hay endpoints.
func EndpointsFromEnv() []string {
	var clean []string
	for _, p := range strings.Split(os.Getenv(EnvEndpoints), ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return clean
}

// New crea un nuevo cliente etcd con la configuración proporcionada
func New(opts ...Option) (*Client, error) {
	cfg := buildConfig(opts)

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.endpoints,
		DialTimeout: cfg.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating etcd client: %w", err)
	}

	c := newWithKV(namespace.NewKV(cli, cfg.prefix), cfg)
	c.raw = cli
	return c, nil
}

// NewWithKV crea un cliente sobre un KV ya namespaced (tests, embebidos).
func NewWithKV(kv KV, opts ...Option) *Client {
	return newWithKV(kv, buildConfig(opts))
}

func buildConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.prefix == "" {
		cfg.prefix = fmt.Sprintf("/%s/%s/", cfg.app, cfg.env)
	}
	return cfg
}

func newWithKV(kv KV, cfg *config) *Client {
	return &Client{
		kv:      kv,
		app:     cfg.app,
		env:     cfg.env,
		prefix:  cfg.prefix,
		timeout: cfg.timeout,
	}
}

// NamespacePrefix devuelve el prefijo absoluto, por defecto "/<app>/<env>/".
func (c *Client) NamespacePrefix() string {
	return c.prefix
}

// GetVar obtiene una variable relativa al namespace
func (c *Client) GetVar(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return string(resp.Kvs[0].Value), nil
}

// GetVarWithDefault obtiene una variable o devuelve defaultValue si no existe
// o etcd no responde.
func (c *Client) GetVarWithDefault(ctx context.Context, key, defaultValue string) (string, error) {
	value, err := c.GetVar(ctx, key)
	if err != nil {
		return defaultValue, nil
	}
	return value, nil
}

// GetVarInt obtiene una variable como entero
func (c *Client) GetVarInt(ctx context.Context, key string) (int, error) {
	value, err := c.GetVar(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

// GetVarIntWithDefault obtiene una variable como entero o devuelve un valor por defecto
func (c *Client) GetVarIntWithDefault(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := c.GetVarInt(ctx, key)
	if err != nil {
		return defaultValue, nil
	}
	return value, nil
}

// GetVarBool obtiene una variable como booleano
func (c *Client) GetVarBool(ctx context.Context, key string) (bool, error) {
	value, err := c.GetVar(ctx, key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

// GetVarDuration obtiene una variable como duración (en milisegundos)
func (c *Client) GetVarDuration(ctx context.Context, key string) (time.Duration, error) {
	value, err := c.GetVarInt(ctx, key)
	if err != nil {
		return 0, err
	}
	return time.Duration(value) * time.Millisecond, nil
}

// ListVars retorna todas las variables del namespace, con claves relativas.
func (c *Client) ListVars(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.kv.Get(ctx, "", clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list namespace %s: %w", c.prefix, err)
	}

	vars := make(map[string]string, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		vars[string(kv.Key)] = string(kv.Value)
	}
	return vars, nil
}

// SetVar establece una variable relativa al namespace
func (c *Client) SetVar(ctx context.Context, key, val string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.kv.Put(ctx, key, val); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Seed escribe sólo las claves que todavía no existen.
// Retorna las claves efectivamente escritas.
func (c *Client) Seed(ctx context.Context, defaults map[string]string) ([]string, error) {
	var written []string
	for key, val := range defaults {
		if _, err := c.GetVar(ctx, key); err == nil {
			continue
		}
		if err := c.SetVar(ctx, key, val); err != nil {
			return written, err
		}
		written = append(written, key)
	}
	return written, nil
}

// DeleteVar elimina una variable relativa al namespace
func (c *Client) DeleteVar(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close cierra la conexión con etcd
func (c *Client) Close() error {
	if c.raw != nil {
		return c.raw.Close()
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
