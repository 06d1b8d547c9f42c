package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

// Pipe define la interfaz para un canal bidireccional de bytes.
//
// net.Conn la satisface; también los Named Pipes de Windows vía go-winio.
type Pipe interface {
	// Read lee datos del pipe.
	//
	// Si no hay datos disponibles, puede bloquearse hasta el deadline.
	Read(p []byte) (n int, err error)

	// Write escribe datos al pipe.
	Write(p []byte) (n int, err error)

	// Close cierra el pipe y libera recursos.
	Close() error

	// SetReadDeadline establece el deadline para operaciones de lectura.
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline establece el deadline para operaciones de escritura.
	SetWriteDeadline(t time.Time) error
}

// PipeServer define la interfaz para un servidor de Named Pipes.
//
// El servidor crea el pipe y espera a que el EA se conecte.
type PipeServer interface {
	Pipe

	// WaitForConnection espera a que un cliente se conecte.
	WaitForConnection(ctx context.Context) error

	// Name retorna el nombre del pipe.
	Name() string
}

// Transport selecciona cómo se abre un Pipe.
type Transport string

const (
	// TransportTCP conecta por TCP a host:port (bridge socket del terminal).
	TransportTCP Transport = "tcp"
	// TransportPipe conecta como cliente a un Named Pipe de Windows.
	TransportPipe Transport = "pipe"
	// TransportPipeServer crea el Named Pipe y espera al EA.
	TransportPipeServer Transport = "pipe_server"
)

// PipeConfig configuración para abrir un Pipe.
type PipeConfig struct {
	// Transport tcp | pipe | pipe_server
	Transport Transport

	// Address host:port para tcp; nombre del pipe (sin \\.\pipe\) para pipe y pipe_server
	Address string

	// BufferSize tamaño del buffer del pipe (bytes)
	BufferSize int

	// Timeout timeout de conexión y por defecto para operaciones (0 = sin timeout)
	Timeout time.Duration
}

// DefaultPipeConfig retorna una configuración por defecto.
func DefaultPipeConfig(transport Transport, address string) *PipeConfig {
	return &PipeConfig{
		Transport:  transport,
		Address:    address,
		BufferSize: 8192, // 8KB
		Timeout:    5 * time.Second,
	}
}

// ParseTransport valida el nombre del transporte.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case TransportTCP, TransportPipe, TransportPipeServer:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want tcp, pipe or pipe_server)", s)
	}
}

// Dial abre un Pipe según config.Transport.
//
// Para pipe_server bloquea hasta que el EA se conecta o ctx se cancela.
func Dial(ctx context.Context, config *PipeConfig) (Pipe, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch config.Transport {
	case TransportTCP:
		return DialTCP(ctx, config)
	case TransportPipe:
		return DialWindowsPipe(ctx, config)
	case TransportPipeServer:
		server, err := NewWindowsPipeServer(config)
		if err != nil {
			return nil, err
		}
		if err := server.WaitForConnection(ctx); err != nil {
			server.Close()
			return nil, err
		}
		return server, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", config.Transport)
	}
}

// DialTCP conecta por TCP a config.Address.
func DialTCP(ctx context.Context, config *PipeConfig) (Pipe, error) {
	dialer := &net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Address, err)
	}
	return NewConnPipe(conn), nil
}

// ConnPipe adapta un net.Conn a Pipe. Después de Close todas las operaciones
// retornan ErrPipeClosed.
type ConnPipe struct {
	mu   sync.RWMutex
	conn net.Conn
}

// NewConnPipe envuelve conn. Los tests usan net.Pipe().
func NewConnPipe(conn net.Conn) *ConnPipe {
	return &ConnPipe{conn: conn}
}

func (p *ConnPipe) current() net.Conn {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn
}

// Read implementa io.Reader.
func (p *ConnPipe) Read(b []byte) (int, error) {
	conn := p.current()
	if conn == nil {
		return 0, ErrPipeClosed
	}
	return conn.Read(b)
}

// Write implementa io.Writer.
func (p *ConnPipe) Write(b []byte) (int, error) {
	conn := p.current()
	if conn == nil {
		return 0, ErrPipeClosed
	}
	return conn.Write(b)
}

// Close cierra la conexión. Es idempotente.
func (p *ConnPipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// SetReadDeadline establece el deadline para lecturas.
func (p *ConnPipe) SetReadDeadline(t time.Time) error {
	conn := p.current()
	if conn == nil {
		return ErrPipeClosed
	}
	return conn.SetReadDeadline(t)
}

// SetWriteDeadline establece el deadline para escrituras.
func (p *ConnPipe) SetWriteDeadline(t time.Time) error {
	conn := p.current()
	if conn == nil {
		return ErrPipeClosed
	}
	return conn.SetWriteDeadline(t)
}

// ErrPipeClosed indica que el pipe fue cerrado.
var ErrPipeClosed = io.ErrClosedPipe

// ErrUnsupported indica un transporte no disponible en este sistema operativo.
var ErrUnsupported = errors.New("transport not supported on this platform")

// IsTimeout indica si err es un vencimiento de deadline de lectura/escritura.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ErrInvalidMessage indica que el mensaje recibido no es JSON válido.
type ErrInvalidMessage struct {
	Reason string
	Data   []byte
}

func (e *ErrInvalidMessage) Error() string {
	return "invalid message: " + e.Reason
}

// NewErrInvalidMessage crea un error de mensaje inválido.
func NewErrInvalidMessage(reason string, data []byte) error {
	return &ErrInvalidMessage{
		Reason: reason,
		Data:   data,
	}
}
