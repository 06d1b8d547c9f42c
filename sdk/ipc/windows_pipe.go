//go:build windows

package ipc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Microsoft/go-winio"
)

func pipePath(name string) string {
	return fmt.Sprintf(`\\.\pipe\%s`, name)
}

// DialWindowsPipe conecta como cliente a un Named Pipe existente.
//
// Example:
//
//	pipe, err := ipc.DialWindowsPipe(ctx, ipc.DefaultPipeConfig(ipc.TransportPipe, "dwx_push"))
//	// Pipe real: \\.\pipe\dwx_push
func DialWindowsPipe(ctx context.Context, config *PipeConfig) (Pipe, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	conn, err := winio.DialPipeContext(ctx, pipePath(config.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pipe: %w", err)
	}

	return NewConnPipe(conn), nil
}

// WindowsPipeServer implementa PipeServer para Named Pipes de Windows.
type WindowsPipeServer struct {
	mu          sync.RWMutex
	listener    net.Listener
	name        string
	currentConn net.Conn
}

// NewWindowsPipeServer crea el Named Pipe \\.\pipe\<config.Address>.
func NewWindowsPipeServer(config *PipeConfig) (PipeServer, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	pipeConfig := &winio.PipeConfig{
		// Default: acceso local
		SecurityDescriptor: "",

		// Byte mode: line-delimited
		MessageMode: false,

		InputBufferSize:  int32(config.BufferSize),
		OutputBufferSize: int32(config.BufferSize),
	}

	listener, err := winio.ListenPipe(pipePath(config.Address), pipeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe listener: %w", err)
	}

	return &WindowsPipeServer{
		listener: listener,
		name:     config.Address,
	}, nil
}

// WaitForConnection espera a que un cliente se conecte.
//
// Bloquea hasta que un cliente se conecta o el contexto se cancela.
func (s *WindowsPipeServer) WaitForConnection(ctx context.Context) error {
	connCh := make(chan net.Conn, 1)
	errCh := make(chan error, 1)

	go func() {
		conn, err := s.listener.Accept()
		if err != nil {
			errCh <- err
			return
		}
		connCh <- conn
	}()

	select {
	case conn := <-connCh:
		s.mu.Lock()
		s.currentConn = conn
		s.mu.Unlock()
		return nil
	case err := <-errCh:
		return fmt.Errorf("accept failed: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *WindowsPipeServer) conn() net.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConn
}

// Read implementa io.Reader.
func (s *WindowsPipeServer) Read(p []byte) (int, error) {
	conn := s.conn()
	if conn == nil {
		return 0, ErrPipeClosed
	}
	return conn.Read(p)
}

// Write implementa io.Writer.
func (s *WindowsPipeServer) Write(p []byte) (int, error) {
	conn := s.conn()
	if conn == nil {
		return 0, ErrPipeClosed
	}
	return conn.Write(p)
}

// Close cierra el servidor y la conexión activa.
func (s *WindowsPipeServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.currentConn != nil {
		err = s.currentConn.Close()
		s.currentConn = nil
	}

	if s.listener != nil {
		if lerr := s.listener.Close(); lerr != nil && err == nil {
			err = lerr
		}
		s.listener = nil
	}

	return err
}

// SetReadDeadline establece el deadline para lecturas.
func (s *WindowsPipeServer) SetReadDeadline(t time.Time) error {
	conn := s.conn()
	if conn == nil {
		return ErrPipeClosed
	}
	return conn.SetReadDeadline(t)
}

// SetWriteDeadline establece el deadline para escrituras.
func (s *WindowsPipeServer) SetWriteDeadline(t time.Time) error {
	conn := s.conn()
	if conn == nil {
		return ErrPipeClosed
	}
	return conn.SetWriteDeadline(t)
}

// Name retorna el nombre del pipe (sin prefijo).
func (s *WindowsPipeServer) Name() string {
	return s.name
}
