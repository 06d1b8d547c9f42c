//go:build !windows

package ipc

import (
	"context"
	"fmt"
)

// DialWindowsPipe sólo existe en Windows.
func DialWindowsPipe(_ context.Context, config *PipeConfig) (Pipe, error) {
	return nil, fmt.Errorf("named pipe %q: %w", config.Address, ErrUnsupported)
}

// NewWindowsPipeServer sólo existe en Windows.
func NewWindowsPipeServer(config *PipeConfig) (PipeServer, error) {
	return nil, fmt.Errorf("named pipe server %q: %w", config.Address, ErrUnsupported)
}
