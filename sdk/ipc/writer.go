package ipc

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xKoRx/echo-dwx/sdk/utils"
)

// DefaultCommandPrefix es el verbo con el que el terminal DWX reconoce un comando.
const DefaultCommandPrefix = "TRADE"

// LineWriter escribe líneas terminadas en \n a un Pipe.
//
// Serializa writes con mutex: dos goroutines nunca intercalan bytes de sus líneas.
type LineWriter struct {
	pipe    Pipe
	mu      sync.Mutex
	timeout time.Duration
}

// NewLineWriter crea un nuevo LineWriter con timeout de 5s.
func NewLineWriter(pipe Pipe) *LineWriter {
	return &LineWriter{
		pipe:    pipe,
		timeout: 5 * time.Second,
	}
}

// NewLineWriterWithTimeout crea un LineWriter con timeout custom (0 = sin deadline).
func NewLineWriterWithTimeout(pipe Pipe, timeout time.Duration) *LineWriter {
	lw := NewLineWriter(pipe)
	lw.timeout = timeout
	return lw
}

// WriteLine escribe una línea de bytes. Agrega \n si falta.
func (lw *LineWriter) WriteLine(data []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	buf := make([]byte, len(data), len(data)+1)
	copy(buf, data)
	buf = utils.EnsureNewlineBytes(buf)

	if lw.timeout > 0 {
		if err := lw.pipe.SetWriteDeadline(time.Now().Add(lw.timeout)); err != nil {
			return err
		}
	}

	n, err := lw.pipe.Write(buf)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	if n != len(buf) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(buf))
	}

	return nil
}

// WriteString escribe un string como línea.
func (lw *LineWriter) WriteString(s string) error {
	return lw.WriteLine([]byte(s))
}

// WriteJSON serializa v a JSON y lo escribe como una línea.
func (lw *LineWriter) WriteJSON(v interface{}) error {
	data, err := utils.MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return lw.WriteLine(data)
}

// SetTimeout establece el timeout.
func (lw *LineWriter) SetTimeout(timeout time.Duration) {
	lw.timeout = timeout
}

// CommandWriter escribe registros de comando con el formato "<prefix>;<registro>".
type CommandWriter struct {
	lines  *LineWriter
	prefix string
}

// NewCommandWriter crea un CommandWriter. prefix vacío usa DefaultCommandPrefix.
//
// Example:
//
//	w := ipc.NewCommandWriter(ipc.NewLineWriter(pipe), "")
//	err := w.WriteCommand(rec) // TRADE;3;;;;;;;;;42\n
func NewCommandWriter(lines *LineWriter, prefix string) *CommandWriter {
	if prefix == "" {
		prefix = DefaultCommandPrefix
	}
	return &CommandWriter{lines: lines, prefix: prefix}
}

// FormatCommand retorna la línea que WriteCommand enviaría, sin \n.
func (w *CommandWriter) FormatCommand(rec fmt.Stringer) string {
	var b strings.Builder
	b.WriteString(w.prefix)
	b.WriteByte(';')
	b.WriteString(rec.String())
	return b.String()
}

// WriteCommand envía el registro.
func (w *CommandWriter) WriteCommand(rec fmt.Stringer) error {
	return w.lines.WriteString(w.FormatCommand(rec))
}

// Prefix retorna el verbo configurado.
func (w *CommandWriter) Prefix() string {
	return w.prefix
}
