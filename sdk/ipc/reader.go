package ipc

import (
	"bufio"
	"bytes"
	"fmt"
	"time"

	"github.com/xKoRx/echo-dwx/sdk/utils"
)

// MaxLineSize es el tamaño máximo de una línea (1MB).
const MaxLineSize = 1024 * 1024

// LineReader lee líneas terminadas en \n desde un Pipe.
//
// A diferencia de bufio.Scanner, sobrevive a un vencimiento de deadline: los
// bytes de una línea incompleta quedan pendientes y la siguiente llamada
// continúa donde quedó. No es seguro para uso concurrente.
type LineReader struct {
	pipe    Pipe
	reader  *bufio.Reader
	pending []byte
	timeout time.Duration
}

// NewLineReader crea un LineReader con timeout de 5s.
func NewLineReader(pipe Pipe) *LineReader {
	return &LineReader{
		pipe:    pipe,
		reader:  bufio.NewReaderSize(pipe, 64*1024),
		timeout: 5 * time.Second,
	}
}

// NewLineReaderWithTimeout crea un LineReader con timeout custom (0 = sin deadline).
func NewLineReaderWithTimeout(pipe Pipe, timeout time.Duration) *LineReader {
	lr := NewLineReader(pipe)
	lr.timeout = timeout
	return lr
}

// ReadLine lee una línea completa, sin el \n (ni \r) final.
//
// Retorna el error del pipe tal cual: IsTimeout(err) indica vencimiento de
// deadline, io.EOF indica cierre del otro extremo.
func (lr *LineReader) ReadLine() ([]byte, error) {
	if lr.timeout > 0 {
		if err := lr.pipe.SetReadDeadline(time.Now().Add(lr.timeout)); err != nil {
			return nil, err
		}
	}

	for {
		chunk, err := lr.reader.ReadSlice('\n')
		lr.pending = append(lr.pending, chunk...)

		if len(lr.pending) > MaxLineSize {
			lr.pending = nil
			return nil, NewErrInvalidMessage(fmt.Sprintf("line exceeds %d bytes", MaxLineSize), nil)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return nil, err
		}

		line := bytes.TrimRight(lr.pending, "\r\n")
		result := make([]byte, len(line))
		copy(result, line)
		lr.pending = lr.pending[:0]
		return result, nil
	}
}

// SetTimeout establece el timeout.
func (lr *LineReader) SetTimeout(timeout time.Duration) {
	lr.timeout = timeout
}

// JSONReader lee mensajes JSON line-delimited desde un Pipe.
type JSONReader struct {
	lines *LineReader
}

// NewJSONReader crea un nuevo JSONReader para un pipe.
//
// Example:
//
//	reader := ipc.NewJSONReaderWithTimeout(pipe, time.Second)
//	msg, err := reader.ReadMessage()
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(msg["_action"])
func NewJSONReader(pipe Pipe) *JSONReader {
	return &JSONReader{lines: NewLineReader(pipe)}
}

// NewJSONReaderWithTimeout crea un JSONReader con timeout custom.
func NewJSONReaderWithTimeout(pipe Pipe, timeout time.Duration) *JSONReader {
	return &JSONReader{lines: NewLineReaderWithTimeout(pipe, timeout)}
}

// ReadLine lee una línea sin parsear.
func (r *JSONReader) ReadLine() ([]byte, error) {
	return r.lines.ReadLine()
}

// ReadMessage lee y parsea un mensaje JSON line-delimited.
//
// Una línea vacía o que no es un objeto JSON retorna *ErrInvalidMessage; el
// reader sigue siendo utilizable.
func (r *JSONReader) ReadMessage() (map[string]interface{}, error) {
	line, err := r.lines.ReadLine()
	if err != nil {
		return nil, err
	}
	return ParseJSONLine(line)
}

// SetTimeout establece el timeout para operaciones de lectura.
func (r *JSONReader) SetTimeout(timeout time.Duration) {
	r.lines.SetTimeout(timeout)
}

// ParseJSONLine parsea una línea JSON a map.
func ParseJSONLine(line []byte) (map[string]interface{}, error) {
	b := bytes.TrimSpace(line)
	if len(b) == 0 {
		return nil, NewErrInvalidMessage("empty line", b)
	}
	if err := utils.ValidateJSON(b); err != nil {
		return nil, NewErrInvalidMessage("invalid JSON", b)
	}
	m, err := utils.JSONToMap(b)
	if err != nil {
		return nil, NewErrInvalidMessage(err.Error(), b)
	}
	if m == nil {
		return nil, NewErrInvalidMessage("not a JSON object", b)
	}
	return m, nil
}
