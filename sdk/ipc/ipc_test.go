package ipc

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringRecord string

func (s stringRecord) String() string { return string(s) }

func newPipePair(t *testing.T) (*ConnPipe, *ConnPipe) {
	t.Helper()
	a, b := net.Pipe()
	pa, pb := NewConnPipe(a), NewConnPipe(b)
	t.Cleanup(func() {
		pa.Close()
		pb.Close()
	})
	return pa, pb
}

func TestCommandWriterFormatsPrefix(t *testing.T) {
	local, remote := newPipePair(t)

	w := NewCommandWriter(NewLineWriter(local), "")
	assert.Equal(t, DefaultCommandPrefix, w.Prefix())

	go func() {
		_ = w.WriteCommand(stringRecord("3;;;;;;;;;42"))
	}()

	line, err := NewLineReader(remote).ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "TRADE;3;;;;;;;;;42", string(line))
}

func TestLineWriterSerializesConcurrentWrites(t *testing.T) {
	local, remote := newPipePair(t)
	w := NewLineWriter(local)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.WriteString(strings.Repeat("x", 100)))
		}()
	}

	reader := NewLineReader(remote)
	for i := 0; i < n; i++ {
		line, err := reader.ReadLine()
		require.NoError(t, err)
		assert.Len(t, line, 100)
	}
	wg.Wait()
}

func TestLineReaderSurvivesTimeout(t *testing.T) {
	local, remote := newPipePair(t)
	reader := NewLineReaderWithTimeout(remote, 50*time.Millisecond)

	// Primera mitad de la línea, luego silencio.
	go func() {
		_, _ = local.Write([]byte(`{"_ticket":`))
	}()

	_, err := reader.ReadLine()
	require.Error(t, err)
	assert.True(t, IsTimeout(err))

	go func() {
		_, _ = local.Write([]byte("12345}\r\n"))
	}()

	line, err := reader.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"_ticket":12345}`, string(line))
}

func TestJSONReaderReadMessage(t *testing.T) {
	local, remote := newPipePair(t)
	writer := NewLineWriter(local)
	reader := NewJSONReader(remote)

	go func() {
		_ = writer.WriteJSON(map[string]interface{}{"_action": "OPEN", "_ticket": 7})
		_ = writer.WriteString("not json")
		_ = writer.WriteString("")
	}()

	msg, err := reader.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "OPEN", msg["_action"])
	assert.Equal(t, 7.0, msg["_ticket"])

	_, err = reader.ReadMessage()
	var invalid *ErrInvalidMessage
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "invalid JSON", invalid.Reason)

	_, err = reader.ReadMessage()
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "empty line", invalid.Reason)
}

func TestLineReaderEOF(t *testing.T) {
	local, remote := newPipePair(t)
	reader := NewLineReaderWithTimeout(remote, 0)

	require.NoError(t, local.Close())

	_, err := reader.ReadLine()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestConnPipeClosed(t *testing.T) {
	local, _ := newPipePair(t)
	require.NoError(t, local.Close())
	require.NoError(t, local.Close())

	_, err := local.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrPipeClosed)
	assert.ErrorIs(t, local.SetReadDeadline(time.Now()), ErrPipeClosed)
}

func TestParseJSONLine(t *testing.T) {
	m, err := ParseJSONLine([]byte(` {"_response":"ERROR","_response_value":134} `))
	require.NoError(t, err)
	assert.Equal(t, "ERROR", m["_response"])

	_, err = ParseJSONLine([]byte(`null`))
	assert.Error(t, err)
}

func TestParseTransport(t *testing.T) {
	for _, s := range []string{"tcp", "PIPE", " pipe_server "} {
		_, err := ParseTransport(s)
		assert.NoError(t, err)
	}
	_, err := ParseTransport("zmq")
	assert.Error(t, err)
}

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	pipe, err := Dial(context.Background(), DefaultPipeConfig(TransportTCP, ln.Addr().String()))
	require.NoError(t, err)
	defer pipe.Close()

	server := <-accepted
	defer server.Close()

	go func() {
		_ = NewCommandWriter(NewLineWriter(pipe), "TRADE").WriteCommand(stringRecord("0;;;;;;;;;"))
	}()

	line, err := NewLineReader(NewConnPipe(server)).ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "TRADE;0;;;;;;;;;", string(line))
}

func TestDialNamedPipeUnsupportedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("named pipes available")
	}
	_, err := Dial(context.Background(), DefaultPipeConfig(TransportPipe, "dwx_push"))
	assert.ErrorIs(t, err, ErrUnsupported)
}
