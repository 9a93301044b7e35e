package telnet

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// pipeConn returns a Conn reading from one end of an in-memory pipe and the
// other end for the test to write client bytes into.
func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewConn(server, time.Second), client
}

func feed(client net.Conn, data []byte) {
	go func() { _, _ = client.Write(data) }()
}

func TestReadLine_CRLF(t *testing.T) {
	conn, client := pipeConn(t)
	feed(client, []byte("claim 1\r\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "claim 1", line)
}

func TestReadLine_CRNUL(t *testing.T) {
	conn, client := pipeConn(t)
	feed(client, []byte("agree\r\x00next\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "agree", line)
	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestReadLine_FiltersNegotiation(t *testing.T) {
	const (
		optEcho = 1
		optNAWS = 31
	)
	conn, client := pipeConn(t)
	replies := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 6)
		_, _ = io.ReadFull(client, buf)
		replies <- buf
	}()

	input := []byte{IAC, DO, OptSuppressGoAhead, 'o', IAC, DO, optEcho, 'k'}
	input = append(input, IAC, SB, 24, 0, 'x', 't', 'e', 'r', 'm', IAC, SE)
	input = append(input, IAC, WILL, optNAWS, IAC, NOP, '\n')
	feed(client, input)

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ok", line)

	select {
	case got := <-replies:
		assert.Equal(t, []byte{IAC, WONT, optEcho, IAC, DONT, optNAWS}, got, "unsupported options are refused; SGA is not")
	case <-time.After(2 * time.Second):
		t.Fatal("no refusal sent")
	}
}

func TestReadLine_EscapedIACIsData(t *testing.T) {
	conn, client := pipeConn(t)
	feed(client, []byte{'a', IAC, IAC, 'b', '\n'})

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a\xffb", line)
}

func TestReadLine_Backspace(t *testing.T) {
	conn, client := pipeConn(t)
	feed(client, []byte("agrx\x7fee\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "agree", line)
}

func TestReadLine_PreservesUTF8(t *testing.T) {
	conn, client := pipeConn(t)
	feed(client, []byte("café\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "café", line)
}

func TestReadLine_EOF(t *testing.T) {
	conn, client := pipeConn(t)
	go func() {
		_, _ = client.Write([]byte("partial"))
		client.Close()
	}()

	line, err := conn.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "partial", line)
}

func TestWriteLineAndNegotiate(t *testing.T) {
	conn, client := pipeConn(t)
	go func() {
		_ = conn.Negotiate()
		_ = conn.WriteLine("Mayor Hale:")
	}()

	buf := make([]byte, 3)
	_, err := io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{IAC, WILL, OptSuppressGoAhead}, buf)

	line := make([]byte, len("Mayor Hale:\r\n"))
	_, err = io.ReadFull(client, line)
	require.NoError(t, err)
	assert.Equal(t, "Mayor Hale:\r\n", string(line))
}

func TestPropertyReadLineDropsControlBytes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[a-z0-9 ]{0,40}`).Draw(rt, "text")
		noise := rapid.SliceOfN(rapid.SampledFrom([]byte{1, 2, 7, 27, 30}), 0, 5).Draw(rt, "noise")

		server, client := net.Pipe()
		defer server.Close()
		defer client.Close()
		conn := NewConn(server, time.Second)
		go func() { _, _ = client.Write(append(append(noise, text...), '\n')) }()

		line, err := conn.ReadLine()
		require.NoError(rt, err)
		assert.Equal(rt, text, line)
	})
}
