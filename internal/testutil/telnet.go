// Package testutil provides helpers for exercising the Telnet frontend in tests.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"
)

// DefaultTimeout bounds each ReadUntil call made through Expect.
const DefaultTimeout = 5 * time.Second

const (
	iac  = 255
	will = 251
	dont = 254
)

var csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Clean removes Telnet negotiation and ANSI styling from raw server output.
// An incomplete trailing IAC sequence is dropped.
func Clean(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != iac {
			b.WriteByte(raw[i])
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		switch cmd := raw[i+1]; {
		case cmd == iac:
			b.WriteByte(iac)
			i++
		case cmd >= will && cmd <= dont:
			i += 2
		default:
			i++
		}
	}
	return csiPattern.ReplaceAllString(b.String(), "")
}

// TelnetClient is a player-side Telnet client for integration tests.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
	// seen accumulates cleaned output across reads.
	seen strings.Builder
}

// NewTelnetClient dials addr and closes the connection when the test ends.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() { conn.Close() })

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil reads until the cleaned output contains substr and returns the
// cleaned text read by this call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns output containing substr, or fails the test on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var raw strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, Clean(raw.String()), err)
		}
		raw.WriteByte(b)
		// Escape sequences are only removable once complete, so match on
		// the cleaned text after every byte.
		if text := Clean(raw.String()); strings.Contains(text, substr) {
			c.seen.WriteString(text)
			return text
		}
	}
}

// Expect is ReadUntil with DefaultTimeout.
func (c *TelnetClient) Expect(substr string) string {
	c.t.Helper()
	return c.ReadUntil(substr, DefaultTimeout)
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Transcript returns all cleaned output matched so far.
func (c *TelnetClient) Transcript() string { return c.seen.String() }

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
