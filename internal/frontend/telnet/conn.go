package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End
	NOP  byte = 241
	GA   byte = 249 // Go Ahead

	OptSuppressGoAhead byte = 3
)

// Conn wraps a TCP connection with Telnet protocol handling. Reads block
// without a deadline; session idleness is tracked above the connection.
// Writes are serialized and safe for concurrent use.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		writeTimeout: writeTimeout,
	}
}

// Negotiate asks the client to suppress go-ahead so narration can stream
// while the player types.
//
// Postcondition: Negotiation bytes are written to the connection.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences and
// control characters. Bytes are accumulated raw so multi-byte UTF-8 input
// survives intact.
//
// Postcondition: Returns the next line without its terminator, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.handleIAC(&line); err != nil {
				return line.String(), err
			}
			continue
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b == 0x7f || b == '\b':
			// Clients in character mode send erase bytes.
			if n := line.Len(); n > 0 {
				line.Truncate(n - 1)
			}
			continue
		case b < 32 && b != '\t':
			continue
		}
		line.WriteByte(b)
	}
}

// handleIAC consumes the remainder of a Telnet command after its IAC byte.
// An escaped IAC is data and goes to line. Option requests other than
// suppress-go-ahead are refused so the client does not wait on them.
func (c *Conn) handleIAC(line *bytes.Buffer) error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case IAC:
		line.WriteByte(IAC)
	case WILL, WONT, DO, DONT:
		opt, err := c.reader.ReadByte()
		if err != nil {
			return err
		}
		if reply, ok := refusal(cmd, opt); ok {
			return c.Write([]byte{IAC, reply, opt})
		}
	case SB:
		return c.skipSubnegotiation()
	}
	return nil
}

// refusal returns the reply to an option request, if one is owed.
func refusal(cmd, opt byte) (byte, bool) {
	if opt == OptSuppressGoAhead {
		return 0, false
	}
	switch cmd {
	case DO:
		return WONT, true
	case WILL:
		return DONT, true
	}
	return 0, false
}

func (c *Conn) skipSubnegotiation() error {
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return err
		}
		if b != IAC {
			continue
		}
		next, err := c.reader.ReadByte()
		if err != nil {
			return err
		}
		if next == SE {
			return nil
		}
	}
}

// WriteLine sends text followed by \r\n.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	return c.Write([]byte(text + "\r\n"))
}

// WritePrompt sends a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	return c.Write([]byte(prompt))
}

// Write sends raw bytes to the client.
//
// Postcondition: The data is written to the connection or an error is returned.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if _, err := c.raw.Write(data); err != nil {
		return fmt.Errorf("telnet write: %w", err)
	}
	return nil
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
