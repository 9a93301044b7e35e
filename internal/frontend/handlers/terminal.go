// Package handlers runs vetting sessions over a line-oriented terminal:
// Telnet clients through GameHandler, or a local console for the play command.
package handlers

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
)

// Terminal is the client surface a session reads commands from and renders to.
// *telnet.Conn satisfies it.
type Terminal interface {
	ReadLine() (string, error)
	Write(data []byte) error
	WriteLine(text string) error
	WritePrompt(prompt string) error
}

var _ Terminal = (*telnet.Conn)(nil)

// StreamTerminal adapts a reader/writer pair, such as stdin and stdout, into
// a Terminal. When color is false, ANSI sequences are stripped on write.
type StreamTerminal struct {
	r     *bufio.Reader
	w     io.Writer
	color bool
	mu    sync.Mutex
}

// NewStreamTerminal wraps r and w.
//
// Precondition: r and w must be non-nil.
func NewStreamTerminal(r io.Reader, w io.Writer, color bool) *StreamTerminal {
	return &StreamTerminal{r: bufio.NewReader(r), w: w, color: color}
}

// ReadLine returns the next line without its terminator.
func (s *StreamTerminal) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

// Write sends data, stripping styling when color is disabled.
func (s *StreamTerminal) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := string(data)
	if !s.color {
		text = telnet.StripANSI(text)
	}
	_, err := io.WriteString(s.w, text)
	return err
}

// WriteLine sends text followed by a line break.
func (s *StreamTerminal) WriteLine(text string) error {
	return s.Write([]byte(text + "\r\n"))
}

// WritePrompt sends prompt without a line break.
func (s *StreamTerminal) WritePrompt(prompt string) error {
	return s.Write([]byte(prompt))
}
