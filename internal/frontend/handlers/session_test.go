package handlers_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/votemenot/internal/frontend/handlers"
	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/hearing"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
)

const firstYAML = `
id: first
name: Test Politician
affiliation: evil
challenge_level: 100
hard_skill: scholar
initial: ["Hello."]
claims:
  - label: "Claim A"
    dialogue:
      - text: "It was legal."
        highlight: "legal"
    agree: ["Thanks."]
    hard_success: ["It was illegal."]
    hard_failure: ["No comment."]
`

const secondYAML = `
id: second
name: Second
affiliation: good
challenge_level: 50
hard_skill: speech
initial: ["Hi."]
claims:
  - label: "Claim Z"
    dialogue: ["Nothing to see."]
`

type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int { return min(f.v, n-1) }

// fakeTerminal feeds queued lines and records everything written, unstyled.
type fakeTerminal struct {
	in   chan string
	mu   sync.Mutex
	out  strings.Builder
	mark int
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{in: make(chan string, 16)}
}

func (f *fakeTerminal) ReadLine() (string, error) {
	line, ok := <-f.in
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (f *fakeTerminal) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.WriteString(telnet.StripANSI(string(data)))
	return nil
}

func (f *fakeTerminal) WriteLine(text string) error { return f.Write([]byte(text + "\r\n")) }

func (f *fakeTerminal) WritePrompt(prompt string) error { return f.Write([]byte(prompt)) }

func (f *fakeTerminal) text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

// expect waits for substr to appear after the previous match.
func (f *fakeTerminal) expect(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		idx := strings.Index(f.text()[f.mark:], substr)
		if idx < 0 {
			return false
		}
		f.mark += idx + len(substr)
		return true
	}, 3*time.Second, 2*time.Millisecond, "waiting for %q in:\n%s", substr, f.text())
}

func (f *fakeTerminal) send(line string) { f.in <- line }

func testRoster(t *testing.T) *politician.Roster {
	t.Helper()
	var ps []*politician.Politician
	for _, y := range []string{firstYAML, secondYAML} {
		p, err := politician.LoadFromBytes([]byte(y))
		require.NoError(t, err)
		ps = append(ps, p)
	}
	roster, err := politician.NewRoster(ps)
	require.NoError(t, err)
	return roster
}

func fastSettings() hearing.Settings {
	s := hearing.DefaultSettings()
	s.Narration = narration.Config{CharDelay: time.Millisecond, AutoProgress: true}
	s.Encounter.FadeDuration = time.Millisecond
	return s
}

type run struct {
	term *fakeTerminal
	done chan error
}

func startSession(t *testing.T, ctx context.Context, s hearing.Settings, cfg handlers.SessionConfig) *run {
	t.Helper()
	logger := zaptest.NewLogger(t)
	roster := testRoster(t)
	term := newFakeTerminal()
	session := handlers.NewSession(term, func(sink narration.Sink) *hearing.Game {
		return hearing.New(s, roster, dice.NewLoggedRoller(fixedSource{}, logger), sink, logger)
	}, command.DefaultRegistry(), cfg, logger)

	r := &run{term: term, done: make(chan error, 1)}
	go func() { r.done <- session.Run(ctx) }()
	return r
}

func (r *run) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end")
		return nil
	}
}

var quickLoop = handlers.SessionConfig{TickInterval: time.Millisecond}

func TestSession_FullHearing(t *testing.T) {
	r := startSession(t, context.Background(), fastSettings(), quickLoop)
	term := r.term

	term.expect(t, "=== Test Politician (1 of 2) ===")
	term.expect(t, "Test Politician: Hello.")
	term.expect(t, "[Test Politician E:10/10]> ")

	term.send("inspect 1")
	term.expect(t, "A new claim is open")
	term.expect(t, "]> ")

	term.send("interrogate")
	term.expect(t, "1) Claim A")
	term.expect(t, "]> ")

	term.send("claim 1")
	term.expect(t, "It was legal.")
	term.expect(t, "Claim: Claim A")
	term.expect(t, "]> ")

	term.send("check")
	term.expect(t, "[Hard check: scholar")
	term.expect(t, "Success.")
	term.expect(t, "It was illegal.")
	term.expect(t, "[Test Politician E:7/10]> ")

	term.send("accept")
	term.expect(t, "open the verdict panel first")

	term.send("verdict")
	term.expect(t, "accept or reject")
	term.expect(t, "]> ")

	term.send("accept")
	term.expect(t, "=== Second (2 of 2) ===")
	term.expect(t, "Second: Hi.")
	term.expect(t, "[Second E:9/10]> ")

	term.send("verdict")
	term.expect(t, "accept or reject")
	term.send("reject")
	term.expect(t, "=== The hearings are over ===")

	assert.NoError(t, r.wait(t))
}

func TestSession_StatsAndDrink(t *testing.T) {
	r := startSession(t, context.Background(), fastSettings(), quickLoop)
	term := r.term
	term.expect(t, "]> ")

	term.send("drink")
	term.expect(t, "You drink a bottle: +35% for 1m0s. 3 left.")
	term.send("stats")
	term.expect(t, "=== Stats ===")
	term.expect(t, "Boost +35%")
	term.expect(t, "Bottles  3")

	term.send("quit")
	term.expect(t, "Goodbye")
	assert.NoError(t, r.wait(t))
}

func TestSession_RejectedActionsExplainThemselves(t *testing.T) {
	s := fastSettings()
	s.Energy.HardCost = 11
	r := startSession(t, context.Background(), s, quickLoop)
	term := r.term
	term.expect(t, "]> ")

	term.send("frobnicate")
	term.expect(t, `Unknown command "frobnicate"`)

	term.send("claim 1")
	term.expect(t, "You can't do that right now.")

	term.send("interrogate")
	term.expect(t, "sealed - inspect 1")
	term.send("claim 1")
	term.expect(t, "That claim is sealed.")

	term.send("inspect 1")
	term.send("claim 1")
	term.expect(t, "Claim: Claim A")
	term.send("check")
	term.expect(t, "You are too drained for that.")

	term.send("claim x")
	term.expect(t, `"x" is not a valid number`)

	close(term.in)
	assert.NoError(t, r.wait(t))
}

func TestSession_NumbersAndAbbreviations(t *testing.T) {
	r := startSession(t, context.Background(), fastSettings(), quickLoop)
	term := r.term
	term.expect(t, "]> ")

	term.send("1")
	term.expect(t, "There is no numbered list to pick from right now.")

	term.send("insp 1")
	term.expect(t, "A new claim is open")
	term.send("interr")
	term.expect(t, "1) Claim A")
	term.expect(t, "]> ")
	term.send("1")
	term.expect(t, "It was legal.")
	term.expect(t, "Claim: Claim A")

	term.send("quit")
	assert.NoError(t, r.wait(t))
}

func TestSession_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := startSession(t, ctx, fastSettings(), quickLoop)
	r.term.expect(t, "]> ")

	cancel()
	assert.ErrorIs(t, r.wait(t), context.Canceled)
	assert.Contains(t, r.term.text(), "The hearing room is closing")
}

func TestSession_IdleTimeout(t *testing.T) {
	cfg := handlers.SessionConfig{
		TickInterval:    time.Millisecond,
		IdleTimeout:     50 * time.Millisecond,
		IdleGracePeriod: 50 * time.Millisecond,
	}
	r := startSession(t, context.Background(), fastSettings(), cfg)

	r.term.expect(t, "Still there?")
	assert.ErrorIs(t, r.wait(t), handlers.ErrIdleTimeout)
	assert.Contains(t, r.term.text(), "You drifted off.")
}
