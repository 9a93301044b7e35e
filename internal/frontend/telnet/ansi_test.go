package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mcorrupt\033[0m", Colorize(Red, "corrupt"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32methics: 60\033[0m", Colorf(Green, "ethics: %d", 60))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
}

func TestStripANSI_CursorControl(t *testing.T) {
	assert.Equal(t, "\rprompt> ", StripANSI(ClearLine+"prompt> "))
}

func TestStripANSI_NoEscapes(t *testing.T) {
	assert.Equal(t, "plain text", StripANSI("plain text"))
	assert.Equal(t, "", StripANSI(""))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[##########]", Bar(10, 10, 10))
	assert.Equal(t, "[###-------]", Bar(3, 10, 10))
	assert.Equal(t, "[----------]", Bar(0, 10, 10))
	assert.Equal(t, "[#####]", Bar(12, 10, 5))
	assert.Equal(t, "[-----]", Bar(-2, 10, 5))
}

func TestPropertyStripANSIInversesColorize(t *testing.T) {
	colors := []string{Red, Green, Blue, Yellow, Cyan, Magenta, White, Bold, Dim, Blink}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

func TestPropertyStripANSIOutputShorterOrEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(StripANSI(text)), len(text))
	})
}

func TestPropertyBarWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 40).Draw(t, "width")
		total := rapid.IntRange(1, 50).Draw(t, "total")
		current := rapid.IntRange(-10, 60).Draw(t, "current")
		assert.Len(t, Bar(current, total, width), width+2)
	})
}
