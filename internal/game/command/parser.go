package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult is one player input line split into a verb and its arguments.
type ParseResult struct {
	// Command is the first word, lowercased. Empty for a blank line.
	Command string
	Args    []string
}

// Parse splits line on whitespace and lowercases the verb.
func Parse(line string) ParseResult {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	if verb == "" {
		return ParseResult{}
	}
	return ParseResult{Command: strings.ToLower(verb), Args: strings.Fields(rest)}
}

// IsNumber reports whether the whole command is a bare number such as "2".
// Frontends route these to whichever numbered list is on screen.
func (p ParseResult) IsNumber() bool {
	if p.Command == "" || len(p.Args) > 0 {
		return false
	}
	_, err := strconv.Atoi(p.Command)
	return err == nil
}

// As rewrites a bare number into verb with the number as its argument.
//
// Precondition: p.IsNumber().
func (p ParseResult) As(verb string) ParseResult {
	return ParseResult{Command: verb, Args: []string{p.Command}}
}

// IndexArg converts the first argument from the 1-based numbering shown to
// players into a 0-based index.
//
// Postcondition: Returns an error when the argument is missing, not a number, or < 1.
func (p ParseResult) IndexArg() (int, error) {
	if len(p.Args) == 0 {
		return 0, fmt.Errorf("%s needs a number", p.Command)
	}
	n, err := strconv.Atoi(p.Args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a valid number", p.Args[0])
	}
	return n - 1, nil
}
