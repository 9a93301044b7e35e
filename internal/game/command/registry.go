package command

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// minPrefix is the shortest abbreviation Resolve accepts for a command name.
const minPrefix = 3

// Registry resolves player verbs to commands. Names and aliases share one
// namespace; help lists commands in declaration order within each category.
type Registry struct {
	ordered []*Command
	lookup  map[string]*Command // name or alias → command
}

// Section is one category of help output.
type Section struct {
	Category string
	Commands []*Command
}

// NewRegistry validates cmds and indexes them by name and alias.
//
// Precondition: every command has a name, a handler, and a category listed in CategoryOrder.
// Postcondition: Returns a Registry, or an error naming the first invalid or colliding command.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{lookup: make(map[string]*Command, len(cmds)*2)}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" || cmd.Handler == "" {
			return nil, fmt.Errorf("command %d: name and handler are required", i)
		}
		if !slices.Contains(CategoryOrder, cmd.Category) {
			return nil, fmt.Errorf("command %q: unknown category %q", cmd.Name, cmd.Category)
		}
		for _, key := range append([]string{cmd.Name}, cmd.Aliases...) {
			key = strings.ToLower(key)
			if _, err := strconv.Atoi(key); err == nil {
				return nil, fmt.Errorf("command %q: %q is reserved for numbered choices", cmd.Name, key)
			}
			if prev, taken := r.lookup[key]; taken {
				return nil, fmt.Errorf("command %q: %q already belongs to %q", cmd.Name, key, prev.Name)
			}
			r.lookup[key] = cmd
		}
		r.ordered = append(r.ordered, cmd)
	}
	return r, nil
}

// DefaultRegistry returns the registry of BuiltinCommands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve finds a command by name, alias, or an unambiguous prefix of at
// least three letters of a command name. Matching ignores case.
func (r *Registry) Resolve(input string) (*Command, bool) {
	input = strings.ToLower(input)
	if cmd, ok := r.lookup[input]; ok {
		return cmd, true
	}
	if len(input) < minPrefix {
		return nil, false
	}
	var found *Command
	for _, cmd := range r.ordered {
		if strings.HasPrefix(cmd.Name, input) {
			if found != nil {
				return nil, false
			}
			found = cmd
		}
	}
	return found, found != nil
}

// Commands returns every command in declaration order.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.ordered)
}

// Sections groups commands by category in CategoryOrder, skipping empty categories.
func (r *Registry) Sections() []Section {
	var out []Section
	for _, cat := range CategoryOrder {
		var cmds []*Command
		for _, cmd := range r.ordered {
			if cmd.Category == cat {
				cmds = append(cmds, cmd)
			}
		}
		if len(cmds) > 0 {
			out = append(out, Section{Category: cat, Commands: cmds})
		}
	}
	return out
}
