package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry_ListsEveryBuiltin(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	require.Len(t, cmds, len(BuiltinCommands()))
	assert.Equal(t, "interrogate", cmds[0].Name)
	assert.Equal(t, "quit", cmds[len(cmds)-1].Name)
}

func TestResolve_VerbsToHandlers(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		input   string
		handler string
	}{
		{"interrogate", HandlerInterrogate},
		{"claims", HandlerInterrogate},
		{"c", HandlerClaim},
		{"unlock", HandlerInspect},
		{"a", HandlerAgree},
		{"Q", HandlerQuestion},
		{"disagree", HandlerQuestion},
		{"press", HandlerCheck},
		{"chat", HandlerConverse},
		{"o", HandlerOption},
		{"v", HandlerVerdict},
		{"ACCEPT", HandlerAccept},
		{"reject", HandlerReject},
		{"bottle", HandlerDrink},
		{"st", HandlerStats},
		{"s", HandlerSkip},
		{"n", HandlerNext},
		{"l", HandlerLook},
		{"?", HandlerHelp},
		{"exit", HandlerQuit},
	}
	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q", tt.input)
	}
}

func TestResolve_Prefixes(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("interr")
	require.True(t, ok)
	assert.Equal(t, HandlerInterrogate, cmd.Handler)

	cmd, ok = r.Resolve("Acc")
	require.True(t, ok)
	assert.Equal(t, HandlerAccept, cmd.Handler)

	_, ok = r.Resolve("ac")
	assert.False(t, ok, "prefixes shorter than three letters are not accepted")
	_, ok = r.Resolve("teleport")
	assert.False(t, ok)
}

func TestResolve_AmbiguousPrefix(t *testing.T) {
	r, err := NewRegistry([]Command{
		{Name: "reject", Handler: HandlerReject, Category: CategoryVerdict},
		{Name: "repeat", Handler: "repeat", Category: CategorySystem},
	})
	require.NoError(t, err)
	_, ok := r.Resolve("rep")
	assert.True(t, ok)
	_, ok = r.Resolve("re")
	assert.False(t, ok)

	r, err = NewRegistry([]Command{
		{Name: "recall", Handler: "recall", Category: CategorySystem},
		{Name: "record", Handler: "record", Category: CategorySystem},
	})
	require.NoError(t, err)
	_, ok = r.Resolve("rec")
	assert.False(t, ok)
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
		want string
	}{
		{"duplicate name", []Command{
			{Name: "test", Handler: "a", Category: CategorySystem},
			{Name: "test", Handler: "b", Category: CategorySystem},
		}, `"test" already belongs to "test"`},
		{"alias shadows name", []Command{
			{Name: "test", Handler: "a", Category: CategorySystem},
			{Name: "other", Aliases: []string{"TEST"}, Handler: "b", Category: CategorySystem},
		}, `"test" already belongs to "test"`},
		{"numeric alias", []Command{
			{Name: "first", Aliases: []string{"1"}, Handler: "a", Category: CategorySystem},
		}, "reserved for numbered choices"},
		{"missing handler", []Command{{Name: "x", Category: CategorySystem}}, "name and handler are required"},
		{"unknown category", []Command{{Name: "x", Handler: "x", Category: "misc"}}, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.cmds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSections_FollowCategoryOrder(t *testing.T) {
	sections := DefaultRegistry().Sections()
	require.Len(t, sections, len(CategoryOrder))
	for i, s := range sections {
		assert.Equal(t, CategoryOrder[i], s.Category)
		for _, c := range s.Commands {
			assert.Equal(t, s.Category, c.Category)
		}
	}
	interview := sections[0].Commands
	require.Len(t, interview, 7)
	assert.Equal(t, "interrogate", interview[0].Name, "declaration order, not alphabetical")
}

func TestPropertyEveryNameAndAliasResolvesToItsCommand(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	rapid.Check(t, func(t *rapid.T) {
		cmd := cmds[rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd")]
		keys := append([]string{cmd.Name}, cmd.Aliases...)
		key := keys[rapid.IntRange(0, len(keys)-1).Draw(t, "key")]
		got, ok := r.Resolve(key)
		if !ok || got.Name != cmd.Name {
			t.Fatalf("Resolve(%q) = %v, %v; want %q", key, got, ok, cmd.Name)
		}
	})
}

func TestPropertyFullNamePrefixesResolveWhenUnique(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	rapid.Check(t, func(t *rapid.T) {
		cmd := cmds[rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd")]
		if len(cmd.Name) < minPrefix {
			t.Skip("name shorter than a prefix")
		}
		n := rapid.IntRange(minPrefix, len(cmd.Name)).Draw(t, "len")
		got, ok := r.Resolve(cmd.Name[:n])
		if ok && got.Name != cmd.Name {
			// Another command's alias or name can own this exact key.
			if _, exact := r.lookup[cmd.Name[:n]]; !exact {
				t.Fatalf("prefix %q resolved to %q, want %q", cmd.Name[:n], got.Name, cmd.Name)
			}
		}
	})
}
