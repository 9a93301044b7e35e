// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryInterview = "interview"
	CategoryQuestion  = "question"
	CategoryVerdict   = "verdict"
	CategoryItems     = "items"
	CategoryNarration = "narration"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to encounter operations.
const (
	HandlerInterrogate = "interrogate"
	HandlerClaim       = "claim"
	HandlerInspect     = "inspect"
	HandlerAgree       = "agree"
	HandlerQuestion    = "question"
	HandlerCheck       = "check"
	HandlerConverse    = "converse"
	HandlerOption      = "option"
	HandlerVerdict     = "verdict"
	HandlerAccept      = "accept"
	HandlerReject      = "reject"
	HandlerDrink       = "drink"
	HandlerStats       = "stats"
	HandlerSkip        = "skip"
	HandlerNext        = "next"
	HandlerLook        = "look"
	HandlerHelp        = "help"
	HandlerQuit        = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "claim <n>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler maps to the encounter operation.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Interview commands
		{Name: "interrogate", Aliases: []string{"int", "claims"}, Usage: "interrogate", Help: "Open or close the list of unlocked claims", Category: CategoryInterview, Handler: HandlerInterrogate},
		{Name: "claim", Aliases: []string{"c"}, Usage: "claim <n>", Help: "Raise unlocked claim n", Category: CategoryInterview, Handler: HandlerClaim},
		{Name: "inspect", Aliases: []string{"doc", "unlock"}, Usage: "inspect <n>", Help: "Study the dossier to unlock claim n", Category: CategoryInterview, Handler: HandlerInspect},
		{Name: "agree", Aliases: []string{"a"}, Usage: "agree", Help: "Accept the explanation for this claim", Category: CategoryInterview, Handler: HandlerAgree},
		{Name: "question", Aliases: []string{"q", "disagree"}, Usage: "question", Help: "Dispute the claim and question the speaker", Category: CategoryInterview, Handler: HandlerQuestion},
		{Name: "check", Aliases: []string{"press"}, Usage: "check", Help: "Attempt the speaker's hard skill check (costs energy)", Category: CategoryInterview, Handler: HandlerCheck},
		{Name: "converse", Aliases: []string{"chat"}, Usage: "converse", Help: "Make small talk about the claim", Category: CategoryInterview, Handler: HandlerConverse},

		// Question tree commands
		{Name: "option", Aliases: []string{"o"}, Usage: "option <n>", Help: "Choose answer n in the question tree", Category: CategoryQuestion, Handler: HandlerOption},

		// Verdict commands
		{Name: "verdict", Aliases: []string{"v"}, Usage: "verdict", Help: "Show or hide the verdict panel", Category: CategoryVerdict, Handler: HandlerVerdict},
		{Name: "accept", Aliases: nil, Usage: "accept", Help: "Approve this speaker", Category: CategoryVerdict, Handler: HandlerAccept},
		{Name: "reject", Aliases: nil, Usage: "reject", Help: "Turn this speaker down", Category: CategoryVerdict, Handler: HandlerReject},

		// Items
		{Name: "drink", Aliases: []string{"bottle"}, Usage: "drink", Help: "Drink a bottle for a temporary boost", Category: CategoryItems, Handler: HandlerDrink},
		{Name: "stats", Aliases: []string{"st"}, Usage: "stats", Help: "Show your stats, modifiers, energy and ethics", Category: CategoryItems, Handler: HandlerStats},

		// Narration
		{Name: "skip", Aliases: []string{"s"}, Usage: "skip", Help: "Reveal the rest of the current line", Category: CategoryNarration, Handler: HandlerSkip},
		{Name: "next", Aliases: []string{"n"}, Usage: "next", Help: "Advance to the next line", Category: CategoryNarration, Handler: HandlerNext},

		// System commands
		{Name: "look", Aliases: []string{"l"}, Usage: "look", Help: "Redisplay the current menu", Category: CategorySystem, Handler: HandlerLook},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// CategoryOrder is the order categories are listed in help output.
var CategoryOrder = []string{
	CategoryInterview,
	CategoryQuestion,
	CategoryVerdict,
	CategoryItems,
	CategoryNarration,
	CategorySystem,
}
