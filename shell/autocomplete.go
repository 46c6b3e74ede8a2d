package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/qxword/game"
	"github.com/domino14/qxword/tile"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-mode", "-seed"},
		Args:    lo.Map(game.Modes, func(m game.Mode, _ int) string { return string(m) }),
	},
	"help": {
		Args: []string{"powers", "zones", "scoring"},
	},
}

// commands that take a rack tile id as their first argument
var tileCommands = []string{"place", "p", "force"}

var commandNames = []string{
	"help", "new", "show", "board", "rack", "place", "preview", "submit",
	"recall", "shuffle", "hint", "auto", "score", "stats", "force", "swap",
	"undo", "entropy", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		argPos := len(fields) - 1
		if endsWithSpace {
			argPos = len(fields)
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-mode":
			completions = commandMetadata["new"].Args
		case argPos == 1 && lo.Contains(tileCommands, cmdName) && c.sc.game != nil:
			completions = lo.Map(c.sc.game.Rack(), func(t *tile.Tile, _ int) string {
				return strconv.Itoa(int(t.ID))
			})
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
