// Package shell is an interactive front end for a game.
package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/config"
	"github.com/domino14/qxword/game"
	"github.com/domino14/qxword/lexicon"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config
	lex lexicon.Lexicon
	ld  *alphabet.LetterDistribution

	game  *game.Game
	clock *time.Timer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, lex lexicon.Lexicon,
	ld *alphabet.LetterDistribution) *ShellController {

	sc := &ShellController{cfg: cfg, lex: lex, ld: ld}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[35mqxword>\033[0m ",
		HistoryFile:     "/tmp/qxword-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its arguments and its
// -options. Every option takes exactly one value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: map[string]string{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if i+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			cmd.options[f[1:]] = fields[i+1]
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

// Execute runs a single line, as the loop would.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.execute(line)
	switch {
	case errors.Is(err, errQuit):
		sig <- syscall.SIGINT
	case err != nil:
		sc.showError(err)
	case resp != nil:
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	return sc.handle(cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	sc.showMessage("Type `help` for a list of commands.")

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.execute(line)
		if errors.Is(err, errQuit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops the time-attack clock, if one is running.
func (sc *ShellController) Cleanup() {
	if sc.clock != nil {
		sc.clock.Stop()
	}
}

// startClock ends g when the time-attack allowance runs out. The timer
// goroutine touches nothing but Expire; the next command sees the game as
// over.
func (sc *ShellController) startClock(g *game.Game) {
	sc.clock = time.AfterFunc(game.TimeAttackDuration, func() {
		g.Expire()
		log.Info().Dur("after", game.TimeAttackDuration).Msg("time is up")
	})
}
