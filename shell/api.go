package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/game"
	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/scoring"
	"github.com/domino14/qxword/tile"
	"github.com/domino14/qxword/wordfind"
)

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "exit", "bye", "quit":
		return nil, errQuit
	case "help", "h":
		return sc.help(cmd)
	case "new", "n":
		return sc.newGame(cmd)
	}
	if sc.game == nil {
		return nil, errNoGame
	}
	switch cmd.cmd {
	case "show", "board", "s":
		return sc.show()
	case "rack", "r":
		return msg(sc.game.RackString()), nil
	case "place", "p":
		return sc.place(cmd)
	case "preview":
		return sc.preview()
	case "submit", "commit", "c":
		return sc.submit()
	case "recall":
		if err := sc.game.Recall(context.Background()); err != nil {
			return nil, err
		}
		return sc.show()
	case "shuffle":
		sc.game.Shuffle()
		return msg(sc.game.RackString()), nil
	case "hint":
		return sc.hint()
	case "auto", "aiplay":
		return sc.auto()
	case "undo":
		if err := sc.game.Undo(context.Background()); err != nil {
			return nil, err
		}
		return sc.show()
	case "force":
		return sc.force(cmd)
	case "swap":
		return sc.swap(cmd)
	case "entropy":
		return sc.entropy(cmd)
	case "score":
		return sc.score()
	case "stats":
		return sc.stats()
	}
	return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	cfg := *sc.cfg
	if m, ok := cmd.options["mode"]; ok {
		cfg.Mode = m
	} else if len(cmd.args) > 0 {
		cfg.Mode = cmd.args[0]
	}
	if s, ok := cmd.options["seed"]; ok {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
	}
	g, err := game.NewGame(&cfg, sc.lex, sc.ld)
	if err != nil {
		return nil, err
	}
	sc.Cleanup()
	sc.game = g
	out := sc.game.ToDisplayText()
	if g.Mode() == game.TimeAttack {
		sc.startClock(g)
		out += fmt.Sprintf("\nTime attack: you have %v.", game.TimeAttackDuration)
	}
	log.Info().Str("mode", string(g.Mode())).Uint64("seed", g.Seed()).Msg("new game")
	return msg(out), nil
}

func (sc *ShellController) show() (*Response, error) {
	return msg(sc.game.ToDisplayText()), nil
}

func parseTileID(s string) (tile.ID, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, fmt.Errorf("bad tile id %q", s)
	}
	return tile.ID(id), nil
}

func parseCoord(s string) (board.Coord, error) {
	c, ok := move.FromBoardGameCoords(s)
	if !ok {
		return board.Coord{}, fmt.Errorf("bad coordinate %q; use something like 7G", s)
	}
	return c, nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("place <tile id> <coord>")
	}
	id, err := parseTileID(cmd.args[0])
	if err != nil {
		return nil, err
	}
	c, err := parseCoord(cmd.args[1])
	if err != nil {
		return nil, err
	}
	out, err := sc.game.PlaceTile(context.Background(), id, c.Row, c.Col)
	if err != nil {
		return nil, err
	}
	note := fmt.Sprintf("Tile %d collapsed to %c at %s", id, out.Letter,
		move.ToBoardGameCoords(out.At.Row, out.At.Col))
	if out.Teleported {
		note += " (teleported)"
	}
	if out.Partner != nil {
		l, _ := out.Partner.Letter()
		note += fmt.Sprintf("; linked tile %d became %c", out.Partner.ID, l)
	}
	return msg(sc.game.ToDisplayText() + "\n" + note), nil
}

func (sc *ShellController) preview() (*Response, error) {
	v := sc.game.Preview()
	invalid := lo.Map(v.Invalid, func(o wordfind.Occurrence, _ int) string { return o.Word })
	return msg(fmt.Sprintf("valid: %v\ninvalid: %v", v.Words(), invalid)), nil
}

func (sc *ShellController) submit() (*Response, error) {
	tr, err := sc.game.Submit(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText() + "\n" + turnSummary(tr)), nil
}

func (sc *ShellController) hint() (*Response, error) {
	m, err := sc.game.Hint(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(m.ShortDescription()), nil
}

func (sc *ShellController) auto() (*Response, error) {
	res, err := sc.game.AutoPlay(context.Background())
	if err != nil {
		return nil, err
	}
	lines := lo.Map(res.Moves, func(m *move.Move, _ int) string { return m.ShortDescription() })
	switch {
	case len(res.Moves) == 0:
		lines = append(lines, "No move found; the rack was shuffled.")
	case res.Legal:
		lines = append(lines, "Ready to submit.")
	default:
		lines = append(lines, "No complete word yet.")
	}
	return msg(sc.game.ToDisplayText() + "\n" + strings.Join(lines, "\n")), nil
}

func (sc *ShellController) force(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 || utf8.RuneCountInString(cmd.args[1]) != 1 {
		return nil, errors.New("force <tile id> <letter>")
	}
	id, err := parseTileID(cmd.args[0])
	if err != nil {
		return nil, err
	}
	letter, _ := utf8.DecodeRuneInString(cmd.args[1])
	if err := sc.game.ForceCollapse(context.Background(), id, letter); err != nil {
		return nil, err
	}
	return msg(sc.game.RackString()), nil
}

func (sc *ShellController) swap(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("swap <coord> <coord>")
	}
	a, err := parseCoord(cmd.args[0])
	if err != nil {
		return nil, err
	}
	b, err := parseCoord(cmd.args[1])
	if err != nil {
		return nil, err
	}
	if err := sc.game.Swap(context.Background(), a, b); err != nil {
		return nil, err
	}
	return sc.show()
}

func (sc *ShellController) entropy(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, fmt.Errorf("entropy <coord> [up to %d coords]", game.MaxEntropyTiles)
	}
	coords := make([]board.Coord, 0, len(cmd.args))
	for _, a := range cmd.args {
		c, err := parseCoord(a)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	if err := sc.game.Entropy(context.Background(), coords...); err != nil {
		return nil, err
	}
	return sc.show()
}

func (sc *ShellController) score() (*Response, error) {
	tr, ok := sc.game.LastTurn()
	if !ok {
		return msg(fmt.Sprintf("Score: %d (no turns played yet)", sc.game.Score())), nil
	}
	return msg(turnSummary(tr) + fmt.Sprintf("\nScore: %d", sc.game.Score())), nil
}

func (sc *ShellController) stats() (*Response, error) {
	st := sc.game.Stats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Turns: %d\nWords: %d\nCollapses: %d\nBest word: %s (%d)",
		st.Turns, st.WordsPlayed, st.Collapses, st.BestWord, st.BestWordScore)
	var hist strings.Builder
	if err := game.WriteScoreHistogram(&hist, st.TurnScores); err == nil {
		sb.WriteString("\nTurn scores:\n")
		sb.WriteString(hist.String())
	}
	return msg(sb.String()), nil
}

func turnSummary(tr scoring.TurnResult) string {
	var sb strings.Builder
	for _, r := range tr.Words {
		fmt.Fprintf(&sb, "%-12s base %3d  +%d%%", r.Word, r.Base, r.Percent)
		if len(r.Bonuses) > 0 {
			fmt.Fprintf(&sb, " %v", r.Bonuses)
		}
		if len(r.Penalties) > 0 {
			fmt.Fprintf(&sb, "  penalties %v", r.Penalties)
		}
		fmt.Fprintf(&sb, "  = %d\n", r.Final)
	}
	if len(tr.Penalties) > 0 {
		fmt.Fprintf(&sb, "turn penalties %v\n", tr.Penalties)
	}
	fmt.Fprintf(&sb, "Turn total: %d", tr.Total)
	return sb.String()
}
