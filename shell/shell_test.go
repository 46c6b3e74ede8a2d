package shell

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/qxword/game"
	"github.com/domino14/qxword/scoring"
	"github.com/domino14/qxword/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"new -mode chaos",
			&shellcmd{"new", nil, map[string]string{"mode": "chaos"}},
			nil},
		{"place 3 7G",
			&shellcmd{"place", []string{"3", "7G"}, map[string]string{}},
			nil},
		{"new zen -seed 12 ",
			&shellcmd{"new",
				[]string{"zen"},
				map[string]string{"seed": "12"}},
			nil,
		},
		{`entropy "7G" 'H8'`,
			&shellcmd{"entropy", []string{"7G", "H8"}, map[string]string{}},
			nil},
		{"new -seed",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newController() *ShellController {
	cfg := *testhelpers.DefaultConfig
	cfg.SearchThreads = 1
	return &ShellController{
		cfg: &cfg,
		lex: testhelpers.Lexicon("cat", "act", "at", "ta", "tea", "eat", "ate"),
		ld:  testhelpers.EnglishDistribution(),
	}
}

func TestCommandsNeedAGame(t *testing.T) {
	is := is.New(t)
	sc := newController()
	_, err := sc.execute("rack")
	is.True(errors.Is(err, errNoGame))
	_, err = sc.execute("exit")
	is.True(errors.Is(err, errQuit))
	resp, err := sc.execute("help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Commands:"))
	resp, err = sc.execute("help zones")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "teleport"))
	resp, err = sc.execute("help nothing")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "no help text"))
}

func TestNewGameAndPlace(t *testing.T) {
	is := is.New(t)
	sc := newController()
	_, err := sc.execute("new blitz")
	is.True(errors.Is(err, game.ErrUnknownMode))

	resp, err := sc.execute("new -mode zen -seed 3")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Mode: zen"))
	is.Equal(sc.game.Seed(), uint64(3))

	_, err = sc.execute("place 1")
	is.True(err != nil)
	_, err = sc.execute("place 1 Z99")
	is.True(err != nil)

	id := sc.game.Rack()[0].ID
	resp, err = sc.execute(fmt.Sprintf("place %d 7G", id))
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "collapsed to"))
	is.Equal(sc.game.Board().NumTiles(), 1)

	_, err = sc.execute("recall")
	is.NoErr(err)
	is.True(sc.game.Board().IsEmpty())

	_, err = sc.execute("entropy")
	is.True(err != nil)
	_, err = sc.execute("swap 7G")
	is.True(err != nil)
	_, err = sc.execute("dance")
	is.True(err != nil)

	resp, err = sc.execute("score")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "no turns played yet"))
	resp, err = sc.execute("stats")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Turns: 0"))
}

func TestHintAndAuto(t *testing.T) {
	is := is.New(t)
	sc := newController()
	_, err := sc.execute("new -seed 11")
	is.NoErr(err)
	// an empty board always has an opening placement
	resp, err := sc.execute("hint")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "7G"))

	resp, err = sc.execute("auto")
	is.NoErr(err)
	is.True(sc.game.Board().NumTiles() >= 1)
	is.True(resp.message != "")
}

func TestTurnSummary(t *testing.T) {
	sc := newController()
	_, err := sc.execute("new -seed 5")
	assert.NoError(t, err)
	_, ok := sc.game.LastTurn()
	assert.False(t, ok)
	engine := scoring.NewEngine(sc.lex, scoring.PerWord)
	s := turnSummary(engine.ScoreTurn([]string{"CAT"}, scoring.Flags{CleanCollapse: true}))
	assert.Contains(t, s, "CAT")
	assert.Contains(t, s, "Turn total: 6")
}

func TestCompleter(t *testing.T) {
	sc := newController()
	c := NewShellCompleter(sc)
	matches, n := c.Do([]rune("sub"), 3)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]rune{[]rune("mit")}, matches)

	line := []rune("new -mode ch")
	matches, _ = c.Do(line, len(line))
	assert.Equal(t, [][]rune{[]rune("aos")}, matches)

	line = []rune("help sc")
	matches, _ = c.Do(line, len(line))
	assert.Equal(t, [][]rune{[]rune("oring")}, matches)
}
