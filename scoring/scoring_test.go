package scoring

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/qxword/lexicon"
)

func newEngine(p PenaltyPolicy) *Engine {
	return NewEngine(lexicon.NewWordList("t", []string{"quantum"}, nil), p)
}

func TestNoBonusesEqualsBase(t *testing.T) {
	is := is.New(t)
	e := newEngine(PerWord)
	// a seven-letter word always earns the long word tier, so use a
	// shorter word for the plain case
	r := e.Score("QUA", Flags{})
	is.Equal(r.Base, 13)
	is.Equal(r.Final, 13)
	is.Equal(len(r.Bonuses), 0)
	is.Equal(len(r.Penalties), 0)

	r = e.Score("QUANTUM", Flags{})
	is.Equal(r.Base, 21)
	is.Equal(r.Base, e.BaseScore("quantum"))
}

func TestLengthTiersDoNotStack(t *testing.T) {
	is := is.New(t)
	e := newEngine(PerWord)
	// seven one-point letters
	r := e.Score("TEARIER", Flags{})
	is.Equal(r.Base, 7)
	is.Equal(r.Percent, LongWordBonus)
	is.Equal(len(r.Bonuses), 1)

	// base 14, length 7: round(14 * 1.25) = 18
	r = e.Score("SSSSSSS", Flags{})
	is.Equal(r.Base, 14)
	is.Equal(r.Final, 18)

	r = e.Score("TEARS", Flags{})
	is.Equal(r.Percent, GoodLengthBonus)
}

func TestBrokenLinkFloorsAtZero(t *testing.T) {
	is := is.New(t)
	e := newEngine(PerWord)
	r := e.Score("TEA", Flags{BrokenLink: true})
	is.Equal(r.Base, 3)
	is.Equal(r.Final, 0)
	is.Equal(r.Penalties, []Adjustment{{"broken link", BrokenLinkPenalty}})
}

func TestPenaltyAfterMultiplier(t *testing.T) {
	is := is.New(t)
	e := newEngine(PerWord)
	// base 20, +30% +10% = 28, then -10
	r := e.Score("QZ", Flags{IntactLinkedPair: true, CleanCollapse: true, BrokenLink: true})
	is.Equal(r.Base, 20)
	is.Equal(r.Percent, 40)
	is.Equal(r.Final, 18)
}

func TestAllBonuses(t *testing.T) {
	e := newEngine(PerWord)
	f := Flags{SuperpositionTiles: 3, IntactLinkedPair: true, CleanCollapse: true, UsedTeleport: true}
	cases := []struct {
		word    string
		percent int
		final   int
	}{
		{"AT", 75, 4},        // 2 * 1.75 = 3.5 rounds up
		{"TEARS", 85, 11},    // 6 * 1.85 = 11.1
		{"QUANTUM", 100, 42}, // 21 * 2
	}
	for _, c := range cases {
		r := e.Score(c.word, f)
		assert.Equal(t, c.percent, r.Percent, c.word)
		assert.Equal(t, c.final, r.Final, c.word)
	}
	r := e.Score("AT", Flags{SuperpositionTiles: 2})
	assert.Equal(t, 0, r.Percent)
}

func TestDeterministic(t *testing.T) {
	is := is.New(t)
	e := newEngine(PerWord)
	f := Flags{UsedTeleport: true, BrokenLink: true}
	is.Equal(e.Score("quantum", f), e.Score("quantum", f))
}

func TestScoreTurnPolicies(t *testing.T) {
	is := is.New(t)
	f := Flags{BrokenLink: true}
	words := []string{"QZ", "TEA"}

	perWord := newEngine(PerWord).ScoreTurn(words, f)
	// 20-10 + max(0, 3-10)
	is.Equal(perWord.Total, 10)
	is.Equal(len(perWord.Penalties), 0)

	perTurn := newEngine(PerTurn).ScoreTurn(words, f)
	// 20+3-10
	is.Equal(perTurn.Total, 13)
	is.Equal(len(perTurn.Penalties), 1)
	best, ok := perTurn.Best()
	is.True(ok)
	is.Equal(best.Word, "QZ")

	empty := newEngine(PerTurn).ScoreTurn(nil, f)
	is.Equal(empty.Total, 0)
	_, ok = empty.Best()
	is.True(!ok)
}

func TestParsePenaltyPolicy(t *testing.T) {
	is := is.New(t)
	p, err := ParsePenaltyPolicy("per-turn")
	is.NoErr(err)
	is.Equal(p, PerTurn)
	is.Equal(p.String(), "per-turn")
	_, err = ParsePenaltyPolicy("per-letter")
	is.True(errors.Is(err, ErrUnknownPolicy))
}
