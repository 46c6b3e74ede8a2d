package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
)

type Mode string

const (
	Classic    Mode = "classic"
	TimeAttack Mode = "time-attack"
	Chaos      Mode = "chaos"
	Zen        Mode = "zen"
	Daily      Mode = "daily"
)

var Modes = []Mode{Classic, TimeAttack, Chaos, Zen, Daily}

var ErrUnknownMode = errors.New("unknown mode")

const (
	// TimeAttackDuration is how long a time-attack game lasts. The caller
	// runs the clock and calls Expire.
	TimeAttackDuration = 90 * time.Second

	chaosInterval = 3
	maxMutations  = 2
)

func ParseMode(s string) (Mode, error) {
	if s == "" {
		return Classic, nil
	}
	m := Mode(s)
	if !lo.Contains(Modes, m) {
		return Classic, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// DailySeed is the same for everyone on the same UTC day.
func DailySeed(t time.Time) uint64 {
	return xxhash.Sum64String(t.UTC().Format("2006-01-02"))
}

func (g *Game) layoutFor(m Mode) board.Layout {
	switch m {
	case Chaos:
		return board.RandomLayout(g.rng)
	case Daily:
		return board.SeededLayout(DailySeed(g.date))
	}
	return board.StandardLayout()
}

// chaos re-zones the board and nudges one or two collapsed tiles one
// letter up or down the alphabet.
func (g *Game) chaos() {
	g.board.ApplyLayout(board.RandomLayout(g.rng))
	occupied := lo.Filter(g.board.Occupied(), func(c *board.Cell, _ int) bool {
		return c.Tile.Collapsed()
	})
	n := min(len(occupied), 1+g.rng.Intn(maxMutations))
	for _, i := range g.rng.Perm(len(occupied))[:n] {
		t := occupied[i].Tile
		l, _ := t.Letter()
		delta := 1
		if g.rng.Intn(2) == 0 {
			delta = -1
		}
		nl := alphabet.ShiftLetter(l, delta)
		if err := t.Relabel(nl, g.ld); err != nil {
			log.Warn().Err(err).Msg("mutation failed")
			continue
		}
		log.Debug().Stringer("at", occupied[i].Coord()).Str("from", string(l)).
			Str("to", string(nl)).Msg("chaos mutation")
	}
	log.Info().Int("round", g.round).Msg("chaos: zones reshuffled")
}
