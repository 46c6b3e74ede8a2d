package game

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/tile"
)

// Power is a player ability with a cooldown counted in rounds.
type Power uint8

const (
	ForcedCollapse Power = iota
	QuantumSwap
	UndoCollapse
	EntropyBurst
)

var Powers = []Power{ForcedCollapse, QuantumSwap, UndoCollapse, EntropyBurst}

// Cooldowns in rounds.
var powerCooldowns = map[Power]int{
	ForcedCollapse: 3,
	QuantumSwap:    5,
	UndoCollapse:   8,
	EntropyBurst:   6,
}

// MaxEntropyTiles is how many tiles one entropy burst may scramble.
const MaxEntropyTiles = 3

var (
	ErrPowerOnCooldown = errors.New("power is on cooldown")
	ErrBadTarget       = errors.New("bad power target")
	ErrNothingToUndo   = errors.New("no collapse to undo")
)

func (p Power) String() string {
	switch p {
	case ForcedCollapse:
		return "forced collapse"
	case QuantumSwap:
		return "quantum swap"
	case UndoCollapse:
		return "undo collapse"
	case EntropyBurst:
		return "entropy burst"
	}
	return "unknown"
}

// Cooldown returns the rounds left before p can be used again.
func (g *Game) Cooldown(p Power) int {
	return g.cooldowns[p]
}

func (g *Game) ready(p Power) error {
	if left := g.cooldowns[p]; left > 0 {
		return fmt.Errorf("%w: %v has %d rounds left", ErrPowerOnCooldown, p, left)
	}
	return nil
}

func (g *Game) use(p Power) {
	g.cooldowns[p] = powerCooldowns[p]
	log.Info().Stringer("power", p).Int("cooldown", powerCooldowns[p]).Msg("power used")
}

func (g *Game) tickCooldowns() {
	for p, left := range g.cooldowns {
		if left > 0 {
			g.cooldowns[p] = left - 1
		}
	}
}

// collapseRecord is the last collapse made this turn, kept for undo.
type collapseRecord struct {
	tile     *tile.Tile
	snapshot *tile.Snapshot
	// forced collapses come from the power, not a placement, and are not
	// in the collapse count.
	forced bool
}

// ForceCollapse collapses an uncollapsed rack tile to a letter of the
// player's choosing. The letter must be one of the tile's candidates; a
// wildcard takes any letter. A link partner follows as usual.
func (g *Game) ForceCollapse(ctx context.Context, id tile.ID, letter rune) error {
	if err := g.begin(ctx); err != nil {
		return err
	}
	defer g.finish(ctx)
	if err := g.ready(ForcedCollapse); err != nil {
		return err
	}
	t, ok := g.RackTile(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrTileNotInRack, id)
	}
	if t.Collapsed() {
		return fmt.Errorf("%w: tile %d has already collapsed", ErrBadTarget, id)
	}
	letter = unicode.ToUpper(letter)
	switch {
	case t.Kind == tile.Wildcard:
		if letter < 'A' || letter > 'Z' {
			return fmt.Errorf("%w: %q is not a letter", ErrBadTarget, letter)
		}
	case !lo.Contains(t.Letters, letter):
		return fmt.Errorf("%w: tile %d cannot be %c", ErrBadTarget, id, letter)
	}
	snap := t.Snapshot()
	if err := t.CollapseTo(letter, g.ld); err != nil {
		return err
	}
	g.resolver.Propagate(t, letter)
	g.lastCollapse = &collapseRecord{tile: t, snapshot: snap, forced: true}
	g.unclean[t.ID] = true
	g.use(ForcedCollapse)
	return nil
}

// Swap exchanges the tiles on two occupied cells.
func (g *Game) Swap(ctx context.Context, a, b board.Coord) error {
	if err := g.begin(ctx); err != nil {
		return err
	}
	defer g.finish(ctx)
	if err := g.ready(QuantumSwap); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: cannot swap %v with itself", ErrBadTarget, a)
	}
	if err := g.board.Swap(a, b); err != nil {
		return fmt.Errorf("%w: %w", ErrBadTarget, err)
	}
	g.use(QuantumSwap)
	return nil
}

// Undo reverts this turn's most recent collapse, whether a placement or the
// forced-collapse power caused it. The tile goes back to the rack with its
// candidates; a partner it collapsed stays collapsed.
func (g *Game) Undo(ctx context.Context) error {
	if err := g.begin(ctx); err != nil {
		return err
	}
	defer g.finish(ctx)
	if err := g.ready(UndoCollapse); err != nil {
		return err
	}
	rec := g.lastCollapse
	if rec == nil {
		return ErrNothingToUndo
	}
	t := rec.tile
	if cell, ok := g.board.Find(t.ID); ok {
		if _, err := g.board.Remove(cell.Coord()); err != nil {
			return err
		}
		g.rack = append(g.rack, t)
	}
	if err := t.Revert(rec.snapshot); err != nil {
		return err
	}
	t.PlacedThisTurn = false
	delete(g.unclean, t.ID)
	g.lastCollapse = nil
	if !rec.forced {
		g.stats.Collapses--
	}
	g.use(UndoCollapse)
	return nil
}

// Entropy relabels up to MaxEntropyTiles collapsed board tiles with random
// letters.
func (g *Game) Entropy(ctx context.Context, coords ...board.Coord) error {
	if err := g.begin(ctx); err != nil {
		return err
	}
	defer g.finish(ctx)
	if err := g.ready(EntropyBurst); err != nil {
		return err
	}
	if len(coords) == 0 || len(coords) > MaxEntropyTiles {
		return fmt.Errorf("%w: pick 1 to %d tiles", ErrBadTarget, MaxEntropyTiles)
	}
	if len(lo.Uniq(coords)) != len(coords) {
		return fmt.Errorf("%w: a tile was picked twice", ErrBadTarget)
	}
	targets := make([]*tile.Tile, 0, len(coords))
	for _, c := range coords {
		cell, ok := g.board.Cell(c.Row, c.Col)
		if !ok || cell.Tile == nil || !cell.Tile.Collapsed() {
			return fmt.Errorf("%w: no collapsed tile at %v", ErrBadTarget, c)
		}
		targets = append(targets, cell.Tile)
	}
	for _, t := range targets {
		if err := t.Relabel(g.gen.RandomLetter(), g.ld); err != nil {
			return err
		}
	}
	g.use(EntropyBurst)
	return nil
}
