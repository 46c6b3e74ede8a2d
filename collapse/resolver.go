// Package collapse resolves a placed tile to a single letter. Resolution is
// dispatched on the zone of the cell first and the tile's kind second, and
// always ends with a collapsed tile.
package collapse

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/tile"
)

// ErrNoPartnerAvailable is logged, never returned: a link-node with nothing
// to link to resolves like a plain cell.
var ErrNoPartnerAvailable = errors.New("no partner available")

// Grid is the board view a resolution needs. Teleports move tiles, so it is
// more than a Query.
type Grid interface {
	board.Query
	Move(from, to board.Coord) error
}

// Outcome describes what a resolution did.
type Outcome struct {
	Letter rune
	// At is where the tile ended up. It differs from the placement only
	// after a teleport.
	At   board.Coord
	Zone board.Zone
	// Forced is set when the letter ignored best fit (swap-shift or
	// force-random).
	Forced     bool
	Teleported bool
	// Partner is the link partner collapsed by propagation, if any.
	Partner *tile.Tile
	// NewLink is the group a link-node created, or tile.NoLink.
	NewLink tile.LinkID
}

type Resolver struct {
	ld    *alphabet.LetterDistribution
	links *tile.Links
	rng   *frand.RNG
	pacer Pacer
	wild  WildcardScorer
}

func NewResolver(ld *alphabet.LetterDistribution, links *tile.Links, rng *frand.RNG) *Resolver {
	return &Resolver{
		ld:    ld,
		links: links,
		rng:   rng,
		pacer: NoPacer{},
		wild:  NewPriorityScorer(ld),
	}
}

func (r *Resolver) SetPacer(p Pacer) {
	r.pacer = p
}

func (r *Resolver) SetWildcardScorer(ws WildcardScorer) {
	r.wild = ws
}

func (r *Resolver) pause(ctx context.Context, p Pause) {
	if err := r.pacer.Pause(ctx, p); err != nil {
		// the outcome never depends on the pause
		log.Debug().Err(err).Msg("pause cut short")
	}
}

// Resolve collapses t, which has just been placed at `at` on g. rack is the
// set of tiles a link-node may link t to. A tile that is already collapsed
// is left alone and tile.ErrAlreadyCollapsed is returned with its current
// letter.
func (r *Resolver) Resolve(ctx context.Context, g Grid, t *tile.Tile, at board.Coord,
	rack []*tile.Tile) (Outcome, error) {

	out := Outcome{At: at}
	if l, ok := t.Letter(); ok {
		out.Letter = l
		return out, tile.ErrAlreadyCollapsed
	}
	cell, ok := g.Cell(at.Row, at.Col)
	if !ok {
		return out, board.ErrOffBoard
	}
	out.Zone = cell.Zone
	r.pause(ctx, PauseCollapse)

	var letter rune
	switch cell.Zone {
	case board.DelayWell:
		r.pause(ctx, PauseWell)
		letter = r.BestFit(g, t, at)

	case board.SwapShift:
		out.Forced = true
		if t.HasCandidates() {
			letter = t.Letters[1]
		} else {
			letter = r.BestFit(g, t, at)
		}

	case board.ForceRandom:
		out.Forced = true
		if t.HasCandidates() {
			letter = t.Letters[r.rng.Intn(len(t.Letters))]
		} else {
			letter = r.ld.Pool[r.rng.Intn(len(r.ld.Pool))]
		}

	case board.LinkNode:
		out.NewLink = r.linkToRack(t, rack)
		letter = r.BestFit(g, t, at)

	case board.Teleport:
		dest, ok := g.PortalPartner(at.Row, at.Col)
		if ok && dest.IsEmpty() {
			if err := g.Move(at, dest.Coord()); err != nil {
				return out, err
			}
			out.At = dest.Coord()
			out.Teleported = true
			t.UsedTeleport = true
			r.pause(ctx, PausePortal)
			log.Debug().Stringer("from", at).Stringer("to", out.At).Msg("tile teleported")
		}
		letter = r.BestFit(g, t, out.At)

	default:
		letter = r.BestFit(g, t, at)
	}

	if err := t.CollapseTo(letter, r.ld); err != nil {
		return out, err
	}
	out.Letter = letter
	out.Partner = r.Propagate(t, letter)

	log.Debug().Int("tile", int(t.ID)).Str("zone", out.Zone.String()).
		Str("letter", string(letter)).Bool("forced", out.Forced).Msg("collapsed")
	return out, nil
}

// linkToRack links t to a random uncollapsed, unlinked, non-fixed rack tile
// with the mirror rule. A tile already in a group keeps its group.
func (r *Resolver) linkToRack(t *tile.Tile, rack []*tile.Tile) tile.LinkID {
	if t.LinkID != tile.NoLink {
		return tile.NoLink
	}
	eligible := []*tile.Tile{}
	for _, rt := range rack {
		if rt.ID != t.ID && !rt.Collapsed() && rt.Kind != tile.Fixed && rt.LinkID == tile.NoLink {
			eligible = append(eligible, rt)
		}
	}
	if len(eligible) == 0 {
		log.Debug().Int("tile", int(t.ID)).Err(ErrNoPartnerAvailable).Msg("link-node had nothing to link")
		return tile.NoLink
	}
	partner := eligible[r.rng.Intn(len(eligible))]
	id, err := r.links.Link(t, partner, tile.Mirror)
	if err != nil {
		log.Warn().Err(err).Msg("link-node link failed")
		return tile.NoLink
	}
	log.Debug().Int("tile", int(t.ID)).Int("partner", int(partner.ID)).Msg("link-node created link")
	return id
}

// Neighbors returns the collapsed letters orthogonally adjacent to at.
func Neighbors(q board.Query, at board.Coord) []rune {
	letters := []rune{}
	for _, c := range q.Adjacent(at.Row, at.Col) {
		if l, ok := c.Letter(); ok {
			letters = append(letters, l)
		}
	}
	return letters
}

// BestFit picks the letter t would collapse to at `at` with no zone effect.
// Among candidates the highest LocalScore wins and the first candidate
// wins ties.
func (r *Resolver) BestFit(q board.Query, t *tile.Tile, at board.Coord) rune {
	neighbors := Neighbors(q, at)
	if t.Kind == tile.Wildcard {
		return WildcardChoice(r.wild, r.ld, neighbors)
	}
	if len(t.Letters) == 0 {
		return r.ld.Pool[r.rng.Intn(len(r.ld.Pool))]
	}
	best, bestScore := t.Letters[0], -1
	for _, l := range t.Letters {
		if s := LocalScore(r.ld, l, neighbors); s > bestScore {
			best, bestScore = l, s
		}
	}
	return best
}

// WildcardLetter is the letter a wildcard would take at `at`.
func (r *Resolver) WildcardLetter(q board.Query, at board.Coord) rune {
	return WildcardChoice(r.wild, r.ld, Neighbors(q, at))
}

// Propagate collapses the link partner of primary, which has just collapsed
// to letter, following the group's rule. It returns the partner it
// collapsed, or nil when there is no partner or it had already collapsed.
func (r *Resolver) Propagate(primary *tile.Tile, letter rune) *tile.Tile {
	partner, rule, ok := r.links.Partner(primary)
	if !ok || partner.Collapsed() {
		return nil
	}
	pl := PartnerLetter(rule, letter, primary.Letters, partner.Letters)
	if err := partner.CollapseTo(pl, r.ld); err != nil {
		return nil
	}
	log.Debug().Int("primary", int(primary.ID)).Int("partner", int(partner.ID)).
		Str("rule", rule.String()).Str("letter", string(pl)).Msg("link propagated")
	return partner
}

// PartnerLetter applies a link rule. Invert takes the other candidate of
// the primary's pair, then of the partner's pair, and mirrors if neither
// pair holds a distinct letter.
func PartnerLetter(rule tile.LinkRule, letter rune, primary, partner []rune) rune {
	switch rule {
	case tile.Invert:
		if o, ok := otherOf(primary, letter); ok {
			return o
		}
		for _, l := range partner {
			if l != letter {
				return l
			}
		}
		return letter
	case tile.ShiftNextLetter:
		return alphabet.NextLetter(letter)
	}
	return letter
}

func otherOf(pair []rune, letter rune) (rune, bool) {
	if len(pair) != 2 {
		return 0, false
	}
	switch letter {
	case pair[0]:
		return pair[1], pair[1] != letter
	case pair[1]:
		return pair[0], pair[0] != letter
	}
	return 0, false
}
