package tile

import (
	"encoding/binary"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/qxword/alphabet"
)

// Odds of each kind for a randomly generated tile, as cumulative
// thresholds over [0, 1).
const (
	superposedOdds = 0.40
	linkedOdds     = 0.55
	wildcardOdds   = 0.60
)

// NewRNG returns a deterministic generator for a non-zero seed, and a
// system-seeded one for seed 0.
func NewRNG(seed uint64) *frand.RNG {
	var key [32]byte
	if seed == 0 {
		copy(key[:], frand.Bytes(32))
	} else {
		binary.LittleEndian.PutUint64(key[:], seed)
	}
	return frand.NewCustom(key[:], 1024, 12)
}

// Generator creates tiles and racks. Every tile it creates is registered
// with its link table, and linked tiles are only ever created in pairs.
type Generator struct {
	dist   *alphabet.LetterDistribution
	rng    *frand.RNG
	links  *Links
	nextID ID
}

func NewGenerator(dist *alphabet.LetterDistribution, rng *frand.RNG, links *Links) *Generator {
	return &Generator{dist: dist, rng: rng, links: links, nextID: 1}
}

func (g *Generator) Links() *Links {
	return g.links
}

func (g *Generator) id() ID {
	id := g.nextID
	g.nextID++
	return id
}

// RandomLetter draws a letter from the weighted pool.
func (g *Generator) RandomLetter() rune {
	return g.dist.Pool[g.rng.Intn(len(g.dist.Pool))]
}

func (g *Generator) randomPair() alphabet.Pair {
	return g.dist.Pairs[g.rng.Intn(len(g.dist.Pairs))]
}

func (g *Generator) randomRule() LinkRule {
	return LinkRule(g.rng.Intn(3))
}

// RandomKind picks a tile kind with the standard odds.
func (g *Generator) RandomKind() Kind {
	r := g.rng.Float64()
	switch {
	case r < superposedOdds:
		return Superposed
	case r < linkedOdds:
		return Linked
	case r < wildcardOdds:
		return Wildcard
	}
	return Fixed
}

func (g *Generator) newSingle(kind Kind) *Tile {
	var t *Tile
	switch kind {
	case Fixed:
		l := g.RandomLetter()
		t = newTile(g.id(), Fixed, nil, l, g.dist.Score(l))
	case Superposed:
		p := g.randomPair()
		t = newTile(g.id(), Superposed, []rune{p[0], p[1]}, 0, g.dist.PairValue(p))
	case Wildcard:
		t = newTile(g.id(), Wildcard, nil, 0, 0)
	default:
		panic("newSingle cannot create kind " + kind.String())
	}
	g.links.Register(t)
	return t
}

// NewLinkedPair creates two linked tiles sharing a candidate pair.
func (g *Generator) NewLinkedPair(rule LinkRule) []*Tile {
	p := g.randomPair()
	a, b := g.NewLinkedPairOf(p, rule)
	log.Debug().Int("a", int(a.ID)).Int("b", int(b.ID)).Str("rule", rule.String()).
		Str("pair", p.String()).Msg("created linked pair")
	return []*Tile{a, b}
}

// GenerateTile creates tiles of the given kind. A Linked kind yields the
// two members of a new link group; every other kind yields one tile.
func (g *Generator) GenerateTile(kind Kind) []*Tile {
	if kind == Linked {
		return g.NewLinkedPair(g.randomRule())
	}
	return []*Tile{g.newSingle(kind)}
}

// GenerateRack creates a rack of n tiles with at least one linked pair
// whenever n >= 2.
func (g *Generator) GenerateRack(n int) []*Tile {
	rack := make([]*Tile, 0, n)
	hasLinked := false
	for len(rack) < n {
		remaining := n - len(rack)
		if !hasLinked && remaining == 2 {
			rack = append(rack, g.NewLinkedPair(g.randomRule())...)
			hasLinked = true
			continue
		}
		kind := g.RandomKind()
		if kind == Linked {
			if remaining >= 2 {
				rack = append(rack, g.NewLinkedPair(g.randomRule())...)
				hasLinked = true
				continue
			}
			kind = Superposed
		}
		rack = append(rack, g.newSingle(kind))
	}
	return rack
}

// RefillRack tops a rack up to target tiles with random tiles. A linked
// pair is only drawn when there is room for both members.
func (g *Generator) RefillRack(rack []*Tile, target int) []*Tile {
	for len(rack) < target {
		kind := g.RandomKind()
		if kind == Linked {
			if target-len(rack) >= 2 {
				rack = append(rack, g.NewLinkedPair(g.randomRule())...)
				continue
			}
			kind = Superposed
		}
		rack = append(rack, g.newSingle(kind))
	}
	return rack
}

// NewFixed creates a collapsed tile holding letter.
func (g *Generator) NewFixed(letter rune) *Tile {
	t := newTile(g.id(), Fixed, nil, letter, g.dist.Score(letter))
	g.links.Register(t)
	return t
}

// NewSuperposed creates an uncollapsed tile with the given candidates.
func (g *Generator) NewSuperposed(p alphabet.Pair) *Tile {
	t := newTile(g.id(), Superposed, []rune{p[0], p[1]}, 0, g.dist.PairValue(p))
	g.links.Register(t)
	return t
}

func (g *Generator) NewWildcard() *Tile {
	return g.newSingle(Wildcard)
}

// NewLinkedPairOf creates a linked pair with a chosen candidate pair.
func (g *Generator) NewLinkedPairOf(p alphabet.Pair, rule LinkRule) (*Tile, *Tile) {
	a := newTile(g.id(), Linked, []rune{p[0], p[1]}, 0, g.dist.PairValue(p))
	b := newTile(g.id(), Linked, []rune{p[0], p[1]}, 0, g.dist.PairValue(p))
	if _, err := g.links.Link(a, b, rule); err != nil {
		// fresh tiles are never linked already
		panic(err)
	}
	return a, b
}

func (g *Generator) Distribution() *alphabet.LetterDistribution {
	return g.dist
}
