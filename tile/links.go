package tile

import (
	"errors"
	"fmt"
)

type LinkRule uint8

const (
	// Mirror gives the partner the same letter.
	Mirror LinkRule = iota
	// Invert gives the partner the other letter of the pair.
	Invert
	// ShiftNextLetter gives the partner the letter after the primary's.
	ShiftNextLetter
)

func (r LinkRule) String() string {
	switch r {
	case Mirror:
		return "mirror"
	case Invert:
		return "invert"
	case ShiftNextLetter:
		return "shift-next-letter"
	}
	return "unknown"
}

var (
	ErrAlreadyLinked = errors.New("tile already belongs to a link group")
	ErrSelfLink      = errors.New("a tile cannot be linked to itself")
)

// Group is a link group: exactly two tiles sharing a link id and a rule.
type Group struct {
	ID      LinkID
	Rule    LinkRule
	Members [2]ID
}

// Links is the link-group table. Tiles never point at each other; a
// partner is always found through this table.
type Links struct {
	groups map[LinkID]*Group
	tiles  map[ID]*Tile
	nextID LinkID
}

func NewLinks() *Links {
	return &Links{
		groups: make(map[LinkID]*Group),
		tiles:  make(map[ID]*Tile),
		nextID: 1,
	}
}

// Register makes tiles known to the table so link members can be looked up
// by id.
func (l *Links) Register(ts ...*Tile) {
	for _, t := range ts {
		l.tiles[t.ID] = t
	}
}

func (l *Links) Tile(id ID) (*Tile, bool) {
	t, ok := l.tiles[id]
	return t, ok
}

// Link creates a new group for two unlinked tiles.
func (l *Links) Link(a, b *Tile, rule LinkRule) (LinkID, error) {
	if a.ID == b.ID {
		return NoLink, ErrSelfLink
	}
	if a.LinkID != NoLink || b.LinkID != NoLink {
		return NoLink, fmt.Errorf("%w: tiles %d and %d", ErrAlreadyLinked, a.ID, b.ID)
	}
	id := l.nextID
	l.nextID++
	l.groups[id] = &Group{ID: id, Rule: rule, Members: [2]ID{a.ID, b.ID}}
	a.LinkID = id
	b.LinkID = id
	l.Register(a, b)
	return id, nil
}

func (l *Links) Group(id LinkID) (*Group, bool) {
	g, ok := l.groups[id]
	return g, ok
}

// Partner returns the other member of t's link group and the group's rule.
func (l *Links) Partner(t *Tile) (*Tile, LinkRule, bool) {
	if t.LinkID == NoLink {
		return nil, Mirror, false
	}
	g, ok := l.groups[t.LinkID]
	if !ok {
		return nil, Mirror, false
	}
	other := g.Members[0]
	if other == t.ID {
		other = g.Members[1]
	}
	p, ok := l.tiles[other]
	if !ok {
		return nil, g.Rule, false
	}
	return p, g.Rule, true
}

// Inert reports whether both members of a group have collapsed; the group
// then has no further effect but stays in the table.
func (l *Links) Inert(id LinkID) bool {
	g, ok := l.groups[id]
	if !ok {
		return true
	}
	for _, m := range g.Members {
		t, ok := l.tiles[m]
		if ok && !t.Collapsed() {
			return false
		}
	}
	return true
}

func (l *Links) NumGroups() int {
	return len(l.groups)
}
