// Package tile models a single quantum tile: either a collapsed letter or a
// set of candidate letters waiting to be collapsed by placement.
package tile

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

type ID int
type LinkID int

// NoLink is the LinkID of a tile that belongs to no link group.
const NoLink LinkID = 0

// ProbeID is the ID carried by the temporary tiles move search uses to
// simulate a placement.
const ProbeID ID = -1

type Kind uint8

const (
	Fixed Kind = iota
	Superposed
	Linked
	Wildcard
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Superposed:
		return "superposed"
	case Linked:
		return "linked"
	case Wildcard:
		return "wildcard"
	}
	return "unknown"
}

const (
	stateSuperposed = "superposed"
	stateCollapsed  = "collapsed"

	eventCollapse = "collapse"
	eventRevert   = "revert"
)

var lifecycle = fsm.Events{
	{Name: eventCollapse, Src: []string{stateSuperposed}, Dst: stateCollapsed},
	{Name: eventRevert, Src: []string{stateCollapsed}, Dst: stateSuperposed},
}

var (
	ErrAlreadyCollapsed = errors.New("tile already collapsed")
	ErrNotCollapsed     = errors.New("tile is not collapsed")
	ErrNoLetter         = errors.New("no letter given")
	ErrSnapshotMismatch = errors.New("snapshot belongs to another tile")
)

// Scorer prices a single letter.
type Scorer interface {
	Score(r rune) int
}

// Tile is a game tile. Tiles are always handled by pointer; moving one
// between rack, cell and teleport destination moves ownership of the same
// value and never copies it.
type Tile struct {
	ID   ID
	Kind Kind
	// Letters are the candidates of an uncollapsed tile; empty for fixed
	// tiles and wildcards.
	Letters []rune
	LinkID  LinkID
	// Value is the letter value once collapsed, or the nominal value
	// shown while superposed.
	Value          int
	UsedTeleport   bool
	PlacedThisTurn bool

	letter rune
	state  *fsm.FSM
}

func newTile(id ID, kind Kind, letters []rune, letter rune, value int) *Tile {
	initial := stateSuperposed
	if letter != 0 {
		initial = stateCollapsed
	}
	return &Tile{
		ID:      id,
		Kind:    kind,
		Letters: letters,
		Value:   value,
		letter:  letter,
		state:   fsm.NewFSM(initial, lifecycle, fsm.Callbacks{}),
	}
}

// NewProbe returns an unregistered fixed tile used to simulate placing a
// letter on the board.
func NewProbe(letter rune, sc Scorer) *Tile {
	return newTile(ProbeID, Fixed, nil, letter, sc.Score(letter))
}

// Collapsed is true iff the tile holds a single letter.
func (t *Tile) Collapsed() bool {
	return t.state.Is(stateCollapsed)
}

// Letter returns the collapsed letter, if any.
func (t *Tile) Letter() (rune, bool) {
	if !t.Collapsed() {
		return 0, false
	}
	return t.letter, true
}

// HasCandidates is true for an uncollapsed tile with a candidate pair.
func (t *Tile) HasCandidates() bool {
	return !t.Collapsed() && len(t.Letters) > 0
}

// CollapseTo fixes the tile to a letter and prices it. Collapse is
// terminal: a collapsed tile is left untouched and ErrAlreadyCollapsed is
// returned.
func (t *Tile) CollapseTo(letter rune, sc Scorer) error {
	if letter == 0 {
		return ErrNoLetter
	}
	if err := t.state.Event(context.Background(), eventCollapse); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return ErrAlreadyCollapsed
		}
		return err
	}
	t.letter = letter
	t.Value = sc.Score(letter)
	return nil
}

// Relabel replaces the letter of a collapsed tile. It is used by effects
// that scramble tiles already on the board; it never uncollapses a tile.
func (t *Tile) Relabel(letter rune, sc Scorer) error {
	if !t.Collapsed() {
		return ErrNotCollapsed
	}
	if letter == 0 {
		return ErrNoLetter
	}
	t.letter = letter
	t.Value = sc.Score(letter)
	return nil
}

func (t *Tile) String() string {
	if l, ok := t.Letter(); ok {
		return string(l)
	}
	switch {
	case t.Kind == Wildcard:
		return "?"
	case len(t.Letters) == 2:
		return string(t.Letters[0]) + "/" + string(t.Letters[1])
	}
	return "."
}

// Describe gives a longer form, useful for logs and the shell.
func (t *Tile) Describe() string {
	link := ""
	if t.LinkID != NoLink {
		link = fmt.Sprintf(" link:%d", t.LinkID)
	}
	return fmt.Sprintf("#%d %s %s (%d)%s", t.ID, t.Kind, t.String(), t.Value, link)
}

// Snapshot is the pre-collapse state of one tile, kept so the most recent
// collapse can be undone. There is no history beyond one snapshot.
type Snapshot struct {
	TileID  ID
	Kind    Kind
	Letters []rune
	Value   int
}

// Snapshot captures the tile's candidate state. It should be taken before
// the tile collapses.
func (t *Tile) Snapshot() *Snapshot {
	letters := make([]rune, len(t.Letters))
	copy(letters, t.Letters)
	return &Snapshot{TileID: t.ID, Kind: t.Kind, Letters: letters, Value: t.Value}
}

// Revert restores a collapsed tile to the state held in s.
func (t *Tile) Revert(s *Snapshot) error {
	if s == nil || s.TileID != t.ID {
		return ErrSnapshotMismatch
	}
	if err := t.state.Event(context.Background(), eventRevert); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return ErrNotCollapsed
		}
		return err
	}
	t.letter = 0
	t.Kind = s.Kind
	t.Letters = make([]rune, len(s.Letters))
	copy(t.Letters, s.Letters)
	t.Value = s.Value
	t.UsedTeleport = false
	return nil
}
