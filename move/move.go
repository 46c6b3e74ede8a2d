// Package move describes a single-tile placement chosen by move search.
package move

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/tile"
)

// MoveType says how a placement was found.
type MoveType uint8

const (
	// MoveTypeOpening is the centre placement on an empty board.
	MoveTypeOpening MoveType = iota
	// MoveTypeExtension forms at least one valid word and no invalid one.
	MoveTypeExtension
	// MoveTypeBuild forms no invalid word but no valid word yet either; it
	// lets repeated single-tile placements build towards a word.
	MoveTypeBuild
)

func (t MoveType) String() string {
	switch t {
	case MoveTypeOpening:
		return "opening"
	case MoveTypeExtension:
		return "extension"
	case MoveTypeBuild:
		return "build"
	}
	return "unknown"
}

// Move is a placement of one rack tile. Score is the total base score of
// the words it is expected to form, or of the target word for an opening.
type Move struct {
	action MoveType
	tileID tile.ID
	row    int
	col    int
	// letter is the letter search assumed the tile would show.
	letter rune
	score  int
	words  []string
}

var reVertical, reHorizontal *regexp.Regexp

func init() {
	reVertical = regexp.MustCompile(`^(?P<col>[A-Z])(?P<row>[0-9]+)$`)
	reHorizontal = regexp.MustCompile(`^(?P<row>[0-9]+)(?P<col>[A-Z])$`)
}

func NewPlacement(action MoveType, id tile.ID, c board.Coord, letter rune, score int,
	words []string) *Move {

	return &Move{
		action: action,
		tileID: id,
		row:    c.Row,
		col:    c.Col,
		letter: letter,
		score:  score,
		words:  words,
	}
}

// String provides a string just for debugging purposes.
func (m *Move) String() string {
	return fmt.Sprintf("<%p action: %v tile: %d at: %v letter: %c score: %d words: %v>",
		m, m.action, m.tileID, m.BoardCoords(), m.letter, m.score, m.words)
}

// ShortDescription is what the shell shows for a hint.
func (m *Move) ShortDescription() string {
	desc := fmt.Sprintf("%3v %c (tile %d)", m.BoardCoords(), m.letter, m.tileID)
	if len(m.words) > 0 {
		desc += " " + strings.Join(m.words, ",")
	}
	return desc
}

func (m *Move) Action() MoveType {
	return m.action
}

func (m *Move) TileID() tile.ID {
	return m.tileID
}

func (m *Move) Coord() board.Coord {
	return board.Coord{Row: m.row, Col: m.col}
}

func (m *Move) Letter() rune {
	return m.letter
}

func (m *Move) Score() int {
	return m.score
}

func (m *Move) Words() []string {
	return m.words
}

func (m *Move) BoardCoords() string {
	return ToBoardGameCoords(m.row, m.col)
}

// ToBoardGameCoords converts a row and column to a coordinate like 7G: the
// row is 1-based and the column a letter.
func ToBoardGameCoords(row int, col int) string {
	return strconv.Itoa(row+1) + string(rune('A'+col))
}

// FromBoardGameCoords does the inverse operation of ToBoardGameCoords. It
// also takes the column first (G7), and lowercase column letters.
func FromBoardGameCoords(c string) (board.Coord, bool) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if m := reVertical.FindStringSubmatch(c); len(m) == 3 {
		row, _ := strconv.Atoi(m[2])
		return board.Coord{Row: row - 1, Col: int(m[1][0] - 'A')}, true
	}
	if m := reHorizontal.FindStringSubmatch(c); len(m) == 3 {
		row, _ := strconv.Atoi(m[1])
		return board.Coord{Row: row - 1, Col: int(m[2][0] - 'A')}, true
	}
	return board.Coord{}, false
}
