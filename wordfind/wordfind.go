// Package wordfind scans the grid for words and checks the ones a turn
// touched against the lexicon. Occurrences are derived on every call and
// never stored.
package wordfind

import (
	"fmt"
	"strings"

	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/lexicon"
)

// Grid is all the scanner needs from a board.
type Grid interface {
	Dim() int
	LetterAt(row, col int) (rune, bool)
}

// An Occurrence is a maximal run of two or more collapsed letters in one
// direction.
type Occurrence struct {
	Word      string
	Direction board.Direction
	Cells     []board.Coord
}

func (o Occurrence) String() string {
	return fmt.Sprintf("%s %v %s", o.Word, o.Cells[0], o.Direction)
}

// Touches reports whether any cell of the occurrence is in cells.
func (o Occurrence) Touches(cells map[board.Coord]bool) bool {
	for _, c := range o.Cells {
		if cells[c] {
			return true
		}
	}
	return false
}

// FindWords returns every occurrence on g: rows top to bottom, then columns
// left to right.
func FindWords(g Grid) []Occurrence {
	words := []Occurrence{}
	n := g.Dim()
	for row := 0; row < n; row++ {
		words = scanLine(g, words, n, board.Horizontal, func(i int) board.Coord {
			return board.Coord{Row: row, Col: i}
		})
	}
	for col := 0; col < n; col++ {
		words = scanLine(g, words, n, board.Vertical, func(i int) board.Coord {
			return board.Coord{Row: i, Col: col}
		})
	}
	return words
}

// scanLine walks one row or column; at maps a position along the line to
// its coordinate.
func scanLine(g Grid, words []Occurrence, n int, dir board.Direction,
	at func(int) board.Coord) []Occurrence {

	var sb strings.Builder
	cells := []board.Coord{}
	flush := func() {
		if len(cells) >= lexicon.MinWordLength {
			words = append(words, Occurrence{Word: sb.String(), Direction: dir, Cells: cells})
		}
		sb.Reset()
		cells = []board.Coord{}
	}
	for i := 0; i < n; i++ {
		c := at(i)
		l, ok := g.LetterAt(c.Row, c.Col)
		if !ok {
			flush()
			continue
		}
		sb.WriteRune(l)
		cells = append(cells, c)
	}
	flush()
	return words
}

// Validation partitions the occurrences a turn touched.
type Validation struct {
	Valid   []Occurrence
	Invalid []Occurrence
}

// Legal is true when the turn formed at least one word and no bad ones.
func (v Validation) Legal() bool {
	return len(v.Valid) > 0 && len(v.Invalid) == 0
}

// Words returns the text of the valid occurrences.
func (v Validation) Words() []string {
	ws := make([]string, len(v.Valid))
	for i, o := range v.Valid {
		ws[i] = o.Word
	}
	return ws
}

// ValidateNewly checks the occurrences that include at least one of
// newCells. Occurrences that only use older tiles are ignored.
func ValidateNewly(g Grid, lex lexicon.Lexicon, newCells []board.Coord) Validation {
	fresh := make(map[board.Coord]bool, len(newCells))
	for _, c := range newCells {
		fresh[c] = true
	}
	v := Validation{Valid: []Occurrence{}, Invalid: []Occurrence{}}
	for _, o := range FindWords(g) {
		if !o.Touches(fresh) {
			continue
		}
		if lex.HasWord(o.Word) {
			v.Valid = append(v.Valid, o)
		} else {
			v.Invalid = append(v.Invalid, o)
		}
	}
	return v
}
