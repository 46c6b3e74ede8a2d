// Package testhelpers builds fixtures shared by the package tests.
package testhelpers

import (
	"testing"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/config"
	"github.com/domino14/qxword/lexicon"
	"github.com/domino14/qxword/tile"
)

var DefaultConfig = config.DefaultConfig()

func EnglishDistribution() *alphabet.LetterDistribution {
	return alphabet.EnglishLetterDistribution()
}

// Lexicon builds an in-memory word list.
func Lexicon(words ...string) *lexicon.WordList {
	return lexicon.NewWordList("test", words, EnglishDistribution())
}

// Generator returns a seeded tile generator with its own link table.
func Generator(seed uint64) *tile.Generator {
	return tile.NewGenerator(EnglishDistribution(), tile.NewRNG(seed), tile.NewLinks())
}

// Lay places fixed tiles spelling letters from (row, col) in direction
// dir. A '.' leaves its cell alone. It returns every coordinate it walked.
func Lay(t testing.TB, b *board.Board, g *tile.Generator, row, col int, dir board.Direction,
	letters string) []board.Coord {

	t.Helper()
	coords := []board.Coord{}
	for i, l := range letters {
		c := board.Coord{Row: row, Col: col + i}
		if dir == board.Vertical {
			c = board.Coord{Row: row + i, Col: col}
		}
		if l != '.' {
			if err := b.Place(c, g.NewFixed(l)); err != nil {
				t.Fatal(err)
			}
		}
		coords = append(coords, c)
	}
	return coords
}

// Fixed returns one fixed tile per letter.
func Fixed(g *tile.Generator, letters string) []*tile.Tile {
	ts := []*tile.Tile{}
	for _, l := range letters {
		ts = append(ts, g.NewFixed(l))
	}
	return ts
}
