package movegen

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/collapse"
	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/tile"
	"github.com/domino14/qxword/wordfind"
)

// probeLetter is the letter a tile is tried with: its collapsed letter or
// its first candidate. Wildcards have no probe letter of their own.
func probeLetter(t *tile.Tile) (rune, bool) {
	if l, ok := t.Letter(); ok {
		return l, true
	}
	if len(t.Letters) > 0 {
		return t.Letters[0], true
	}
	return 0, false
}

// Frontier returns every empty cell next to an occupied one, in row-major
// order.
func Frontier(b *board.Board) []board.Coord {
	coords := []board.Coord{}
	n := b.Dim()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if cell, _ := b.Cell(r, c); cell.IsEmpty() && b.HasAdjacentTile(r, c) {
				coords = append(coords, cell.Coord())
			}
		}
	}
	return coords
}

// probe places a temporary tile showing letter at c, validates the words
// through c, and takes the tile back off.
func (s *Searcher) probe(b *board.Board, c board.Coord, letter rune) wordfind.Validation {
	if err := b.Place(c, tile.NewProbe(letter, s.ld)); err != nil {
		// Frontier cells are empty; this cannot happen.
		log.Error().Err(err).Msg("probe placement failed")
		return wordfind.Validation{}
	}
	v := wordfind.ValidateNewly(b, s.lex, []board.Coord{c})
	if _, err := b.Remove(c); err != nil {
		log.Error().Err(err).Msg("probe removal failed")
	}
	return v
}

// wordsScore is the total base score of the valid words.
func (s *Searcher) wordsScore(v wordfind.Validation) int {
	score := 0
	for _, o := range v.Valid {
		score += s.lex.BaseScore(o.Word)
	}
	return score
}

func (s *Searcher) extensionMove(rack []*tile.Tile, b *board.Board) (*move.Move, error) {
	frontier := Frontier(b)
	var best *move.Move
	for _, t := range rack {
		letter, ok := probeLetter(t)
		if !ok {
			continue
		}
		for _, c := range frontier {
			v := s.probe(b, c, letter)
			if !v.Legal() {
				continue
			}
			score := s.wordsScore(v)
			if best == nil || score > best.Score() {
				best = move.NewPlacement(move.MoveTypeExtension, t.ID, c, letter, score, v.Words())
			}
		}
	}
	if best != nil {
		return best, nil
	}

	// No word yet: take the first placement that forms nothing invalid.
	// Wildcards are tried here with the letter they would collapse to.
	for _, t := range rack {
		for _, c := range frontier {
			letter, ok := probeLetter(t)
			if !ok {
				letter = collapse.WildcardChoice(s.wild, s.ld, collapse.Neighbors(b, c))
			}
			v := s.probe(b, c, letter)
			if len(v.Invalid) > 0 {
				continue
			}
			if v.Legal() {
				return move.NewPlacement(move.MoveTypeExtension, t.ID, c, letter, s.wordsScore(v),
					v.Words()), nil
			}
			return move.NewPlacement(move.MoveTypeBuild, t.ID, c, letter, 0, nil), nil
		}
	}
	return nil, ErrNoLegalMove
}
