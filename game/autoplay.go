package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/movegen"
)

// AutoPlayResult is what one auto-play run did. It never submits; Legal
// says whether this turn's tiles now form a submittable play.
type AutoPlayResult struct {
	Moves []*move.Move
	Legal bool
}

// Hint returns the placement move search would make next.
func (g *Game) Hint(ctx context.Context) (*move.Move, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	return g.searcher.BestMove(ctx, g.rack, g.board, g.board.IsEmpty())
}

// AutoPlay places tiles chosen by move search until this turn forms at
// least one valid word and no invalid one, the placement cap is reached,
// or search finds nothing. If nothing could be placed at all the rack is
// shuffled.
func (g *Game) AutoPlay(ctx context.Context) (AutoPlayResult, error) {
	res := AutoPlayResult{}
	for len(res.Moves) < g.cfg.AutoPlayCap && len(g.rack) > 0 {
		m, err := g.Hint(ctx)
		if errors.Is(err, movegen.ErrNoLegalMove) {
			break
		}
		if err != nil {
			return res, err
		}
		c := m.Coord()
		out, err := g.PlaceTile(ctx, m.TileID(), c.Row, c.Col)
		if err != nil {
			log.Warn().Err(err).Stringer("move", m).Msg("auto-play placement failed")
			break
		}
		res.Moves = append(res.Moves, m)
		log.Debug().Stringer("move", m).Str("letter", string(out.Letter)).Msg("auto-play placed")
		if g.Preview().Legal() {
			res.Legal = true
			break
		}
	}
	if len(res.Moves) == 0 {
		g.Shuffle()
		log.Info().Msg("auto-play found no move; rack shuffled")
	}
	return res, nil
}
