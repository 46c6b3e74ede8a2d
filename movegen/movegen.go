// Package movegen finds a single-tile placement for the current rack. It is
// greedy and looks one placement ahead: callers commit the move and search
// again.
package movegen

import (
	"context"
	"errors"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/collapse"
	"github.com/domino14/qxword/lexicon"
	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/tile"
)

var ErrNoLegalMove = errors.New("no legal move")

const (
	// MaxOpeningLength is the longest word an opening rack is matched
	// against.
	MaxOpeningLength = 7
	DefaultCandidates = 50
	DefaultCacheSize  = 256
)

// Searcher is not reentrant: extension search places and removes probe
// tiles on the board it is given.
type Searcher struct {
	lex        lexicon.Lexicon
	ld         *alphabet.LetterDistribution
	wild       collapse.WildcardScorer
	threads    int
	candidates int
	cache      *candidateCache
}

func NewSearcher(lex lexicon.Lexicon, ld *alphabet.LetterDistribution) *Searcher {
	return &Searcher{
		lex:        lex,
		ld:         ld,
		wild:       collapse.NewPriorityScorer(ld),
		threads:    1,
		candidates: DefaultCandidates,
		cache:      newCandidateCache(DefaultCacheSize),
	}
}

func (s *Searcher) SetThreads(n int) {
	s.threads = max(1, n)
}

// SetCandidates sets how many opening words are kept after ranking.
func (s *Searcher) SetCandidates(n int) {
	s.candidates = max(1, n)
	s.cache.Purge()
}

// SetCacheSize sets how many rack signatures have their opening
// candidates remembered. Zero or less sizes the cache from system memory.
func (s *Searcher) SetCacheSize(n int) {
	if n <= 0 {
		n = cacheSizeFromMemory(memory.TotalMemory())
	}
	s.cache = newCandidateCache(n)
}

// SetWildcardScorer sets how wildcards are probed; it should match the
// resolver's.
func (s *Searcher) SetWildcardScorer(ws collapse.WildcardScorer) {
	s.wild = ws
}

// BestMove returns the placement to make next. opening should be true iff
// the board is empty. It returns ErrNoLegalMove when nothing qualifies.
func (s *Searcher) BestMove(ctx context.Context, rack []*tile.Tile, b *board.Board,
	opening bool) (*move.Move, error) {

	if len(rack) == 0 {
		return nil, ErrNoLegalMove
	}
	var m *move.Move
	var err error
	if opening {
		m, err = s.openingMove(ctx, rack)
	} else {
		m, err = s.extensionMove(rack, b)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Stringer("move", m).Msg("best move")
	return m, nil
}
