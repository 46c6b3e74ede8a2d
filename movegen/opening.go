package movegen

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/lexicon"
	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/tile"
)

// Candidate is a lexicon word the rack can spell.
type Candidate struct {
	Word  string
	Score int
}

// RackLetters returns the letters a rack can offer: the letter of a
// collapsed tile, both candidates of an uncollapsed one, and a joker for a
// wildcard.
func RackLetters(rack []*tile.Tile) []rune {
	letters := []rune{}
	for _, t := range rack {
		switch {
		case t.Collapsed():
			l, _ := t.Letter()
			letters = append(letters, unicode.ToUpper(l))
		case t.Kind == tile.Wildcard:
			letters = append(letters, alphabet.WildcardToken)
		default:
			for _, l := range t.Letters {
				letters = append(letters, unicode.ToUpper(l))
			}
		}
	}
	return letters
}

// letterPool is a multiset of rack letters plus a count of jokers.
type letterPool struct {
	counts map[rune]int
	jokers int
}

func newLetterPool(letters []rune) letterPool {
	p := letterPool{counts: map[rune]int{}}
	for _, l := range letters {
		if l == alphabet.WildcardToken {
			p.jokers++
		} else {
			p.counts[l]++
		}
	}
	return p
}

// canForm reports whether word can be spelled from the pool, each letter
// used at most once and jokers covering any shortfall.
func (p letterPool) canForm(word string) bool {
	need := map[rune]int{}
	short := 0
	for _, r := range word {
		r = unicode.ToUpper(r)
		need[r]++
		if need[r] > p.counts[r] {
			short++
			if short > p.jokers {
				return false
			}
		}
	}
	return true
}

// signature keys the candidate cache; letters are sorted so rack order does
// not matter.
func signature(lex lexicon.Lexicon, letters []rune) string {
	sorted := make([]rune, len(letters))
	copy(sorted, letters)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return lex.Name() + ":" + string(sorted)
}

// Candidates returns the best opening words for rack, ranked by base score
// then alphabetically.
func (s *Searcher) Candidates(ctx context.Context, rack []*tile.Tile) ([]Candidate, error) {
	letters := RackLetters(rack)
	key := signature(s.lex, letters)
	if c, ok := s.cache.get(key); ok {
		return c, nil
	}
	pool := newLetterPool(letters)
	words := s.lex.Words()

	// Each worker takes every threads-th word.
	results := make([][]Candidate, s.threads)
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < s.threads; t++ {
		g.Go(func() error {
			for i := t; i < len(words); i += s.threads {
				if (i/s.threads)%1024 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				w := words[i]
				n := len([]rune(w))
				if n < lexicon.MinWordLength || n > MaxOpeningLength || !pool.canForm(w) {
					continue
				}
				results[t] = append(results[t], Candidate{
					Word:  strings.ToUpper(w),
					Score: s.lex.BaseScore(w),
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := []Candidate{}
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Word < all[j].Word
	})
	if len(all) > s.candidates {
		all = all[:s.candidates]
	}
	s.cache.add(key, all)
	log.Debug().Int("candidates", len(all)).Str("rack", string(letters)).Msg("opening candidates")
	return all, nil
}

// TileForLetter picks the rack tile to play for letter: a collapsed tile
// showing it, then an uncollapsed tile offering it, then a wildcard.
func TileForLetter(rack []*tile.Tile, letter rune) (*tile.Tile, bool) {
	letter = unicode.ToUpper(letter)
	for _, t := range rack {
		if l, ok := t.Letter(); ok && unicode.ToUpper(l) == letter {
			return t, true
		}
	}
	for _, t := range rack {
		if t.Collapsed() {
			continue
		}
		for _, l := range t.Letters {
			if unicode.ToUpper(l) == letter {
				return t, true
			}
		}
	}
	for _, t := range rack {
		if t.Kind == tile.Wildcard && !t.Collapsed() {
			return t, true
		}
	}
	return nil, false
}

func (s *Searcher) openingMove(ctx context.Context, rack []*tile.Tile) (*move.Move, error) {
	cands, err := s.Candidates(ctx, rack)
	if err != nil {
		return nil, err
	}
	for _, c := range cands {
		first := []rune(c.Word)[0]
		t, ok := TileForLetter(rack, first)
		if !ok {
			continue
		}
		return move.NewPlacement(move.MoveTypeOpening, t.ID, board.Center, first, c.Score,
			[]string{c.Word}), nil
	}
	// Nothing spells a word; the first tile still opens the board.
	t := rack[0]
	letter, _ := probeLetter(t)
	return move.NewPlacement(move.MoveTypeBuild, t.ID, board.Center, letter, 0, nil), nil
}

// candidateCache memoises opening candidates per rack signature.
type candidateCache struct {
	mux sync.Mutex
	lru *simplelru.LRU
}

const (
	// A rough upper bound on one cached entry: the key plus a full list of
	// candidates.
	candidateEntryBytes = 4096
	// Share of system memory the candidate cache may take.
	cacheMemoryFraction = 1.0 / 4096
	maxCacheSize        = 1 << 16
)

func cacheSizeFromMemory(total uint64) int {
	n := int(float64(total) * cacheMemoryFraction / candidateEntryBytes)
	return min(max(n, DefaultCacheSize), maxCacheSize)
}

func newCandidateCache(size int) *candidateCache {
	cc := &candidateCache{}
	cc.lru, _ = simplelru.NewLRU(max(1, size), nil)
	return cc
}

func (cc *candidateCache) get(key string) ([]Candidate, bool) {
	cc.mux.Lock()
	defer cc.mux.Unlock()
	if v, ok := cc.lru.Get(key); ok {
		return v.([]Candidate), true
	}
	return nil, false
}

func (cc *candidateCache) add(key string, c []Candidate) {
	cc.mux.Lock()
	defer cc.mux.Unlock()
	cc.lru.Add(key, c)
}

func (cc *candidateCache) Purge() {
	cc.mux.Lock()
	defer cc.mux.Unlock()
	cc.lru.Purge()
}
