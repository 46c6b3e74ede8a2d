package movegen

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/move"
	"github.com/domino14/qxword/testhelpers"
	"github.com/domino14/qxword/tile"
)

func newSearcher(words ...string) *Searcher {
	return NewSearcher(testhelpers.Lexicon(words...), testhelpers.EnglishDistribution())
}

func openingRack(g *tile.Generator) []*tile.Tile {
	return []*tile.Tile{
		g.NewFixed('C'),
		g.NewSuperposed(alphabet.Pair{'A', 'E'}),
		g.NewFixed('T'),
	}
}

func TestRackLetters(t *testing.T) {
	is := is.New(t)
	g := testhelpers.Generator(1)
	rack := append(openingRack(g), g.NewWildcard())
	is.Equal(string(RackLetters(rack)), "CAET*")
}

func TestCanForm(t *testing.T) {
	cases := []struct {
		letters string
		word    string
		ok      bool
	}{
		{"CAT", "act", true},
		{"CAT", "tact", false},
		{"CAT*", "tact", true},
		{"CA**", "cabs", true},
		{"AE", "ae", true},
		{"A", "aa", false},
	}
	for _, c := range cases {
		p := newLetterPool([]rune(c.letters))
		assert.Equal(t, c.ok, p.canForm(c.word), c.letters+" "+c.word)
	}
}

func TestOpeningCandidates(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "act", "ace", "at", "tea", "eta", "ae", "quiz", "a", "cattle")
	g := testhelpers.Generator(1)
	cands, err := s.Candidates(context.Background(), openingRack(g))
	is.NoErr(err)
	words := []string{}
	for _, c := range cands {
		words = append(words, c.Word)
	}
	// both candidates of a superposed tile count as usable letters
	is.Equal(words, []string{"ACE", "ACT", "CAT", "ETA", "TEA", "AE", "AT"})
	is.Equal(cands[0].Score, 5)

	s.SetCandidates(2)
	cands, err = s.Candidates(context.Background(), openingRack(g))
	is.NoErr(err)
	is.Equal(len(cands), 2)
}

func TestOpeningCandidatesThreaded(t *testing.T) {
	is := is.New(t)
	words := []string{"cat", "act", "ace", "at", "tea", "eta", "ae", "ta", "cate", "tace"}
	single := newSearcher(words...)
	threaded := newSearcher(words...)
	threaded.SetThreads(3)
	g := testhelpers.Generator(2)
	rack := openingRack(g)
	a, err := single.Candidates(context.Background(), rack)
	is.NoErr(err)
	b, err := threaded.Candidates(context.Background(), rack)
	is.NoErr(err)
	is.Equal(a, b)
}

func TestOpeningCandidatesCached(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "act")
	g := testhelpers.Generator(3)
	rack := openingRack(g)
	reversed := []*tile.Tile{rack[2], rack[1], rack[0]}
	is.Equal(signature(s.lex, RackLetters(rack)), signature(s.lex, RackLetters(reversed)))

	first, err := s.Candidates(context.Background(), rack)
	is.NoErr(err)
	second, err := s.Candidates(context.Background(), reversed)
	is.NoErr(err)
	is.True(&first[0] == &second[0])
}

func TestCacheSizeFromMemory(t *testing.T) {
	is := is.New(t)
	is.Equal(cacheSizeFromMemory(0), DefaultCacheSize)
	is.Equal(cacheSizeFromMemory(16<<30), 1024)
	is.Equal(cacheSizeFromMemory(1<<50), maxCacheSize)
}

func TestOpeningCandidatesCancelled(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Candidates(ctx, openingRack(testhelpers.Generator(4)))
	is.True(errors.Is(err, context.Canceled))
}

func TestOpeningMove(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "act", "ace", "at")
	g := testhelpers.Generator(5)
	rack := openingRack(g)
	m, err := s.BestMove(context.Background(), rack, board.NewBoard(board.StandardLayout()), true)
	is.NoErr(err)
	is.Equal(m.Action(), move.MoveTypeOpening)
	is.Equal(m.Coord(), board.Center)
	// ACE starts with A; only the superposed tile offers it
	is.Equal(m.TileID(), rack[1].ID)
	is.Equal(m.Words(), []string{"ACE"})
	is.Equal(m.Score(), 5)
}

func TestTileForLetterPreference(t *testing.T) {
	is := is.New(t)
	g := testhelpers.Generator(6)
	wild := g.NewWildcard()
	sup := g.NewSuperposed(alphabet.Pair{'E', 'A'})
	fixed := g.NewFixed('A')
	rack := []*tile.Tile{wild, sup, fixed}
	got, ok := TileForLetter(rack, 'a')
	is.True(ok)
	is.True(got == fixed)
	got, _ = TileForLetter(rack, 'E')
	is.True(got == sup)
	got, _ = TileForLetter(rack, 'Q')
	is.True(got == wild)
	_, ok = TileForLetter([]*tile.Tile{fixed}, 'Q')
	is.True(!ok)
}

func TestOpeningWithoutWordsUsesFirstTile(t *testing.T) {
	is := is.New(t)
	s := newSearcher("quiz")
	g := testhelpers.Generator(7)
	rack := openingRack(g)
	m, err := s.BestMove(context.Background(), rack, board.NewBoard(board.StandardLayout()), true)
	is.NoErr(err)
	is.Equal(m.TileID(), rack[0].ID)
	is.Equal(m.Coord(), board.Center)
	is.Equal(m.Action(), move.MoveTypeBuild)
}

func TestExtensionMove(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "cats", "scat")
	g := testhelpers.Generator(8)
	b := board.NewBoard(board.StandardLayout())
	testhelpers.Lay(t, b, g, 6, 5, board.Horizontal, "CAT")
	before := b.String()
	rack := testhelpers.Fixed(g, "QS")

	m, err := s.BestMove(context.Background(), rack, b, false)
	is.NoErr(err)
	is.Equal(m.Action(), move.MoveTypeExtension)
	is.Equal(m.TileID(), rack[1].ID)
	// SCAT and CATS tie; the first found in row-major order wins
	is.Equal(m.Coord(), board.Coord{Row: 6, Col: 4})
	is.Equal(m.Words(), []string{"SCAT"})
	is.Equal(m.Score(), 7)

	// probes leave the board as they found it
	is.Equal(b.String(), before)
	is.Equal(b.NumTiles(), 3)
}

func TestExtensionPrefersHigherScore(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "cats", "catz")
	g := testhelpers.Generator(9)
	b := board.NewBoard(board.StandardLayout())
	testhelpers.Lay(t, b, g, 6, 5, board.Horizontal, "CAT")
	rack := testhelpers.Fixed(g, "SZ")
	m, err := s.BestMove(context.Background(), rack, b, false)
	is.NoErr(err)
	is.Equal(m.Words(), []string{"CATZ"})
	is.Equal(m.Score(), 15)
}

func TestNoExtensionReturnsNone(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "cats")
	g := testhelpers.Generator(10)
	b := board.NewBoard(board.StandardLayout())
	testhelpers.Lay(t, b, g, 6, 5, board.Horizontal, "CAT")
	m, err := s.BestMove(context.Background(), testhelpers.Fixed(g, "QJ"), b, false)
	is.True(errors.Is(err, ErrNoLegalMove))
	is.True(m == nil)
}

func TestEmptyRack(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat")
	_, err := s.BestMove(context.Background(), nil, board.NewBoard(board.StandardLayout()), true)
	is.True(errors.Is(err, ErrNoLegalMove))
}

func TestWildcardTriedInFallback(t *testing.T) {
	is := is.New(t)
	s := newSearcher("cat", "cate")
	g := testhelpers.Generator(11)
	b := board.NewBoard(board.StandardLayout())
	testhelpers.Lay(t, b, g, 6, 5, board.Horizontal, "CAT")
	w := g.NewWildcard()
	m, err := s.BestMove(context.Background(), []*tile.Tile{w}, b, false)
	is.NoErr(err)
	is.Equal(m.TileID(), w.ID)
	is.Equal(m.Letter(), 'E')
	is.Equal(m.Coord(), board.Coord{Row: 6, Col: 8})
	is.Equal(m.Words(), []string{"CATE"})
}

func TestFrontier(t *testing.T) {
	is := is.New(t)
	g := testhelpers.Generator(12)
	b := board.NewBoard(board.StandardLayout())
	is.Equal(len(Frontier(b)), 0)
	testhelpers.Lay(t, b, g, 6, 6, board.Horizontal, "A")
	is.Equal(Frontier(b), []board.Coord{{Row: 5, Col: 6}, {Row: 6, Col: 5}, {Row: 6, Col: 7}, {Row: 7, Col: 6}})
}
