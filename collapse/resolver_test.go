package collapse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/tile"
)

type fixture struct {
	gen *tile.Generator
	b   *board.Board
	r   *Resolver
}

func newFixture(seed uint64) *fixture {
	ld := alphabet.EnglishLetterDistribution()
	links := tile.NewLinks()
	rng := tile.NewRNG(seed)
	return &fixture{
		gen: tile.NewGenerator(ld, rng, links),
		b:   board.NewBoard(board.StandardLayout()),
		r:   NewResolver(ld, links, rng),
	}
}

func (f *fixture) place(t *testing.T, c board.Coord, tl *tile.Tile) {
	if err := f.b.Place(c, tl); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) resolve(t *testing.T, c board.Coord, tl *tile.Tile, rack ...*tile.Tile) Outcome {
	f.place(t, c, tl)
	out, err := f.r.Resolve(context.Background(), f.b, tl, c, rack)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBestFitPrefersOppositeClass(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	f.place(t, board.Center, f.gen.NewFixed('C'))
	tl := f.gen.NewSuperposed(alphabet.Pair{'T', 'A'})
	out := f.resolve(t, board.Coord{Row: 6, Col: 7}, tl)
	// A scores 1+2 next to a consonant, T scores 1
	is.Equal(out.Letter, 'A')
	is.True(!out.Forced)
	l, _ := tl.Letter()
	is.Equal(l, 'A')
	is.Equal(tl.Value, 1)
}

func TestBestFitFirstCandidateWinsTies(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	tl := f.gen.NewSuperposed(alphabet.Pair{'A', 'E'})
	out := f.resolve(t, board.Center, tl)
	is.Equal(out.Letter, 'A')
}

func TestBestFitHigherValueWins(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	tl := f.gen.NewSuperposed(alphabet.Pair{'S', 'Z'})
	out := f.resolve(t, board.Center, tl)
	is.Equal(out.Letter, 'Z')
}

func TestSwapShiftTakesSecondCandidate(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	f.place(t, board.Coord{Row: 4, Col: 3}, f.gen.NewFixed('T'))
	tl := f.gen.NewSuperposed(alphabet.Pair{'A', 'R'})
	out := f.resolve(t, board.Coord{Row: 4, Col: 4}, tl)
	is.Equal(out.Zone, board.SwapShift)
	is.Equal(out.Letter, 'R')
	is.True(out.Forced)
}

func TestForceRandomPicksACandidate(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		f := newFixture(seed)
		tl := f.gen.NewSuperposed(alphabet.Pair{'M', 'N'})
		out := f.resolve(t, board.Coord{Row: 1, Col: 1}, tl)
		assert.Contains(t, []rune{'M', 'N'}, out.Letter)
		assert.True(t, out.Forced)

		w := f.gen.NewWildcard()
		out = f.resolve(t, board.Coord{Row: 11, Col: 11}, w)
		assert.Contains(t, f.gen.Distribution().Pool, out.Letter)
		assert.True(t, w.Collapsed())
	}
}

func TestTeleport(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	tl := f.gen.NewSuperposed(alphabet.Pair{'O', 'U'})
	out := f.resolve(t, board.Coord{Row: 0, Col: 0}, tl)
	is.True(out.Teleported)
	is.Equal(out.At, board.Coord{Row: 12, Col: 12})
	is.True(tl.UsedTeleport)
	is.True(f.b.At(board.Coord{Row: 0, Col: 0}).IsEmpty())
	is.True(f.b.At(board.Coord{Row: 12, Col: 12}).Tile == tl)

	// destination taken: resolve in place
	other := f.gen.NewSuperposed(alphabet.Pair{'O', 'U'})
	f.place(t, board.Coord{Row: 12, Col: 0}, f.gen.NewFixed('X'))
	out = f.resolve(t, board.Coord{Row: 0, Col: 12}, other)
	is.True(!out.Teleported)
	is.Equal(out.At, board.Coord{Row: 0, Col: 12})
	is.True(!other.UsedTeleport)
}

func TestLinkNodeLinksRackTile(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	fixed := f.gen.NewFixed('K')
	rackTile := f.gen.NewSuperposed(alphabet.Pair{'E', 'I'})
	tl := f.gen.NewSuperposed(alphabet.Pair{'L', 'R'})
	out := f.resolve(t, board.Coord{Row: 6, Col: 3}, tl, fixed, rackTile)
	is.True(out.NewLink != tile.NoLink)
	is.Equal(tl.LinkID, rackTile.LinkID)
	is.Equal(fixed.LinkID, tile.NoLink)
	// the new group mirrors
	is.True(out.Partner == rackTile)
	pl, ok := rackTile.Letter()
	is.True(ok)
	is.Equal(pl, out.Letter)
	// kinds are unchanged
	is.Equal(tl.Kind, tile.Superposed)
}

func TestLinkNodeWithoutPartner(t *testing.T) {
	is := is.New(t)
	f := newFixture(1)
	collapsed := f.gen.NewSuperposed(alphabet.Pair{'E', 'I'})
	is.NoErr(collapsed.CollapseTo('E', f.gen.Distribution()))
	tl := f.gen.NewSuperposed(alphabet.Pair{'L', 'R'})
	out := f.resolve(t, board.Coord{Row: 6, Col: 9}, tl, collapsed, f.gen.NewFixed('A'))
	is.Equal(out.NewLink, tile.NoLink)
	is.True(out.Partner == nil)
	is.True(tl.Collapsed())
}

func TestLinkPropagation(t *testing.T) {
	cases := []struct {
		rule tile.LinkRule
		pair alphabet.Pair
		want func(primary rune) rune
	}{
		{tile.Mirror, alphabet.Pair{'T', 'R'}, func(p rune) rune { return p }},
		{tile.Invert, alphabet.Pair{'T', 'R'}, func(p rune) rune {
			if p == 'T' {
				return 'R'
			}
			return 'T'
		}},
		{tile.ShiftNextLetter, alphabet.Pair{'S', 'Z'}, func(p rune) rune { return alphabet.NextLetter(p) }},
	}
	for _, c := range cases {
		f := newFixture(3)
		a, b := f.gen.NewLinkedPairOf(c.pair, c.rule)
		out := f.resolve(t, board.Center, a)
		assert.True(t, out.Partner == b, c.rule.String())
		pl, ok := b.Letter()
		assert.True(t, ok)
		assert.Equal(t, c.want(out.Letter), pl, c.rule.String())
		assert.True(t, f.r.links.Inert(a.LinkID))
	}
}

func TestShiftWrapsZ(t *testing.T) {
	is := is.New(t)
	f := newFixture(3)
	a, b := f.gen.NewLinkedPairOf(alphabet.Pair{'S', 'Z'}, tile.ShiftNextLetter)
	out := f.resolve(t, board.Center, a)
	// Z is worth more than S with no neighbours
	is.Equal(out.Letter, 'Z')
	pl, _ := b.Letter()
	is.Equal(pl, 'A')
}

func TestPropagationSkipsCollapsedPartner(t *testing.T) {
	is := is.New(t)
	f := newFixture(4)
	a, b := f.gen.NewLinkedPairOf(alphabet.Pair{'A', 'E'}, tile.Mirror)
	is.NoErr(b.CollapseTo('E', f.gen.Distribution()))
	out := f.resolve(t, board.Center, a)
	is.True(out.Partner == nil)
	pl, _ := b.Letter()
	is.Equal(pl, 'E')
}

func TestResolveCollapsedTileIsNoop(t *testing.T) {
	is := is.New(t)
	f := newFixture(5)
	fx := f.gen.NewFixed('Q')
	f.place(t, board.Coord{Row: 0, Col: 0}, fx)
	out, err := f.r.Resolve(context.Background(), f.b, fx, board.Coord{Row: 0, Col: 0}, nil)
	is.True(errors.Is(err, tile.ErrAlreadyCollapsed))
	is.Equal(out.Letter, 'Q')
	// no teleport for a tile that was already collapsed
	is.True(!out.Teleported)
	is.True(f.b.At(board.Coord{Row: 0, Col: 0}).Tile == fx)
}

func TestWildcard(t *testing.T) {
	is := is.New(t)
	f := newFixture(6)
	w := f.gen.NewWildcard()
	out := f.resolve(t, board.Center, w)
	is.Equal(out.Letter, 'E')
	is.Equal(w.Value, 1)

	f.r.SetWildcardScorer(WildcardScorerFunc(func(neighbors []rune) rune {
		if len(neighbors) > 0 && neighbors[0] == 'E' {
			return 'X'
		}
		return 'E'
	}))
	w2 := f.gen.NewWildcard()
	out = f.resolve(t, board.Coord{Row: 6, Col: 7}, w2)
	is.Equal(out.Letter, 'X')
	is.Equal(w2.Value, 8)
}

func TestWildcardScorerWithoutLetter(t *testing.T) {
	is := is.New(t)
	f := newFixture(6)
	f.r.SetWildcardScorer(WildcardScorerFunc(func([]rune) rune { return 0 }))
	w := f.gen.NewWildcard()
	out := f.resolve(t, board.Center, w)
	is.Equal(out.Letter, 'E')
	l, ok := w.Letter()
	is.True(ok)
	is.Equal(l, 'E')

	ld := alphabet.EnglishLetterDistribution()
	lower := WildcardScorerFunc(func([]rune) rune { return 'q' })
	is.Equal(WildcardChoice(lower, ld, nil), 'Q')
	digit := WildcardScorerFunc(func([]rune) rune { return '7' })
	is.Equal(WildcardChoice(digit, ld, nil), 'E')
}

func TestPriorityScorer(t *testing.T) {
	is := is.New(t)
	ld := alphabet.EnglishLetterDistribution()
	ps := NewPriorityScorer(ld)
	is.Equal(ps.ChooseWildcard(nil), 'E')
	is.Equal(ps.ChooseWildcard([]rune{'T'}), 'E')
	is.Equal(LocalScore(ld, 'E', []rune{'T', 'S', 'A'}), 5)
	is.Equal(LocalScore(ld, 'Q', []rune{'T'}), 10)
}

func TestPartnerLetter(t *testing.T) {
	is := is.New(t)
	is.Equal(PartnerLetter(tile.Mirror, 'Q', nil, nil), 'Q')
	is.Equal(PartnerLetter(tile.Invert, 'A', []rune{'A', 'E'}, []rune{'A', 'E'}), 'E')
	// primary letter outside its pair: use the partner's pair
	is.Equal(PartnerLetter(tile.Invert, 'X', []rune{'A', 'E'}, []rune{'X', 'O'}), 'O')
	// nothing to invert against
	is.Equal(PartnerLetter(tile.Invert, 'X', nil, nil), 'X')
	is.Equal(PartnerLetter(tile.ShiftNextLetter, 'Z', nil, nil), 'A')
	is.Equal(PartnerLetter(tile.ShiftNextLetter, 'M', nil, nil), 'N')
}

func TestPacingDoesNotChangeOutcome(t *testing.T) {
	is := is.New(t)
	run := func(p Pacer, ctx context.Context) []rune {
		f := newFixture(77)
		f.r.SetPacer(p)
		letters := []rune{}
		coords := []board.Coord{{Row: 6, Col: 6}, {Row: 6, Col: 7}, {Row: 6, Col: 8}, {Row: 6, Col: 9}}
		for _, c := range coords {
			tl := f.gen.NewSuperposed(alphabet.Pair{'A', 'O'})
			f.place(t, c, tl)
			out, err := f.r.Resolve(ctx, f.b, tl, c, nil)
			is.NoErr(err)
			letters = append(letters, out.Letter)
		}
		return letters
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	plain := run(NoPacer{}, context.Background())
	paced := run(SleepPacer{Collapse: time.Millisecond, Well: time.Millisecond, Portal: time.Millisecond},
		context.Background())
	cut := run(SleepPacer{Collapse: time.Hour}, cancelled)
	is.Equal(plain, paced)
	is.Equal(plain, cut)
}
