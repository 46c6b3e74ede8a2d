// Package game runs a single-player game: it owns the board, the rack and
// the link table, and drives placement, collapse, validation and scoring
// turn by turn.
package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/board"
	"github.com/domino14/qxword/collapse"
	"github.com/domino14/qxword/config"
	"github.com/domino14/qxword/lexicon"
	"github.com/domino14/qxword/movegen"
	"github.com/domino14/qxword/scoring"
	"github.com/domino14/qxword/tile"
	"github.com/domino14/qxword/wordfind"
)

var (
	ErrNothingPlaced = errors.New("no tiles placed this turn")
	ErrInvalidWord   = errors.New("invalid word")
	ErrNoWords       = errors.New("no words formed")
	ErrGameOver      = errors.New("game is over")
	ErrBusy          = errors.New("a placement is still resolving")
	ErrTileNotInRack = errors.New("tile is not in the rack")
)

// Turn phases.
const (
	stateReady     = "ready"
	stateResolving = "resolving"
	stateOver      = "over"

	evBegin  = "begin"
	evSettle = "settle"
	evEnd    = "end"
)

var turnPhases = fsm.Events{
	{Name: evBegin, Src: []string{stateReady}, Dst: stateResolving},
	{Name: evSettle, Src: []string{stateResolving}, Dst: stateReady},
	{Name: evEnd, Src: []string{stateReady, stateResolving}, Dst: stateOver},
}

// Stats are kept for the end-of-game summary.
type Stats struct {
	WordsPlayed   int
	BestWord      string
	BestWordScore int
	Collapses     int
	Turns         int
	// TurnScores holds the points of every submitted turn, in order.
	TurnScores []int
}

// Game is the state of one game. Its methods are meant to be called from a
// single goroutine; only Expire may come from another one, such as a
// timer. Expire only raises a flag, and the owning goroutine ends the game
// at its next call. A placement that overlaps another mutation fails with
// ErrBusy.
type Game struct {
	cfg  *config.Config
	mode Mode
	seed uint64
	date time.Time

	ld  *alphabet.LetterDistribution
	lex lexicon.Lexicon

	board *board.Board
	rack  []*tile.Tile
	links *tile.Links
	gen   *tile.Generator
	rng   *frand.RNG

	resolver *collapse.Resolver
	scorer   *scoring.Engine
	searcher *movegen.Searcher

	turn *fsm.FSM
	// expired is the only field written from outside the owning goroutine.
	expired atomic.Bool

	score int
	round int
	// unclean holds tiles whose letter ignored best fit: a forcing zone or
	// the forced-collapse power chose it.
	unclean      map[tile.ID]bool
	cooldowns    map[Power]int
	lastCollapse *collapseRecord
	lastTurn     *scoring.TurnResult
	stats        Stats
}

// Option adjusts a game before its first rack is drawn.
type Option func(*Game)

// WithDate sets the date the daily layout is derived from.
func WithDate(t time.Time) Option {
	return func(g *Game) {
		g.date = t
	}
}

// WithPacer replaces the pacer built from the configuration.
func WithPacer(p collapse.Pacer) Option {
	return func(g *Game) {
		g.resolver.SetPacer(p)
	}
}

// WithWildcardScorer sets how wildcards choose their letter, both when they
// collapse and when move search probes them.
func WithWildcardScorer(ws collapse.WildcardScorer) Option {
	return func(g *Game) {
		g.resolver.SetWildcardScorer(ws)
		g.searcher.SetWildcardScorer(ws)
	}
}

// NewGame deals a rack and lays out the board for the configured mode. A
// nil distribution means English.
func NewGame(cfg *config.Config, lex lexicon.Lexicon, ld *alphabet.LetterDistribution,
	opts ...Option) (*Game, error) {

	if ld == nil {
		ld = alphabet.EnglishLetterDistribution()
	}
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := scoring.ParsePenaltyPolicy(cfg.PenaltyPolicy)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	rng := tile.NewRNG(seed)
	links := tile.NewLinks()

	g := &Game{
		cfg:       cfg,
		mode:      mode,
		seed:      seed,
		date:      time.Now().UTC(),
		ld:        ld,
		lex:       lex,
		links:     links,
		rng:       rng,
		gen:       tile.NewGenerator(ld, rng, links),
		resolver:  collapse.NewResolver(ld, links, rng),
		scorer:    scoring.NewEngine(lex, policy),
		searcher:  movegen.NewSearcher(lex, ld),
		unclean:   map[tile.ID]bool{},
		cooldowns: map[Power]int{},
	}
	g.turn = fsm.NewFSM(stateReady, turnPhases, fsm.Callbacks{
		"enter_" + stateOver: func(_ context.Context, e *fsm.Event) {
			log.Info().Int("score", g.score).Int("round", g.round).
				Int("words", g.stats.WordsPlayed).Msg("game over")
		},
	})
	if cfg.HonorDelays {
		g.resolver.SetPacer(collapse.SleepPacer{
			Collapse: cfg.CollapseDelay,
			Well:     cfg.WellDelay,
			Portal:   cfg.PortalDelay,
		})
	}
	g.searcher.SetThreads(cfg.SearchThreads)
	g.searcher.SetCacheSize(cfg.CandidateCacheSize)
	g.searcher.SetCandidates(cfg.OpeningCandidates)
	for _, opt := range opts {
		opt(g)
	}

	g.board = board.NewBoard(g.layoutFor(mode))
	g.rack = g.gen.GenerateRack(cfg.RackSize)
	log.Debug().Uint64("seed", seed).Str("mode", string(mode)).Str("lexicon", lex.Name()).
		Msg("new game")
	return g, nil
}

// settleExpiry ends the game if Expire was called since the last check.
func (g *Game) settleExpiry(ctx context.Context) {
	if g.expired.Load() && !g.turn.Is(stateOver) {
		g.end(ctx)
	}
}

// begin enters the resolving phase; every mutation runs inside it.
func (g *Game) begin(ctx context.Context) error {
	g.settleExpiry(ctx)
	if err := g.turn.Event(ctx, evBegin); err != nil {
		if g.turn.Is(stateOver) {
			return ErrGameOver
		}
		return ErrBusy
	}
	return nil
}

func (g *Game) finish(ctx context.Context) {
	if g.turn.Is(stateResolving) {
		if err := g.turn.Event(ctx, evSettle); err != nil {
			log.Debug().Err(err).Msg("settle")
		}
	}
	g.settleExpiry(ctx)
}

func (g *Game) end(ctx context.Context) {
	if err := g.turn.Event(ctx, evEnd); err != nil {
		log.Debug().Err(err).Msg("end")
	}
}

func (g *Game) rackIndex(id tile.ID) (int, bool) {
	_, idx, ok := lo.FindIndexOf(g.rack, func(t *tile.Tile) bool { return t.ID == id })
	return idx, ok
}

func (g *Game) takeFromRack(idx int) *tile.Tile {
	t := g.rack[idx]
	g.rack = append(g.rack[:idx], g.rack[idx+1:]...)
	return t
}

// PlaceTile moves a rack tile onto the board at (row, col) and collapses
// it. The returned outcome says where the tile ended up and which letter
// it took; a tile that was already collapsed keeps its letter.
func (g *Game) PlaceTile(ctx context.Context, id tile.ID, row, col int) (collapse.Outcome, error) {
	if err := g.begin(ctx); err != nil {
		return collapse.Outcome{}, err
	}
	defer g.finish(ctx)

	idx, ok := g.rackIndex(id)
	if !ok {
		return collapse.Outcome{}, fmt.Errorf("%w: %d", ErrTileNotInRack, id)
	}
	if err := g.board.ValidatePlacement(row, col); err != nil {
		return collapse.Outcome{}, err
	}
	at := board.Coord{Row: row, Col: col}
	t := g.takeFromRack(idx)
	if err := g.board.Place(at, t); err != nil {
		g.rack = append(g.rack, t)
		return collapse.Outcome{}, err
	}
	t.PlacedThisTurn = true

	if t.Collapsed() {
		l, _ := t.Letter()
		return collapse.Outcome{Letter: l, At: at, Zone: g.board.At(at).Zone}, nil
	}

	snap := t.Snapshot()
	out, err := g.resolver.Resolve(ctx, g.board, t, at, g.rack)
	if err != nil {
		// Put the tile back as it was.
		if cell, ok := g.board.Find(t.ID); ok {
			if _, rerr := g.board.Remove(cell.Coord()); rerr != nil {
				log.Error().Err(rerr).Msg("could not take back tile")
			}
		}
		t.PlacedThisTurn = false
		g.rack = append(g.rack, t)
		return out, err
	}
	g.stats.Collapses++
	g.lastCollapse = &collapseRecord{tile: t, snapshot: snap}
	if out.Forced {
		g.unclean[t.ID] = true
	}
	log.Debug().Int("tile", int(t.ID)).Stringer("at", out.At).Str("letter", string(out.Letter)).
		Msg("tile placed")
	return out, nil
}

// placedCoords are the cells of this turn's tiles, in row-major order.
func (g *Game) placedCoords() []board.Coord {
	return lo.Map(g.board.NewlyPlaced(), func(c *board.Cell, _ int) board.Coord {
		return c.Coord()
	})
}

// Preview validates what this turn's tiles form right now.
func (g *Game) Preview() wordfind.Validation {
	return wordfind.ValidateNewly(g.board, g.lex, g.placedCoords())
}

// turnFlags describes the tiles placed this turn for scoring.
func (g *Game) turnFlags() scoring.Flags {
	placed := lo.Map(g.board.NewlyPlaced(), func(c *board.Cell, _ int) *tile.Tile {
		return c.Tile
	})
	linked := lo.Filter(placed, func(t *tile.Tile, _ int) bool { return t.Kind == tile.Linked })
	broken := false
	for _, t := range linked {
		partner, _, ok := g.links.Partner(t)
		switch {
		case !ok:
			broken = true
		case partner.PlacedThisTurn:
			if partner.Kind != tile.Linked {
				broken = true
			}
		default:
			if _, onBoard := g.board.Find(partner.ID); !onBoard {
				broken = true
			}
		}
	}
	return scoring.Flags{
		SuperpositionTiles: lo.CountBy(placed, func(t *tile.Tile) bool { return t.Kind == tile.Superposed }),
		IntactLinkedPair:   len(linked) >= 2 && !broken,
		CleanCollapse:      !lo.SomeBy(placed, func(t *tile.Tile) bool { return g.unclean[t.ID] }),
		UsedTeleport:       lo.SomeBy(placed, func(t *tile.Tile) bool { return t.UsedTeleport }),
		BrokenLink:         broken && g.mode != Zen,
	}
}

// Submit scores this turn's words and ends the turn. Nothing changes if it
// returns an error; the tiles stay where they are.
func (g *Game) Submit(ctx context.Context) (scoring.TurnResult, error) {
	if err := g.begin(ctx); err != nil {
		return scoring.TurnResult{}, err
	}
	defer g.finish(ctx)

	coords := g.placedCoords()
	if len(coords) == 0 {
		return scoring.TurnResult{}, ErrNothingPlaced
	}
	v := wordfind.ValidateNewly(g.board, g.lex, coords)
	if len(v.Invalid) > 0 {
		bad := lo.Map(v.Invalid, func(o wordfind.Occurrence, _ int) string { return o.Word })
		return scoring.TurnResult{}, fmt.Errorf("%w: %s", ErrInvalidWord, strings.Join(bad, ", "))
	}
	if len(v.Valid) == 0 {
		return scoring.TurnResult{}, ErrNoWords
	}

	flags := g.turnFlags()
	tr := g.scorer.ScoreTurn(v.Words(), flags)
	g.score += tr.Total
	g.stats.WordsPlayed += len(v.Valid)
	g.stats.TurnScores = append(g.stats.TurnScores, tr.Total)
	if best, ok := tr.Best(); ok && best.Final > g.stats.BestWordScore {
		g.stats.BestWord = best.Word
		g.stats.BestWordScore = best.Final
	}
	g.lastTurn = &tr
	log.Info().Int("round", g.round).Strs("words", v.Words()).Int("points", tr.Total).
		Int("score", g.score).Msg("turn scored")

	g.endTurn(ctx)
	return tr, nil
}

// endTurn clears the turn, refills the rack and advances the round.
func (g *Game) endTurn(ctx context.Context) {
	for _, c := range g.board.NewlyPlaced() {
		delete(g.unclean, c.Tile.ID)
	}
	g.board.ClearTurnMarkers()
	g.lastCollapse = nil
	g.rack = g.gen.RefillRack(g.rack, g.cfg.RackSize)
	g.tickCooldowns()
	g.round++
	g.stats.Turns++
	if g.mode == Chaos && g.round%chaosInterval == 0 {
		g.chaos()
	}
	if len(g.rack) == 0 {
		g.end(ctx)
	}
}

// Recall returns this turn's tiles to the rack. Tiles that collapsed keep
// their letter.
func (g *Game) Recall(ctx context.Context) error {
	if err := g.begin(ctx); err != nil {
		return err
	}
	defer g.finish(ctx)
	for _, c := range g.board.NewlyPlaced() {
		t, err := g.board.Remove(c.Coord())
		if err != nil {
			return err
		}
		t.PlacedThisTurn = false
		g.rack = append(g.rack, t)
	}
	return nil
}

// Shuffle reorders the rack.
func (g *Game) Shuffle() {
	g.rng.Shuffle(len(g.rack), func(i, j int) {
		g.rack[i], g.rack[j] = g.rack[j], g.rack[i]
	})
}

// Expire ends the game. The time-attack timer calls it when time runs out;
// it is safe to call from any goroutine.
func (g *Game) Expire() {
	g.expired.Store(true)
}

func (g *Game) Over() bool {
	return g.expired.Load() || g.turn.Is(stateOver)
}

func (g *Game) Board() *board.Board {
	return g.board
}

// Rack returns the rack tiles. The slice is the game's own.
func (g *Game) Rack() []*tile.Tile {
	return g.rack
}

func (g *Game) RackTile(id tile.ID) (*tile.Tile, bool) {
	idx, ok := g.rackIndex(id)
	if !ok {
		return nil, false
	}
	return g.rack[idx], true
}

func (g *Game) Links() *tile.Links {
	return g.links
}

func (g *Game) Score() int {
	return g.score
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Mode() Mode {
	return g.mode
}

func (g *Game) Seed() uint64 {
	return g.seed
}

func (g *Game) Stats() Stats {
	st := g.stats
	st.TurnScores = slices.Clone(g.stats.TurnScores)
	return st
}

func (g *Game) Lexicon() lexicon.Lexicon {
	return g.lex
}

// LastTurn is the result of the most recent submitted turn.
func (g *Game) LastTurn() (scoring.TurnResult, bool) {
	if g.lastTurn == nil {
		return scoring.TurnResult{}, false
	}
	return *g.lastTurn, true
}
