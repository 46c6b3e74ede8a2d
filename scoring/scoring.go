// Package scoring prices words. Bonuses add up to a single percentage that
// multiplies the base score; penalties are flat and applied after the
// multiplication. Scores never go below zero.
package scoring

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/domino14/qxword/lexicon"
)

// Bonus percentages.
const (
	MasteryBonus      = 20
	LinkedPairBonus   = 30
	CleanBonus        = 10
	TeleportBonus     = 15
	LongWordBonus     = 25
	GoodLengthBonus   = 10
	MasteryThreshold  = 3
	LongWordLength    = 7
	GoodLengthLength  = 5
	BrokenLinkPenalty = 10
	// InvalidStatePenalty is reserved; nothing sets its flag yet.
	InvalidStatePenalty = 5
)

var ErrUnknownPolicy = errors.New("unknown penalty policy")

// Flags is the situation a word was played in.
type Flags struct {
	// SuperpositionTiles is how many superposed tiles were played this
	// turn.
	SuperpositionTiles   int
	IntactLinkedPair     bool
	CleanCollapse        bool
	UsedTeleport         bool
	BrokenLink           bool
	InvalidCollapseState bool
}

// An Adjustment is a named bonus (in percent) or penalty (in points).
type Adjustment struct {
	Name   string
	Amount int
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s (%d)", a.Name, a.Amount)
}

type Result struct {
	Word      string
	Base      int
	Bonuses   []Adjustment
	Penalties []Adjustment
	// Percent is the summed bonus percentage.
	Percent int
	Final   int
}

// PenaltyPolicy decides how flat penalties apply to a turn with more than
// one word.
type PenaltyPolicy int

const (
	// PerWord subtracts the penalties from every word.
	PerWord PenaltyPolicy = iota
	// PerTurn subtracts them once from the turn total.
	PerTurn
)

func (p PenaltyPolicy) String() string {
	if p == PerTurn {
		return "per-turn"
	}
	return "per-word"
}

func ParsePenaltyPolicy(s string) (PenaltyPolicy, error) {
	switch s {
	case "per-word", "":
		return PerWord, nil
	case "per-turn":
		return PerTurn, nil
	}
	return PerWord, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

type Engine struct {
	lex    lexicon.Lexicon
	policy PenaltyPolicy
}

func NewEngine(lex lexicon.Lexicon, policy PenaltyPolicy) *Engine {
	return &Engine{lex: lex, policy: policy}
}

func (e *Engine) Policy() PenaltyPolicy {
	return e.policy
}

// BaseScore sums the letter values of word.
func (e *Engine) BaseScore(word string) int {
	return e.lex.BaseScore(word)
}

func bonuses(word string, f Flags) []Adjustment {
	adj := []Adjustment{}
	if f.SuperpositionTiles >= MasteryThreshold {
		adj = append(adj, Adjustment{"superposition mastery", MasteryBonus})
	}
	if f.IntactLinkedPair {
		adj = append(adj, Adjustment{"linked pair", LinkedPairBonus})
	}
	if f.CleanCollapse {
		adj = append(adj, Adjustment{"clean collapse", CleanBonus})
	}
	if f.UsedTeleport {
		adj = append(adj, Adjustment{"teleport", TeleportBonus})
	}
	switch n := utf8.RuneCountInString(word); {
	case n >= LongWordLength:
		adj = append(adj, Adjustment{"long word", LongWordBonus})
	case n >= GoodLengthLength:
		adj = append(adj, Adjustment{"good length", GoodLengthBonus})
	}
	return adj
}

func penalties(f Flags) []Adjustment {
	adj := []Adjustment{}
	if f.BrokenLink {
		adj = append(adj, Adjustment{"broken link", BrokenLinkPenalty})
	}
	if f.InvalidCollapseState {
		adj = append(adj, Adjustment{"invalid collapse state", InvalidStatePenalty})
	}
	return adj
}

func sum(adj []Adjustment) int {
	t := 0
	for _, a := range adj {
		t += a.Amount
	}
	return t
}

// multiply applies a percentage and rounds half up.
func multiply(base, percent int) int {
	return (base*(100+percent) + 50) / 100
}

// Score prices one word with its bonuses and penalties.
func (e *Engine) Score(word string, f Flags) Result {
	r := e.multiplied(word, f)
	r.Penalties = penalties(f)
	r.Final = max(0, r.Final-sum(r.Penalties))
	return r
}

func (e *Engine) multiplied(word string, f Flags) Result {
	r := Result{Word: word, Base: e.BaseScore(word), Bonuses: bonuses(word, f)}
	r.Percent = sum(r.Bonuses)
	r.Final = multiply(r.Base, r.Percent)
	r.Penalties = []Adjustment{}
	return r
}

// TurnResult is the score of every word formed in one turn.
type TurnResult struct {
	Words []Result
	// Penalties holds turn-level penalties; it is only set under PerTurn.
	Penalties []Adjustment
	Total     int
}

// ScoreTurn scores each word independently and sums them, applying the
// penalties according to the engine's policy.
func (e *Engine) ScoreTurn(words []string, f Flags) TurnResult {
	tr := TurnResult{Words: make([]Result, 0, len(words)), Penalties: []Adjustment{}}
	for _, w := range words {
		var r Result
		if e.policy == PerTurn {
			r = e.multiplied(w, f)
		} else {
			r = e.Score(w, f)
		}
		tr.Words = append(tr.Words, r)
		tr.Total += r.Final
	}
	if e.policy == PerTurn && len(words) > 0 {
		tr.Penalties = penalties(f)
		tr.Total = max(0, tr.Total-sum(tr.Penalties))
	}
	return tr
}

// Best returns the highest-scoring word of the turn.
func (tr TurnResult) Best() (Result, bool) {
	if len(tr.Words) == 0 {
		return Result{}, false
	}
	best := tr.Words[0]
	for _, r := range tr.Words[1:] {
		if r.Final > best.Final {
			best = r
		}
	}
	return best, true
}
