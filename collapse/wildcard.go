package collapse

import (
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/alphabet"
)

// LocalScore is the best-fit heuristic: the letter's value plus 2 for every
// neighbour of the opposite vowel/consonant class.
func LocalScore(ld *alphabet.LetterDistribution, letter rune, neighbors []rune) int {
	score := ld.Score(letter)
	vowel := ld.IsVowel(letter)
	for _, n := range neighbors {
		if ld.IsVowel(n) != vowel {
			score += 2
		}
	}
	return score
}

// WildcardScorer picks the letter a wildcard collapses to, given the letters
// of its collapsed neighbours.
type WildcardScorer interface {
	ChooseWildcard(neighbors []rune) rune
}

// WildcardScorerFunc adapts a plain function to WildcardScorer.
type WildcardScorerFunc func(neighbors []rune) rune

func (f WildcardScorerFunc) ChooseWildcard(neighbors []rune) rune {
	return f(neighbors)
}

// PriorityScorer walks the distribution's wildcard priority list and takes
// the first letter with a positive local score. With no neighbours, or when
// nothing scores, it falls back to the distribution's default letter.
type PriorityScorer struct {
	ld *alphabet.LetterDistribution
}

func NewPriorityScorer(ld *alphabet.LetterDistribution) *PriorityScorer {
	return &PriorityScorer{ld: ld}
}

func (ps *PriorityScorer) ChooseWildcard(neighbors []rune) rune {
	if len(neighbors) == 0 {
		return ps.ld.WildcardDefault
	}
	for _, l := range ps.ld.WildcardPriority {
		if LocalScore(ps.ld, l, neighbors) > 0 {
			return l
		}
	}
	return ps.ld.WildcardDefault
}

// WildcardChoice asks ws for a letter. Anything outside A-Z falls back to
// the distribution's wildcard default, so a wildcard always collapses to a
// real letter.
func WildcardChoice(ws WildcardScorer, ld *alphabet.LetterDistribution, neighbors []rune) rune {
	l := unicode.ToUpper(ws.ChooseWildcard(neighbors))
	if l < 'A' || l > 'Z' {
		log.Debug().Int32("letter", l).Msg("wildcard scorer gave no letter; using default")
		return ld.WildcardDefault
	}
	return l
}
