package alphabet

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"
)

const (
	// WildcardToken stands in for a wildcard tile in a rack multiset.
	WildcardToken = '*'
	// UnknownLetterValue is the value of any letter missing from the table.
	UnknownLetterValue = 1
)

// Pair is a two-letter superposition: the two letters a tile may collapse to.
type Pair [2]rune

func (p Pair) String() string {
	return string(p[0]) + "/" + string(p[1])
}

// LetterDistribution encodes the letter tables for the game: point values,
// the weighted draw pool, and the digraph table superposed tiles come from.
type LetterDistribution struct {
	PointValues map[rune]int
	// Pool is a weighted pool; a letter that appears n times is drawn
	// n times as often.
	Pool  []rune
	Pairs []Pair
	// WildcardPriority is the order in which a wildcard tries letters.
	WildcardPriority []rune
	WildcardDefault  rune
	Vowels           []rune
}

// distributionFile is the YAML shape of a distribution override file.
type distributionFile struct {
	PointValues      map[string]int `yaml:"point_values"`
	Pool             string         `yaml:"pool"`
	Pairs            []string       `yaml:"pairs"`
	WildcardPriority string         `yaml:"wildcard_priority"`
	WildcardDefault  string         `yaml:"wildcard_default"`
	Vowels           string         `yaml:"vowels"`
}

func EnglishLetterDistribution() *LetterDistribution {
	ptValues := map[rune]int{
		'A': 1, 'E': 1, 'I': 1, 'O': 1, 'T': 1, 'R': 1,
		'S': 2, 'N': 2, 'L': 2, 'U': 2, 'H': 2,
		'D': 3, 'G': 3, 'M': 3, 'W': 3, 'C': 3,
		'B': 4, 'P': 4, 'F': 4,
		'V': 5, 'K': 5, 'Y': 5,
		'J': 8, 'X': 8,
		'Q': 10, 'Z': 10,
	}
	pool := "EEEEEEEEEEAAAAAAAAAIIIIIIIIIOOOOOOOOTTTTTTTTRRRRRRRR" +
		"NNNNNNSSSSSSLLLLLLCCCCUUUUDDDDPPPPMMMMHHHHGGGGBBFFKKWWVVYYJJXQZ"
	pairs := []Pair{
		{'A', 'E'}, {'A', 'O'}, {'E', 'I'}, {'O', 'U'}, {'I', 'O'},
		{'T', 'R'}, {'N', 'S'}, {'L', 'R'}, {'C', 'K'}, {'D', 'T'},
		{'M', 'N'}, {'B', 'P'}, {'F', 'V'}, {'G', 'J'}, {'H', 'W'},
		{'S', 'Z'}, {'A', 'I'}, {'E', 'O'}, {'R', 'S'}, {'T', 'S'},
	}
	return &LetterDistribution{
		PointValues:      ptValues,
		Pool:             []rune(pool),
		Pairs:            pairs,
		WildcardPriority: []rune("EAIOUSTRN"),
		WildcardDefault:  'E',
		Vowels:           []rune("AEIOU"),
	}
}

// LoadDistribution reads a YAML file and overlays it on the English tables.
// Fields missing from the file keep their English values.
func LoadDistribution(path string) (*LetterDistribution, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	df := distributionFile{}
	if err := yaml.Unmarshal(contents, &df); err != nil {
		return nil, fmt.Errorf("parsing distribution %v: %w", path, err)
	}
	ld := EnglishLetterDistribution()
	if len(df.PointValues) > 0 {
		ld.PointValues = make(map[rune]int, len(df.PointValues))
		for k, v := range df.PointValues {
			rs := []rune(k)
			if len(rs) != 1 || v < 0 {
				return nil, fmt.Errorf("bad point value entry %q: %v", k, v)
			}
			ld.PointValues[unicode.ToUpper(rs[0])] = v
		}
	}
	if df.Pool != "" {
		ld.Pool = []rune(upper(df.Pool))
	}
	if len(df.Pairs) > 0 {
		ld.Pairs = make([]Pair, 0, len(df.Pairs))
		for _, p := range df.Pairs {
			rs := []rune(upper(p))
			if len(rs) != 2 {
				return nil, fmt.Errorf("pair %q must have exactly two letters", p)
			}
			ld.Pairs = append(ld.Pairs, Pair{rs[0], rs[1]})
		}
	}
	if df.WildcardPriority != "" {
		ld.WildcardPriority = []rune(upper(df.WildcardPriority))
	}
	if df.WildcardDefault != "" {
		ld.WildcardDefault = []rune(upper(df.WildcardDefault))[0]
	}
	if df.Vowels != "" {
		ld.Vowels = []rune(upper(df.Vowels))
	}
	return ld, nil
}

// Score returns the point value of a letter. It is case-insensitive;
// letters not in the table are worth UnknownLetterValue.
func (ld *LetterDistribution) Score(r rune) int {
	if v, ok := ld.PointValues[unicode.ToUpper(r)]; ok {
		return v
	}
	return UnknownLetterValue
}

// Fingerprint hashes the point values. Two distributions with the same
// fingerprint price every word the same way.
func (ld *LetterDistribution) Fingerprint() uint64 {
	letters := make([]rune, 0, len(ld.PointValues))
	for r := range ld.PointValues {
		letters = append(letters, r)
	}
	slices.Sort(letters)
	var sb strings.Builder
	for _, r := range letters {
		fmt.Fprintf(&sb, "%c%d;", r, ld.PointValues[r])
	}
	return xxhash.Sum64String(sb.String())
}

// PairValue is the nominal value of an uncollapsed pair: the rounded mean
// of its two letters.
func (ld *LetterDistribution) PairValue(p Pair) int {
	sum := ld.Score(p[0]) + ld.Score(p[1])
	return (sum + 1) / 2
}

func (ld *LetterDistribution) IsVowel(r rune) bool {
	r = unicode.ToUpper(r)
	for _, v := range ld.Vowels {
		if v == r {
			return true
		}
	}
	return false
}

// MostFrequent returns the letter that appears most often in the pool.
func (ld *LetterDistribution) MostFrequent() rune {
	counts := map[rune]int{}
	best := ld.WildcardDefault
	for _, r := range ld.Pool {
		counts[r]++
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}

// NextLetter returns the alphabetically next letter, wrapping Z to A.
// Non A-Z runes are returned unchanged.
func NextLetter(r rune) rune {
	return ShiftLetter(r, 1)
}

// ShiftLetter moves a letter delta places along A-Z, wrapping around.
func ShiftLetter(r rune, delta int) rune {
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return r
	}
	idx := (int(r-'A') + delta) % 26
	if idx < 0 {
		idx += 26
	}
	return 'A' + rune(idx)
}

func upper(s string) string {
	rs := []rune(s)
	for i := range rs {
		rs[i] = unicode.ToUpper(rs[i])
	}
	return string(rs)
}
