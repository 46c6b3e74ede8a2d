// Package lexicon holds the set of legal words and the per-letter values
// words are priced with. A lexicon never changes after it is loaded.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/cache"
)

// MinWordLength is the shortest word that can ever be legal.
const MinWordLength = 2

var ErrDictionaryUnavailable = errors.New("dictionary unavailable")

// FallbackWords is the built-in list used when no word list can be loaded.
var FallbackWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all",
	"can", "had", "her", "was", "one", "our", "out",
}

type Lexicon interface {
	Name() string
	HasWord(word string) bool
	// Words returns every word, lowercase and sorted.
	Words() []string
	LetterValue(r rune) int
	BaseScore(word string) int
}

// WordList is a flat membership set of lowercase words.
type WordList struct {
	name  string
	words map[string]struct{}
	// sorted is the same set in lexical order.
	sorted []string
	dist   *alphabet.LetterDistribution
}

func normalize(w string) string {
	return cases.Fold().String(strings.TrimSpace(w))
}

// NewWordList builds a lexicon from an in-memory list.
func NewWordList(name string, words []string, dist *alphabet.LetterDistribution) *WordList {
	if dist == nil {
		dist = alphabet.EnglishLetterDistribution()
	}
	wl := &WordList{name: name, words: make(map[string]struct{}, len(words)), dist: dist}
	for _, w := range words {
		w = normalize(w)
		if w == "" {
			continue
		}
		if _, ok := wl.words[w]; ok {
			continue
		}
		wl.words[w] = struct{}{}
		wl.sorted = append(wl.sorted, w)
	}
	sort.Strings(wl.sorted)
	return wl
}

// Fallback returns the minimal built-in lexicon.
func Fallback(dist *alphabet.LetterDistribution) *WordList {
	return NewWordList("fallback", FallbackWords, dist)
}

func (wl *WordList) Name() string {
	return wl.name
}

func (wl *WordList) Size() int {
	return len(wl.sorted)
}

// HasWord is a case-insensitive membership test. Words shorter than
// MinWordLength are never legal.
func (wl *WordList) HasWord(word string) bool {
	if len([]rune(word)) < MinWordLength {
		return false
	}
	_, ok := wl.words[normalize(word)]
	return ok
}

func (wl *WordList) Words() []string {
	return wl.sorted
}

func (wl *WordList) LetterValue(r rune) int {
	return wl.dist.Score(r)
}

// BaseScore sums the letter values of a word; unknown letters count 1.
func (wl *WordList) BaseScore(word string) int {
	score := 0
	for _, r := range word {
		score += wl.dist.Score(r)
	}
	return score
}

func (wl *WordList) Distribution() *alphabet.LetterDistribution {
	return wl.dist
}

// readAttempts bounds how often a read failing for a reason other than
// a missing or forbidden file is retried.
const readAttempts = 3

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func permanent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EISDIR)
}

// Load reads a flat word list, one word per line. Blank lines and lines
// starting with # are skipped. A missing, unreadable or empty list yields
// ErrDictionaryUnavailable.
func Load(path string, dist *alphabet.LetterDistribution) (*WordList, error) {
	var words []string
	err := retry.Do(
		func() error {
			var err error
			words, err = readWords(path)
			return err
		},
		retry.Attempts(readAttempts),
		retry.Delay(25*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !permanent(err) }),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("n", n).Str("lexicon", path).Msg("retrying read")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %v has no words", ErrDictionaryUnavailable, path)
	}
	wl := NewWordList(path, words, dist)
	log.Info().Str("lexicon", path).Int("words", wl.Size()).Msg("dictionary loaded")
	return wl, nil
}

// wordLists shares loaded lists across games.
var wordLists = cache.New[*WordList]()

// LoadOrFallback never fails: if the list cannot be loaded the built-in
// fallback is returned instead. Successful loads are shared through
// wordLists, keyed by path and by the fingerprint of dist.
func LoadOrFallback(path string, dist *alphabet.LetterDistribution) *WordList {
	if dist == nil {
		dist = alphabet.EnglishLetterDistribution()
	}
	key := cache.Key{Path: path, Distribution: dist.Fingerprint()}
	wl, err := wordLists.Load(key, func(k cache.Key) (*WordList, error) {
		return Load(k.Path, dist)
	})
	if err != nil {
		log.Warn().Err(err).Str("lexicon", path).Msg("using fallback word list")
		return Fallback(dist)
	}
	return wl
}
