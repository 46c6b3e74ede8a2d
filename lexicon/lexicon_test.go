package lexicon

import (
	"errors"
	"io"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/qxword/alphabet"
)

func TestLoad(t *testing.T) {
	is := is.New(t)
	wl, err := Load("testdata/tiny.txt", nil)
	is.NoErr(err)
	// duplicates collapse, comments and blanks skipped
	is.Equal(wl.Words(), []string{"a", "act", "at", "cat", "quantum", "ta"})
	is.True(wl.HasWord("CAT"))
	is.True(wl.HasWord("Quantum"))
	is.True(!wl.HasWord("dog"))
	// single letters are never legal even if listed
	is.True(!wl.HasWord("a"))
}

func TestLoadUnavailable(t *testing.T) {
	is := is.New(t)
	_, err := Load("testdata/missing.txt", nil)
	is.True(errors.Is(err, ErrDictionaryUnavailable))
	_, err = Load("testdata/empty.txt", nil)
	is.True(errors.Is(err, ErrDictionaryUnavailable))
	// a directory opens fine but cannot be read
	_, err = Load("testdata", nil)
	is.True(errors.Is(err, ErrDictionaryUnavailable))
}

func TestPermanentReadErrors(t *testing.T) {
	is := is.New(t)
	_, err := readWords("testdata/missing.txt")
	is.True(permanent(err))
	_, err = readWords("testdata")
	is.True(permanent(err))
	is.True(!permanent(io.ErrUnexpectedEOF))
}

func TestLoadOrFallback(t *testing.T) {
	is := is.New(t)
	wl := LoadOrFallback("testdata/missing.txt", nil)
	is.Equal(wl.Name(), "fallback")
	is.True(wl.HasWord("the"))
	is.Equal(wl.Size(), len(FallbackWords))

	a := LoadOrFallback("testdata/tiny.txt", nil)
	b := LoadOrFallback("testdata/tiny.txt", nil)
	is.True(a == b)

	// a different letter table prices words differently, so it gets its
	// own copy of the list
	dist := alphabet.EnglishLetterDistribution()
	dist.PointValues['C'] = 9
	c := LoadOrFallback("testdata/tiny.txt", dist)
	is.True(c != a)
	is.Equal(c.BaseScore("cat"), 11)
	is.Equal(a.BaseScore("cat"), 5)
}

func TestBaseScore(t *testing.T) {
	wl := NewWordList("t", []string{"quantum"}, alphabet.EnglishLetterDistribution())
	cases := []struct {
		word  string
		score int
	}{
		{"QUANTUM", 21},
		{"quantum", 21},
		{"cat", 5},
		{"", 0},
		{"a-b", 1 + 1 + 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.score, wl.BaseScore(c.word), c.word)
	}
}
