package game

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/qxword/tile"
)

func splitSubN(s string, n int) []string {
	sub := ""
	subs := []string{}

	runes := []rune(s)
	l := len(runes)
	for i, r := range runes {
		sub = sub + string(r)
		if (i+1)%n == 0 {
			subs = append(subs, sub)
			sub = ""
		} else if (i + 1) == l {
			subs = append(subs, sub)
		}
	}

	return subs
}

func addText(lines []string, row int, hpad int, text string) {
	maxTextSize := 42
	sp := splitSubN(text, maxTextSize)

	for _, chunk := range sp {
		if row >= len(lines) {
			return
		}
		lines[row] = lines[row] + strings.Repeat(" ", hpad) + chunk
		row++
	}
}

// RackString lists the rack tiles in order, one short form per tile.
func (g *Game) RackString() string {
	return strings.Join(lo.Map(g.rack, func(t *tile.Tile, _ int) string {
		return fmt.Sprintf("%d:%s", t.ID, t)
	}), " ")
}

// ToDisplayText renders the board with the rack, score and cooldowns
// alongside it.
func (g *Game) ToDisplayText() string {
	bts := strings.Split(g.board.String(), "\n")
	hpadding := 3
	vpadding := 3

	addText(bts, vpadding, hpadding, fmt.Sprintf("Mode: %s   Round: %d", g.mode, g.round))
	addText(bts, vpadding+1, hpadding, fmt.Sprintf("Score: %d", g.score))
	addText(bts, vpadding+3, hpadding, "Rack:")
	for i, t := range g.rack {
		addText(bts, vpadding+4+i, hpadding, "  "+t.Describe())
	}

	vpadding += 4 + len(g.rack)
	for i, p := range Powers {
		status := "ready"
		if left := g.cooldowns[p]; left > 0 {
			status = fmt.Sprintf("%d rounds", left)
		}
		addText(bts, vpadding+i, hpadding, fmt.Sprintf("%-16s %s", p.String()+":", status))
	}

	if g.Over() {
		bts = append(bts, "Game is over.")
	}
	return strings.Join(bts, "\n")
}

// Histogram settings for WriteScoreHistogram.
const (
	histogramBins  = 8
	histogramWidth = 40
)

var errTooFewTurns = errors.New("need at least two differently scored turns")

// WriteScoreHistogram plots how turn scores were distributed.
func WriteScoreHistogram(w io.Writer, scores []int) error {
	if len(scores) < 2 || lo.Min(scores) == lo.Max(scores) {
		return errTooFewTurns
	}
	data := lo.Map(scores, func(s int, _ int) float64 { return float64(s) })
	hist := histogram.Hist(histogramBins, data)
	return histogram.Fprint(w, hist, histogram.Linear(histogramWidth))
}
