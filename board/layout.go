package board

import (
	"sort"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/qxword/tile"
)

// Layout is a zone assignment plus the portal pairs between teleport cells.
type Layout struct {
	Zones   map[Coord]Zone
	Portals [][2]Coord
}

// ZoneCounts is how many cells of each zone type a scattered layout gets.
type ZoneCounts map[Zone]int

var (
	// ChaosZoneCounts is used when zones are reshuffled mid-game.
	ChaosZoneCounts = ZoneCounts{DelayWell: 6, SwapShift: 6, ForceRandom: 4, LinkNode: 4, Teleport: 4}
	// DailyZoneCounts is used for the date-seeded layout.
	DailyZoneCounts = ZoneCounts{DelayWell: 4, SwapShift: 4, ForceRandom: 3, LinkNode: 4, Teleport: 4}
)

// dailyAttempts caps the draws per zone type in a seeded layout, so a
// seeded layout may come out with fewer zones than asked for.
const dailyAttempts = 100

// StandardLayout is the fixed zone layout used by the classic modes.
func StandardLayout() Layout {
	l := Layout{Zones: map[Coord]Zone{}}
	set := func(z Zone, coords ...Coord) {
		for _, c := range coords {
			l.Zones[c] = z
		}
	}
	set(DelayWell, Coord{2, 2}, Coord{2, 10}, Coord{10, 2}, Coord{10, 10}, Coord{6, 0}, Coord{6, 12})
	set(SwapShift, Coord{0, 6}, Coord{12, 6}, Coord{4, 4}, Coord{4, 8}, Coord{8, 4}, Coord{8, 8})
	set(ForceRandom, Coord{1, 1}, Coord{1, 11}, Coord{11, 1}, Coord{11, 11})
	set(LinkNode, Coord{3, 6}, Coord{9, 6}, Coord{6, 3}, Coord{6, 9})
	set(Teleport, Coord{0, 0}, Coord{12, 12}, Coord{0, 12}, Coord{12, 0})
	l.Portals = [][2]Coord{
		{{0, 0}, {12, 12}},
		{{0, 12}, {12, 0}},
	}
	return l
}

// RandomLayout scatters ChaosZoneCounts over the board. Every zone is
// placed; the centre is never zoned.
func RandomLayout(rng *frand.RNG) Layout {
	return scatter(rng, ChaosZoneCounts, 0)
}

// SeededLayout builds the same layout for the same seed.
func SeededLayout(seed uint64) Layout {
	return scatter(tile.NewRNG(seed), DailyZoneCounts, dailyAttempts)
}

// scatter draws random cells for each zone type in ZoneTypes order. With
// maxAttempts 0 it keeps drawing until each count is met.
func scatter(rng *frand.RNG, counts ZoneCounts, maxAttempts int) Layout {
	l := Layout{Zones: map[Coord]Zone{}}
	for _, z := range ZoneTypes {
		placed, attempts := 0, 0
		for placed < counts[z] && (maxAttempts == 0 || attempts < maxAttempts) {
			c := Coord{Row: rng.Intn(DefaultDim), Col: rng.Intn(DefaultDim)}
			attempts++
			if _, taken := l.Zones[c]; taken || c == Center {
				continue
			}
			l.Zones[c] = z
			placed++
		}
		if placed < counts[z] {
			log.Debug().Str("zone", z.String()).Int("placed", placed).
				Int("wanted", counts[z]).Msg("zone count short")
		}
	}
	l.Portals = pairPortals(l.Zones)
	return l
}

// pairPortals pairs teleport cells two by two in row-major order. An odd
// one out stays unpaired and behaves as a plain best-fit cell.
func pairPortals(zones map[Coord]Zone) [][2]Coord {
	portals := []Coord{}
	for c, z := range zones {
		if z == Teleport {
			portals = append(portals, c)
		}
	}
	sort.Slice(portals, func(i, j int) bool {
		if portals[i].Row != portals[j].Row {
			return portals[i].Row < portals[j].Row
		}
		return portals[i].Col < portals[j].Col
	})
	pairs := [][2]Coord{}
	for i := 0; i+1 < len(portals); i += 2 {
		pairs = append(pairs, [2]Coord{portals[i], portals[i+1]})
	}
	return pairs
}
