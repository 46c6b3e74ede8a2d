package board

import (
	"fmt"
	"os"
)

var (
	ColorSupport = os.Getenv("QXWORD_DISABLE_COLOR") != "on"
)

// A Zone is a cell property that changes how a tile placed on it collapses.
type Zone uint8

const (
	Plain Zone = iota
	// DelayWell delays the collapse; the outcome is a normal best fit.
	DelayWell
	// SwapShift always picks the second candidate letter.
	SwapShift
	// ForceRandom picks a candidate at random.
	ForceRandom
	// LinkNode links the placed tile to a tile still on the rack.
	LinkNode
	// Teleport moves the tile to the paired portal cell if it is free.
	Teleport
)

// ZoneTypes lists the non-plain zones in layout order.
var ZoneTypes = []Zone{DelayWell, SwapShift, ForceRandom, LinkNode, Teleport}

func (z Zone) String() string {
	switch z {
	case Plain:
		return "plain"
	case DelayWell:
		return "delay-well"
	case SwapShift:
		return "swap-shift"
	case ForceRandom:
		return "force-random"
	case LinkNode:
		return "link-node"
	case Teleport:
		return "teleport"
	}
	return "unknown"
}

// symbol is the one-character marker used in board dumps.
func (z Zone) symbol() rune {
	switch z {
	case DelayWell:
		return '~'
	case SwapShift:
		return '%'
	case ForceRandom:
		return '!'
	case LinkNode:
		return '&'
	case Teleport:
		return '@'
	}
	return '.'
}

func (z Zone) displayString() string {
	s := string(z.symbol())
	if !ColorSupport {
		return s
	}
	switch z {
	case DelayWell:
		return fmt.Sprintf("\033[34m%s\033[0m", s)
	case SwapShift:
		return fmt.Sprintf("\033[35m%s\033[0m", s)
	case ForceRandom:
		return fmt.Sprintf("\033[31m%s\033[0m", s)
	case LinkNode:
		return fmt.Sprintf("\033[36m%s\033[0m", s)
	case Teleport:
		return fmt.Sprintf("\033[33m%s\033[0m", s)
	}
	return s
}
