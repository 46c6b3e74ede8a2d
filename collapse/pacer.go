package collapse

import (
	"context"
	"time"
)

// Pause names one of the timed effects around a collapse.
type Pause uint8

const (
	PauseCollapse Pause = iota
	PauseWell
	PausePortal
)

// A Pacer suspends resolution so a caller can show an effect. It must not
// change anything the resolver computes.
type Pacer interface {
	Pause(ctx context.Context, p Pause) error
}

// NoPacer never waits. Tests and move search use it.
type NoPacer struct{}

func (NoPacer) Pause(ctx context.Context, p Pause) error {
	return nil
}

// SleepPacer waits for the configured duration of each effect, or until ctx
// is done.
type SleepPacer struct {
	Collapse time.Duration
	Well     time.Duration
	Portal   time.Duration
}

func (sp SleepPacer) Pause(ctx context.Context, p Pause) error {
	var d time.Duration
	switch p {
	case PauseCollapse:
		d = sp.Collapse
	case PauseWell:
		d = sp.Well
	case PausePortal:
		d = sp.Portal
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
