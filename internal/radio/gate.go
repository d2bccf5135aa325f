// internal/radio/gate.go
package radio

import "context"

// Gate is the single-slot confirmation signal between the radio driver
// and the cycler. It is a binary semaphore, not a counter: releases
// before a wait collapse into one, and waiting consumes the slot.
type Gate struct {
	ch chan struct{}
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{}, 1)}
}

// Release fills the slot. It never blocks; releasing a full gate is a
// no-op. Safe on a nil gate, so events arriving before startup wiring
// are dropped rather than crashing.
func (g *Gate) Release() {
	if g == nil {
		return
	}
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the slot is released and consumes it. There is no
// timeout: the hardware is assumed to confirm every issued command.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
