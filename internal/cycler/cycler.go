// internal/cycler/cycler.go
package cycler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkrv/airtag-relay/internal/radio"
	"github.com/mkrv/airtag-relay/internal/registry"
)

// maxDecodeFailures bounds how long an undecodable tag may hold the
// rotation. The first failures observably retry the same slot; after
// this many in a row the cycler advances anyway.
const maxDecodeFailures = 8

// Config is the minimal runtime config the cycler needs.
type Config struct {
	// Params are passed to the radio on every advertising start.
	Params radio.Params
	// Hold is how long each tag stays on the air.
	Hold time.Duration
	// Fallback is the sleep between cycles while the registry is empty.
	// Shorter than Hold so a first feed shows up promptly.
	Fallback time.Duration
}

// Cycler walks the registry and puts one tag on the air at a time. It
// owns the rotation cursor; nothing else reads or writes it.
type Cycler struct {
	reg  *registry.Registry
	ctrl radio.Controller
	gate *radio.Gate
	cfg  Config
	log  *zap.Logger

	cursor int
	// failures counts consecutive decode failures at the current
	// cursor. It is reset by any advance; a registry replacement that
	// swaps the tag under the cursor resets it only implicitly.
	failures int
}

// New creates a cycler with immutable config.
func New(reg *registry.Registry, ctrl radio.Controller, gate *radio.Gate, cfg Config, log *zap.Logger) (*Cycler, error) {
	if reg == nil {
		return nil, errors.New("cycler: registry required")
	}
	if ctrl == nil {
		return nil, errors.New("cycler: controller required")
	}
	if gate == nil {
		return nil, errors.New("cycler: gate required")
	}
	if cfg.Hold <= 0 || cfg.Fallback <= 0 {
		return nil, errors.New("cycler: hold and fallback must be > 0")
	}
	return &Cycler{reg: reg, ctrl: ctrl, gate: gate, cfg: cfg, log: log}, nil
}

// Run rotates forever. It returns only on context cancellation or when
// issuing a radio command fails; the caller treats the latter as fatal.
func (c *Cycler) Run(ctx context.Context) error {
	for {
		if err := c.cycleOnce(ctx); err != nil {
			return err
		}
	}
}

// cycleOnce is one rotation step: pick, extract, advertise, hold, stop,
// advance. Empty registry and decode failures return early without
// consuming a slot.
func (c *Cycler) cycleOnce(ctx context.Context) error {
	tag, count, ok := c.reg.SnapshotAt(c.cursor)
	if count == 0 {
		return sleep(ctx, c.cfg.Fallback)
	}
	if !ok {
		// Only possible when the registry shrank between cycles.
		// Re-anchor at the start; nothing is ever advertised from an
		// out-of-range slot.
		c.log.Warn("rotation cursor out of range, clamping",
			zap.Int("cursor", c.cursor),
			zap.Int("count", count))
		c.cursor = 0
		c.failures = 0
		tag, count, ok = c.reg.SnapshotAt(0)
		if !ok {
			return sleep(ctx, c.cfg.Fallback)
		}
	}

	adv, err := tag.ToAdvertisement()
	if err != nil {
		c.failures++
		if c.failures >= maxDecodeFailures {
			c.log.Warn("tag never decodes, advancing past it",
				zap.Uint32("id", tag.ID),
				zap.Int("failures", c.failures))
			c.advance(count)
			return nil
		}
		c.log.Warn("could not extract advertisement from tag, skipping",
			zap.Uint32("id", tag.ID),
			zap.Error(err))
		return nil
	}

	if err := c.advertise(ctx, adv.Addr, adv.Payload); err != nil {
		return err
	}

	c.log.Info("advertised tag",
		zap.Uint32("id", tag.ID),
		zap.Int("slot", c.cursor),
		zap.Int("count", count))
	c.advance(count)
	return nil
}

// advertise issues the radio command sequence, each gated on its
// confirmation: set address, set data, start, hold, stop. Commands are
// never pipelined, and the confirmation waits carry no timeout.
func (c *Cycler) advertise(ctx context.Context, addr [6]byte, payload [31]byte) error {
	if err := c.ctrl.SetRandomAddress(addr); err != nil {
		return fmt.Errorf("cycler: set address: %w", err)
	}
	if err := c.gate.Wait(ctx); err != nil {
		return err
	}

	if err := c.ctrl.SetAdvertisingData(payload); err != nil {
		return fmt.Errorf("cycler: set advertising data: %w", err)
	}
	if err := c.gate.Wait(ctx); err != nil {
		return err
	}

	if err := c.ctrl.StartAdvertising(c.cfg.Params); err != nil {
		return fmt.Errorf("cycler: start advertising: %w", err)
	}
	if err := c.gate.Wait(ctx); err != nil {
		return err
	}

	if err := sleep(ctx, c.cfg.Hold); err != nil {
		return err
	}

	if err := c.ctrl.StopAdvertising(); err != nil {
		return fmt.Errorf("cycler: stop advertising: %w", err)
	}
	return c.gate.Wait(ctx)
}

func (c *Cycler) advance(count int) {
	c.cursor = (c.cursor + 1) % count
	c.failures = 0
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
