// internal/feed/poller.go
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkrv/airtag-relay/internal/airtag"
	"github.com/mkrv/airtag-relay/internal/registry"
)

// Poller downloads the feed on a fixed interval and publishes the
// result into the registry. Failures are local: they are logged, the
// registry keeps its previous contents, and the next tick tries again.
type Poller struct {
	client   *Client
	reg      *registry.Registry
	interval time.Duration
	log      *zap.Logger
}

// New creates a poller with immutable config.
func New(client *Client, reg *registry.Registry, interval time.Duration, log *zap.Logger) (*Poller, error) {
	if client == nil {
		return nil, errors.New("feed: client required")
	}
	if reg == nil {
		return nil, errors.New("feed: registry required")
	}
	if interval <= 0 {
		return nil, errors.New("feed: interval must be > 0")
	}
	return &Poller{client: client, reg: reg, interval: interval, log: log}, nil
}

// PollOnce performs exactly one download-parse-publish cycle.
// All-or-nothing: a request or parse failure leaves the registry as-is.
func (p *Poller) PollOnce(ctx context.Context) error {
	body, status, err := p.client.Fetch(ctx)
	if err != nil {
		p.log.Error("feed request failed", zap.Error(err))
		return err
	}
	p.log.Info("feed downloaded",
		zap.Int("status", status),
		zap.Int("bytes", len(body)))

	// The wire also carries valid_for/valid_from/valid_to per record;
	// those are resolved server-side and ignored here.
	var tags []airtag.Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		p.log.Error("feed parse failed, keeping previous tags", zap.Error(err))
		return fmt.Errorf("feed: parse: %w", err)
	}

	p.reg.Replace(tags)
	p.log.Info("registry replaced", zap.Int("count", len(tags)))
	for _, t := range tags {
		p.log.Debug(t.String())
	}
	return nil
}

// Run polls forever: once immediately, then on every tick. PollOnce
// already logs its failures, so they are not propagated; only context
// cancellation ends the loop.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		_ = p.PollOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
