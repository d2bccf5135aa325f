// cmd/relayd/main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mkrv/airtag-relay/internal/config"
	"github.com/mkrv/airtag-relay/internal/cycler"
	"github.com/mkrv/airtag-relay/internal/feed"
	"github.com/mkrv/airtag-relay/internal/netwatch"
	"github.com/mkrv/airtag-relay/internal/radio"
	"github.com/mkrv/airtag-relay/internal/registry"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: relayd <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)
	r := cfg.Relay

	logger, err := buildLogger(r.Log.Level)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// --------------------
	// Network supervision
	// --------------------

	link := &netwatch.TCPLink{
		Addr:     r.Network.ProbeAddr,
		Timeout:  time.Duration(r.Network.TimeoutMs) * time.Millisecond,
		Interval: time.Duration(r.Network.ProbeIntervalMs) * time.Millisecond,
	}
	watcher := netwatch.New(link, r.Network.Retries, logger.Named("netwatch"))

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Fatal("network supervision failed", zap.Error(err))
		}
	}()

	if err := watcher.WaitReady(ctx); err != nil {
		logger.Fatal("network never came up", zap.Error(err))
	}
	logger.Info("network ready", zap.String("probe", r.Network.ProbeAddr))

	// --------------------
	// Radio
	// --------------------

	ctrl, err := newController()
	if err != nil {
		logger.Fatal("radio init failed", zap.Error(err))
	}

	gate := radio.NewGate()
	bridge := radio.NewBridge(gate, logger.Named("radio"))
	ctrl.Notify(bridge.Handle)

	// --------------------
	// Registry + feed poller
	// --------------------

	reg := registry.New(r.Registry.Capacity)

	client, err := feed.NewClient(feed.Config{
		BaseURL:    r.Feed.BaseURL,
		Port:       r.Feed.Port,
		ValidOnly:  *r.Feed.ValidOnly,
		Capacity:   r.Registry.Capacity,
		Rotate:     *r.Feed.Rotate,
		BufferSize: r.Feed.BufferSize,
	})
	if err != nil {
		logger.Fatal("feed client init failed", zap.Error(err))
	}

	poller, err := feed.New(
		client,
		reg,
		time.Duration(r.Feed.PollIntervalMs)*time.Millisecond,
		logger.Named("feed"),
	)
	if err != nil {
		logger.Fatal("feed poller init failed", zap.Error(err))
	}
	go poller.Run(ctx)

	// --------------------
	// Advertisement rotation
	// --------------------

	cyc, err := cycler.New(reg, ctrl, gate, cycler.Config{
		Params:   radio.Params{Interval: time.Duration(r.Radio.AdvIntervalMs) * time.Millisecond},
		Hold:     time.Duration(r.Radio.HoldMs) * time.Millisecond,
		Fallback: time.Duration(r.Radio.FallbackMs) * time.Millisecond,
	}, logger.Named("cycler"))
	if err != nil {
		logger.Fatal("cycler init failed", zap.Error(err))
	}

	go func() {
		if err := cyc.Run(ctx); err != nil {
			logger.Fatal("advertisement rotation failed", zap.Error(err))
		}
	}()

	logger.Info("relay up",
		zap.String("feed", client.URL()),
		zap.Int("capacity", r.Registry.Capacity))

	// --------------------
	// Block forever (daemon-safe, no deadlock)
	// --------------------
	for {
		time.Sleep(time.Hour)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	return c.Build()
}
