package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/server"
	"github.com/lox/klondike/internal/session"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServerCmd runs the websocket server. Flags override the config file and
// KLONDIKE_* environment variables.
type ServerCmd struct {
	Config      string `short:"c" type:"path" default:"klondike.hcl" help:"Path to HCL configuration file (ignored when missing)"`
	Addr        string `help:"Server address (overrides config)"`
	Metrics     *bool  `help:"Serve prometheus metrics on /metrics (overrides config)"`
	WatchBuffer *int   `help:"Notifications buffered per watcher before it is dropped (overrides config)"`
	MaxGames    *int   `help:"Maximum concurrent games, 0 for unlimited (overrides config)"`
	Seed        *int64 `help:"Deterministic RNG seed for dealing (overrides config)"`
	List        bool   `help:"Print one line per game event to stdout"`
}

// config loads the layered configuration and applies the flags on top
func (c *ServerCmd) config(g *Globals) (*server.Config, error) {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Metrics != nil {
		cfg.Server.Metrics = *c.Metrics
	}
	if c.WatchBuffer != nil {
		cfg.Games.WatchBuffer = *c.WatchBuffer
	}
	if c.MaxGames != nil {
		cfg.Games.MaxGames = *c.MaxGames
	}
	if c.Seed != nil {
		cfg.Games.Seed = c.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *ServerCmd) Run(g *Globals) error {
	cfg, err := c.config(g)
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, g.LogJSON, os.Stderr)
	if err != nil {
		return err
	}

	rng, seed := randutil.FromOptional(cfg.Games.Seed)
	if cfg.Games.Seed != nil {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Debug("Using random seed", "seed", seed)
	}

	opts := append(cfg.RegistryOptions(),
		session.WithLogger(logger),
		session.WithSource(rng),
	)
	var (
		serverOpts []server.Option
		monitors   []session.Monitor
	)
	if cfg.Server.Metrics {
		metrics := server.NewMetrics()
		monitors = append(monitors, metrics)
		serverOpts = append(serverOpts, server.WithMetrics(metrics))
	}
	if c.List {
		monitors = append(monitors, server.NewListMonitor(os.Stdout))
	}
	opts = append(opts, session.WithMonitor(session.NewMultiMonitor(monitors...)))

	registry := session.New(opts...)
	srv := server.NewServer(registry, logger, serverOpts...)

	logger.Info("Starting klondike server",
		"address", cfg.Server.Address,
		"watch_buffer", cfg.Games.WatchBuffer,
		"max_games", cfg.Games.MaxGames,
		"metrics", cfg.Server.Metrics)

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ListenAndServe(cfg.Server.Address)
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		registry.Close()
		return err
	})

	return group.Wait()
}
