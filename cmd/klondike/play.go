package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/client"
	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/tui"
)

// PlayCmd plays interactively, locally or against a server
type PlayCmd struct {
	Server  string `short:"s" help:"Server URL to play on (plays locally when empty)"`
	Seed    *int64 `help:"Deterministic RNG seed for a local deal"`
	LogFile string `help:"Log file path (logs are discarded when empty)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	// The terminal belongs to the UI, so logs only go to a file
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	logger, err := shared.SetupLogger(g.LogLevel, g.LogJSON, out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, title, cleanup, err := c.table(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	model := tui.New(ctx, table, logger, tui.WithTitle(title))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if model.Won() {
		fmt.Println(tui.VictoryMessage)
	}
	return nil
}

// table picks the local or remote table and returns a cleanup for it
func (c *PlayCmd) table(ctx context.Context, logger *log.Logger) (klondike.Table, string, func(), error) {
	if c.Server == "" {
		rng, seed := randutil.FromOptional(c.Seed)
		logger.Info("Dealing local game", "seed", seed)
		return klondike.NewLocalTable(klondike.New(rng)), fmt.Sprintf("Klondike (seed %d)", seed), func() {}, nil
	}

	wsClient := client.NewClient(c.Server, logger)
	if err := wsClient.Connect(ctx); err != nil {
		return nil, "", nil, err
	}

	table, err := client.NewRemoteTable(ctx, wsClient)
	if err != nil {
		_ = wsClient.Close()
		return nil, "", nil, fmt.Errorf("failed to create game: %w", err)
	}
	logger.Info("Playing remote game", "server", c.Server, "game", table.GameID())

	cleanup := func() {
		if err := table.Close(context.Background()); err != nil {
			logger.Warn("Failed to destroy game", "game", table.GameID(), "error", err)
		}
		_ = wsClient.Close()
	}
	return table, "Klondike " + table.GameID(), cleanup, nil
}
