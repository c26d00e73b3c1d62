package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/klondike/cmd/klondike/shared"
	"github.com/lox/klondike/internal/client"
	"github.com/lox/klondike/internal/display"
	"github.com/lox/klondike/internal/session"
)

// WatchCmd prints every state of a remote game until it ends
type WatchCmd struct {
	GameID string `arg:"" help:"Game to watch"`
	Server string `short:"s" default:"http://localhost:8080" help:"Server URL"`
	Buffer int    `default:"128" help:"Notifications buffered before the watch is dropped"`
}

func (c *WatchCmd) Run(g *Globals) error {
	logger, err := shared.SetupLogger(g.LogLevel, g.LogJSON, os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	wsClient := client.NewClient(c.Server, logger)
	if err := wsClient.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = wsClient.Close() }()

	w, err := wsClient.Watch(ctx, c.GameID, c.Buffer)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.GameID, err)
	}
	defer func() { _ = w.Close(context.Background()) }()

	return follow(ctx, w, os.Stdout)
}

// follow prints notifications until the watch ends or ctx is cancelled
func follow(ctx context.Context, w *client.Watch, out io.Writer) error {
	for {
		n, err := w.Next(ctx)
		switch {
		case errors.Is(err, client.ErrWatchEnded):
			_, _ = fmt.Fprintf(out, "game %s: watch ended (%s)\n", w.GameID(), w.Reason())
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}
		printNotification(out, n)
	}
}

func printNotification(out io.Writer, n session.Notification) {
	if n.Action != nil {
		_, _ = fmt.Fprintf(out, "> %s\n", *n.Action)
	}
	_, _ = fmt.Fprintln(out, display.Render(n.Snapshot))
	_, _ = fmt.Fprintln(out)
}
