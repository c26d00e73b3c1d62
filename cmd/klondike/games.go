package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/klondike/internal/fileutil"
	"github.com/lox/klondike/internal/server"
)

// GamesCmd lists the games a server is hosting
type GamesCmd struct {
	Server  string        `short:"s" default:"http://localhost:8080" help:"Server URL"`
	Timeout time.Duration `default:"5s" help:"Request timeout"`
	Output  string        `short:"o" type:"path" help:"Also write the list as JSON to this file"`
}

func (c *GamesCmd) Run(_ *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	games, err := fetchGames(ctx, c.Server)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, games, 0o644); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tMOVES\tWATCHERS\tWON")
	for _, g := range games.Games {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\n",
			g.ID, g.CreatedAt.Format(time.DateTime), g.Moves, g.Watchers, g.Won)
	}
	return tw.Flush()
}

func fetchGames(ctx context.Context, serverURL string) (*server.GamesResponse, error) {
	url := strings.TrimSuffix(serverURL, "/") + "/games"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list games: %s", resp.Status)
	}

	var games server.GamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode game list: %w", err)
	}
	return &games, nil
}
