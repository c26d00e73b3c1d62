package client

import (
	"context"
	"errors"
	"sync"

	"github.com/lox/klondike/internal/klondike"
)

// RemoteTable is a klondike.Table whose game lives on a server. It keeps the
// last state the server reported so Snapshot never blocks.
type RemoteTable struct {
	client *Client
	gameID string

	mu   sync.RWMutex
	snap klondike.Snapshot
}

var _ klondike.Table = (*RemoteTable)(nil)

// NewRemoteTable creates a game on the server and returns a table for it
func NewRemoteTable(ctx context.Context, c *Client) (*RemoteTable, error) {
	id, snap, err := c.CreateGame(ctx)
	if err != nil {
		return nil, err
	}
	return &RemoteTable{client: c, gameID: id, snap: snap}, nil
}

// GameID returns the server's id for the game
func (t *RemoteTable) GameID() string {
	return t.gameID
}

func (t *RemoteTable) Snapshot() klondike.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// Act forwards a to the server. Rejected moves come back as a Failed outcome
// with a nil error, like a local table.
func (t *RemoteTable) Act(ctx context.Context, a klondike.Action) (klondike.Outcome, error) {
	res, err := t.client.Act(ctx, t.gameID, a)
	if err != nil {
		if errors.Is(err, klondike.ErrInvalidMove) {
			return res.Outcome, nil
		}
		return klondike.Outcome{}, err
	}

	t.mu.Lock()
	t.snap = res.Snapshot
	t.mu.Unlock()
	return res.Outcome, nil
}

// Close destroys the game on the server
func (t *RemoteTable) Close(ctx context.Context) error {
	return t.client.DestroyGame(ctx, t.gameID)
}
