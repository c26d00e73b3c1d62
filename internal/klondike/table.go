package klondike

import (
	"context"
	"sync"
)

// Table is something a player can look at and act on. LocalTable hosts the
// game in-process; client.RemoteTable forwards to a server.
//
// Act returns an error only when the action could not be delivered. A
// rejected move is reported as a Failed outcome.
type Table interface {
	Snapshot() Snapshot
	Act(ctx context.Context, a Action) (Outcome, error)
}

// LocalTable is a Table backed by a Game in this process
type LocalTable struct {
	mu   sync.Mutex
	game *Game
}

var _ Table = (*LocalTable)(nil)

// NewLocalTable wraps g
func NewLocalTable(g *Game) *LocalTable {
	return &LocalTable{game: g}
}

func (t *LocalTable) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.Snapshot()
}

func (t *LocalTable) Act(_ context.Context, a Action) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.Apply(a), nil
}
