package client

import (
	"context"
	"errors"
	"sync"

	"github.com/lox/klondike/internal/protocol"
	"github.com/lox/klondike/internal/session"
)

// EndDisconnected is the reason reported for watches cut short by the
// connection going away.
const EndDisconnected = "disconnected"

// ErrWatchEnded is returned by Next once the watch has ended and every
// buffered notification has been consumed.
var ErrWatchEnded = errors.New("watch ended")

// Watch is a stream of notifications for one game
type Watch struct {
	client *Client
	gameID string

	mu     sync.Mutex
	ch     chan session.Notification
	closed bool
	reason string
}

func newWatch(c *Client, gameID string, buffer int) *Watch {
	return &Watch{
		client: c,
		gameID: gameID,
		ch:     make(chan session.Notification, buffer),
	}
}

// GameID returns the watched game
func (w *Watch) GameID() string {
	return w.gameID
}

// C returns the notification channel. It is closed when the watch ends.
func (w *Watch) C() <-chan session.Notification {
	return w.ch
}

// Next blocks until a notification arrives, the watch ends or ctx is done
func (w *Watch) Next(ctx context.Context) (session.Notification, error) {
	select {
	case n, ok := <-w.ch:
		if !ok {
			return session.Notification{}, ErrWatchEnded
		}
		return n, nil
	case <-ctx.Done():
		return session.Notification{}, ctx.Err()
	}
}

// Reason reports why the watch ended, or "" while it is still running
func (w *Watch) Reason() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reason
}

// Close stops watching. Notifications already buffered remain readable.
func (w *Watch) Close(ctx context.Context) error {
	if !w.client.detachWatch(w) {
		return nil
	}
	err := w.client.unwatch(ctx, w.gameID)
	w.finish(protocol.EndUnwatched)
	return err
}

func (w *Watch) offer(n session.Notification) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return true
	}
	select {
	case w.ch <- n:
		return true
	default:
		return false
	}
}

func (w *Watch) finish(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.reason = reason
	close(w.ch)
}
