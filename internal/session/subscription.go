package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lox/klondike/internal/klondike"
)

var (
	// ErrClosed is returned by Next once the stream has ended, either after
	// the End notification or because the subscription was cancelled.
	ErrClosed = errors.New("subscription closed")

	// ErrDropped is returned by Next when the watcher fell behind and was
	// pruned by the session.
	ErrDropped = errors.New("subscription dropped: watcher fell behind")
)

// Notification is one element of a watch stream. The first notification of
// every stream carries the state at subscription time and no action. The
// last one, sent when the game is destroyed, has End set.
type Notification struct {
	Action   *klondike.Action
	Snapshot klondike.Snapshot
	End      bool
}

// Subscription is a watcher's view of one game. Notifications arrive in the
// order actions were applied. The channel is closed when the stream ends.
type Subscription struct {
	gameID string
	ch     chan Notification
	limit  int

	dropped atomic.Bool
	cancel  sync.Once
	detach  func(*Subscription)
}

func newSubscription(gameID string, buffer int, detach func(*Subscription)) *Subscription {
	// One extra slot stays free for the End notification.
	return &Subscription{
		gameID: gameID,
		ch:     make(chan Notification, buffer+1),
		limit:  buffer,
		detach: detach,
	}
}

// GameID returns the id of the watched game
func (s *Subscription) GameID() string {
	return s.gameID
}

// C returns the notification channel
func (s *Subscription) C() <-chan Notification {
	return s.ch
}

// Next blocks until the next notification, the end of the stream or the
// cancellation of ctx.
func (s *Subscription) Next(ctx context.Context) (Notification, error) {
	select {
	case <-ctx.Done():
		return Notification{}, ctx.Err()
	case n, ok := <-s.ch:
		if !ok {
			if s.dropped.Load() {
				return Notification{}, ErrDropped
			}
			return Notification{}, ErrClosed
		}
		return n, nil
	}
}

// Cancel detaches the subscription from its game and closes the channel.
// It is safe to call more than once and after the game is gone.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.detach(s)
	})
}

// Dropped reports whether the session pruned this watcher for falling behind
func (s *Subscription) Dropped() bool {
	return s.dropped.Load()
}

// offer queues n without blocking. It reports false when the watcher has
// used up its buffer. Callers hold the session lock.
func (s *Subscription) offer(n Notification) bool {
	if len(s.ch) >= s.limit {
		return false
	}
	s.ch <- n
	return true
}

// end queues the terminal notification and closes the stream. The reserved
// slot guarantees the send never blocks. Callers hold the session lock.
func (s *Subscription) end(last klondike.Snapshot) {
	s.ch <- Notification{Snapshot: last, End: true}
	close(s.ch)
}

// drop closes the stream without an End notification. Callers hold the
// session lock.
func (s *Subscription) drop() {
	s.dropped.Store(true)
	close(s.ch)
}
