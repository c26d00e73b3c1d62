package session

import (
	"sync"
	"time"

	"github.com/lox/klondike/internal/klondike"
)

// activeSession is a game together with the watchers attached to it. All
// fields below mu are guarded by it.
type activeSession struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	game      *klondike.Game
	watchers  map[*Subscription]struct{}
	destroyed bool
	updatedAt time.Time
	moves     int
}

func newActiveSession(id string, game *klondike.Game, now time.Time) *activeSession {
	return &activeSession{
		id:        id,
		createdAt: now,
		game:      game,
		watchers:  make(map[*Subscription]struct{}),
		updatedAt: now,
	}
}

// apply runs one action and broadcasts it on success. It also returns the
// number of watchers pruned during the broadcast, and false when the session
// is already destroyed.
func (s *activeSession) apply(a klondike.Action, now time.Time) (Result, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return Result{}, 0, false
	}

	out := s.game.Apply(a)
	if out.Failed() {
		return Result{Outcome: out}, 0, true
	}

	s.moves++
	s.updatedAt = now
	snap := s.game.Snapshot()
	pruned := s.broadcast(a, snap)
	return Result{Outcome: out, Snapshot: snap}, pruned, true
}

// broadcast delivers one notification to every watcher, dropping those that
// cannot keep up. Callers hold mu.
func (s *activeSession) broadcast(a klondike.Action, snap klondike.Snapshot) int {
	pruned := 0
	for w := range s.watchers {
		action := a
		if w.offer(Notification{Action: &action, Snapshot: snap}) {
			continue
		}
		delete(s.watchers, w)
		w.drop()
		pruned++
	}
	return pruned
}

// attach registers a new watcher seeded with the current state
func (s *activeSession) attach(buffer int) (*Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil, false
	}

	sub := newSubscription(s.id, buffer, s.detach)
	sub.offer(Notification{Snapshot: s.game.Snapshot()})
	s.watchers[sub] = struct{}{}
	return sub, true
}

func (s *activeSession) detach(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchers[sub]; !ok {
		return
	}
	delete(s.watchers, sub)
	close(sub.ch)
}

// destroy marks the session gone and ends every stream. It returns the
// number of watchers that were attached, or false if it was already gone.
func (s *activeSession) destroy() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return 0, false
	}
	s.destroyed = true

	last := s.game.Snapshot()
	n := len(s.watchers)
	for w := range s.watchers {
		w.end(last)
	}
	clear(s.watchers)
	return n, true
}

func (s *activeSession) snapshot() (klondike.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return klondike.Snapshot{}, false
	}
	return s.game.Snapshot(), true
}

func (s *activeSession) summary() (GameSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return GameSummary{}, false
	}
	return GameSummary{
		ID:        s.id,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
		Moves:     s.moves,
		Won:       s.game.Won(),
		Watchers:  len(s.watchers),
	}, true
}
