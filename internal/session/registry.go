package session

import (
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/klondike/cards"
	"github.com/lox/klondike/internal/gameid"
	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/randutil"
)

// DefaultWatchBuffer is the number of notifications a watcher may have
// pending before it is dropped.
const DefaultWatchBuffer = 128

var (
	// ErrNotFound is returned for ids that were never created or have been
	// destroyed.
	ErrNotFound = errors.New("game not found")

	// ErrTooManyGames is returned by Create when the registry is full.
	ErrTooManyGames = errors.New("too many active games")
)

// Result is what a successful Act returns
type Result struct {
	Outcome  klondike.Outcome
	Snapshot klondike.Snapshot // state after the action, zero when it failed
}

// GameSummary holds lightweight metadata about an active game.
type GameSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Moves     int       `json:"moves"`
	Won       bool      `json:"won"`
	Watchers  int       `json:"watchers"`
}

// Option configures a Registry during creation.
type Option func(*Registry)

// WithLogger sets the parent logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithAllocator sets the id allocator
func WithAllocator(ids gameid.Allocator) Option {
	return func(r *Registry) { r.ids = ids }
}

// WithSource sets the random source used to shuffle new deals
func WithSource(src cards.Source) Option {
	return func(r *Registry) { r.src = src }
}

// WithClock sets the clock used for game timestamps
func WithClock(clock quartz.Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithMonitor sets the monitor notified of registry events
func WithMonitor(monitor Monitor) Option {
	return func(r *Registry) { r.monitor = monitor }
}

// WithWatchBuffer sets how many notifications each watcher may have pending.
// Values below one are ignored.
func WithWatchBuffer(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.watchBuffer = n
		}
	}
}

// WithMaxGames caps the number of live games. Zero means unlimited.
func WithMaxGames(n int) Option {
	return func(r *Registry) { r.maxGames = n }
}

// Registry tracks active games by id. It is safe for concurrent use; the
// registry lock only guards the id map, each game has its own lock.
type Registry struct {
	logger      *log.Logger
	ids         gameid.Allocator
	clock       quartz.Clock
	monitor     Monitor
	watchBuffer int
	maxGames    int

	dealMu sync.Mutex
	src    cards.Source

	mu       sync.RWMutex
	sessions map[string]*activeSession
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:      log.New(io.Discard),
		clock:       quartz.NewReal(),
		monitor:     NullMonitor{},
		watchBuffer: DefaultWatchBuffer,
		sessions:    make(map[string]*activeSession),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.WithPrefix("registry")
	if r.ids == nil {
		r.ids = gameid.NewGenerator(nil)
	}
	if r.monitor == nil {
		r.monitor = NullMonitor{}
	}
	if r.src == nil {
		src, seed := randutil.FromOptional(nil)
		r.logger.Debug("seeded dealer", "seed", seed)
		r.src = src
	}
	return r
}

// deal shuffles a fresh game. The shared source is not safe for concurrent
// use, so dealing is serialized.
func (r *Registry) deal() *klondike.Game {
	r.dealMu.Lock()
	defer r.dealMu.Unlock()
	return klondike.New(r.src)
}

// Create registers a freshly dealt game with no watchers.
func (r *Registry) Create() (string, klondike.Snapshot, error) {
	game := r.deal()
	snap := game.Snapshot()

	r.mu.Lock()
	if r.maxGames > 0 && len(r.sessions) >= r.maxGames {
		r.mu.Unlock()
		return "", klondike.Snapshot{}, ErrTooManyGames
	}
	id := r.ids.NewID()
	for r.sessions[id] != nil {
		id = r.ids.NewID()
	}
	r.sessions[id] = newActiveSession(id, game, r.clock.Now())
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("game created", "game", id, "active", count)
	r.monitor.OnGameCreated(id)
	return id, snap, nil
}

// Destroy removes a game. Every watcher receives an End notification before
// Destroy returns.
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	watchers, ok := s.destroy()
	if !ok {
		return ErrNotFound
	}

	r.logger.Info("game destroyed", "game", id, "watchers", watchers)
	r.monitor.OnGameDestroyed(id, watchers)
	return nil
}

// Watch attaches a new watcher. The first notification is the current
// state; after that one arrives per successful action, then an End
// notification when the game is destroyed.
func (r *Registry) Watch(id string) (*Subscription, error) {
	s, ok := r.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	sub, ok := s.attach(r.watchBuffer)
	if !ok {
		return nil, ErrNotFound
	}

	r.logger.Debug("watcher attached", "game", id)
	return sub, nil
}

// Act applies an action to a game. A rejected move returns the Failed
// outcome together with its *klondike.MoveError; nothing is broadcast.
func (r *Registry) Act(id string, a klondike.Action) (Result, error) {
	s, ok := r.lookup(id)
	if !ok {
		return Result{}, ErrNotFound
	}

	res, pruned, ok := s.apply(a, r.clock.Now())
	if !ok {
		return Result{}, ErrNotFound
	}

	r.monitor.OnAction(id, a, res.Outcome)
	for range pruned {
		r.logger.Warn("watcher dropped", "game", id, "buffer", r.watchBuffer)
		r.monitor.OnWatcherPruned(id)
	}

	if err := res.Outcome.Err(); err != nil {
		r.logger.Debug("action rejected", "game", id, "action", a, "reason", res.Outcome.Reason)
		return res, err
	}
	if res.Outcome.Victory() {
		r.logger.Info("game won", "game", id)
	}
	return res, nil
}

// Snapshot returns the current state of a game
func (r *Registry) Snapshot(id string) (klondike.Snapshot, error) {
	s, ok := r.lookup(id)
	if !ok {
		return klondike.Snapshot{}, ErrNotFound
	}
	snap, ok := s.snapshot()
	if !ok {
		return klondike.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// List returns a summary of every active game, oldest first.
func (r *Registry) List() []GameSummary {
	r.mu.RLock()
	sessions := make([]*activeSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	summaries := make([]GameSummary, 0, len(sessions))
	for _, s := range sessions {
		if summary, ok := s.summary(); ok {
			summaries = append(summaries, summary)
		}
	}
	slices.SortFunc(summaries, func(a, b GameSummary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}

// Len returns the number of active games
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close destroys every remaining game, ending all watch streams.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*activeSession)
	r.mu.Unlock()

	for id, s := range sessions {
		if watchers, ok := s.destroy(); ok {
			r.monitor.OnGameDestroyed(id, watchers)
		}
	}
}

func (r *Registry) lookup(id string) (*activeSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}
