package session

import "github.com/lox/klondike/internal/klondike"

// Monitor receives notifications about game lifecycles and actions. Methods
// are called outside the session lock and must not block for long.
type Monitor interface {
	// OnGameCreated is called after a new game is registered.
	OnGameCreated(id string)

	// OnGameDestroyed is called after a game is removed, with the number of
	// watchers that were still attached.
	OnGameDestroyed(id string, watchers int)

	// OnAction is called for every action applied to a game, failed or not.
	OnAction(id string, action klondike.Action, outcome klondike.Outcome)

	// OnWatcherPruned is called when a watcher is dropped for falling behind.
	OnWatcherPruned(id string)
}

// NullMonitor is a no-op implementation.
type NullMonitor struct{}

func (NullMonitor) OnGameCreated(string)                               {}
func (NullMonitor) OnGameDestroyed(string, int)                        {}
func (NullMonitor) OnAction(string, klondike.Action, klondike.Outcome) {}
func (NullMonitor) OnWatcherPruned(string)                             {}

// MultiMonitor fans events out to multiple monitors.
type MultiMonitor struct {
	monitors []Monitor
}

// NewMultiMonitor builds a composite monitor, dropping nil entries and
// returning a NullMonitor when nothing is left.
func NewMultiMonitor(monitors ...Monitor) Monitor {
	filtered := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		if m != nil {
			filtered = append(filtered, m)
		}
	}

	switch len(filtered) {
	case 0:
		return NullMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiMonitor{monitors: filtered}
	}
}

func (m MultiMonitor) OnGameCreated(id string) {
	for _, monitor := range m.monitors {
		monitor.OnGameCreated(id)
	}
}

func (m MultiMonitor) OnGameDestroyed(id string, watchers int) {
	for _, monitor := range m.monitors {
		monitor.OnGameDestroyed(id, watchers)
	}
}

func (m MultiMonitor) OnAction(id string, action klondike.Action, outcome klondike.Outcome) {
	for _, monitor := range m.monitors {
		monitor.OnAction(id, action, outcome)
	}
}

func (m MultiMonitor) OnWatcherPruned(id string) {
	for _, monitor := range m.monitors {
		monitor.OnWatcherPruned(id)
	}
}
