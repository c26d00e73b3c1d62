package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lox/klondike/internal/klondike"
)

type sequentialIDs struct {
	n atomic.Int64
}

func (s *sequentialIDs) NewID() string {
	return fmt.Sprintf("game-%d", s.n.Add(1))
}

type recordingMonitor struct {
	mu        sync.Mutex
	created   []string
	destroyed map[string]int
	actions   []klondike.Status
	pruned    []string
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{destroyed: make(map[string]int)}
}

func (m *recordingMonitor) OnGameCreated(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, id)
}

func (m *recordingMonitor) OnGameDestroyed(id string, watchers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed[id] = watchers
}

func (m *recordingMonitor) OnAction(_ string, _ klondike.Action, outcome klondike.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, outcome.Status)
}

func (m *recordingMonitor) OnWatcherPruned(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = append(m.pruned, id)
}

// drain reads a subscription until its channel closes
func drain(t *testing.T, sub *Subscription) []Notification {
	t.Helper()
	var out []Notification
	for n := range sub.C() {
		out = append(out, n)
	}
	return out
}
