package server

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/session"
)

// ListMonitor implements session.Monitor for compact event-by-event output.
// Shows one line per event with: game id, event, detail.
type ListMonitor struct {
	writer io.Writer
	mu     sync.Mutex

	failed  lipgloss.Style
	success lipgloss.Style
	dim     lipgloss.Style
}

var _ session.Monitor = (*ListMonitor)(nil)

// NewListMonitor creates a new list monitor. Colors are used only when
// writer is a terminal.
func NewListMonitor(writer io.Writer) *ListMonitor {
	if writer == nil {
		writer = os.Stdout
	}

	r := lipgloss.NewRenderer(writer)
	return &ListMonitor{
		writer:  writer,
		failed:  r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		success: r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func (l *ListMonitor) line(id, event, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.writer, "%-26s %-10s %s\n", id, event, detail)
}

// OnGameCreated implements session.Monitor.
func (l *ListMonitor) OnGameCreated(id string) {
	l.line(id, "created", "")
}

// OnGameDestroyed implements session.Monitor.
func (l *ListMonitor) OnGameDestroyed(id string, watchers int) {
	l.line(id, "destroyed", l.dim.Render(fmt.Sprintf("%d watchers", watchers)))
}

// OnAction implements session.Monitor.
func (l *ListMonitor) OnAction(id string, action klondike.Action, outcome klondike.Outcome) {
	detail := action.String()
	switch outcome.Status {
	case klondike.Failed:
		detail += " " + l.failed.Render("("+outcome.Reason+")")
	case klondike.Victory:
		detail += " " + l.success.Render("victory")
	}
	l.line(id, "action", detail)
}

// OnWatcherPruned implements session.Monitor.
func (l *ListMonitor) OnWatcherPruned(id string) {
	l.line(id, "pruned", l.dim.Render("watcher fell behind"))
}
