package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/klondike/cards"
	"github.com/lox/klondike/internal/display"
	"github.com/lox/klondike/internal/klondike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stubTable answers every action with a fixed outcome
type stubTable struct {
	outcome klondike.Outcome
	err     error
	acted   []klondike.Action
}

func (s *stubTable) Snapshot() klondike.Snapshot {
	return klondike.Snapshot{DrawPileSize: 24}
}

func (s *stubTable) Act(_ context.Context, a klondike.Action) (klondike.Outcome, error) {
	s.acted = append(s.acted, a)
	return s.outcome, s.err
}

func newModel(t *testing.T, table klondike.Table) *Model {
	t.Helper()
	return New(context.Background(), table, testLogger(), WithRenderer(display.Plain()))
}

// enter types line and presses enter, running any action round trip
func enter(t *testing.T, m *Model, line string) tea.Cmd {
	t.Helper()

	m.input.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if _, ok := msg.(actionResultMsg); !ok {
		return cmd
	}
	_, cmd = m.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func lastLog(m *Model) string {
	entries := m.Log()
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1]
}

func TestPlayLocalTable(t *testing.T) {
	table := klondike.NewLocalTable(klondike.Deal(cards.Standard52()))
	m := newModel(t, table)

	assert.Nil(t, enter(t, m, "build 0"))
	assert.Equal(t, "build 0", lastLog(m))
	assert.Equal(t, cards.Ace, table.Snapshot().Foundations.Of(cards.Hearts))
	assert.NotContains(t, m.board.View(), "__♥", "board is redrawn after a move")

	assert.Nil(t, enter(t, m, "build 0"))
	assert.Contains(t, lastLog(m), "Invalid move: "+klondike.ReasonNoSourceCard)

	assert.Nil(t, enter(t, m, "draw"))
	assert.Equal(t, "draw", lastLog(m))
	assert.Equal(t, 1, table.Snapshot().WasteSize)
}

func TestBadInputIsReported(t *testing.T) {
	table := &stubTable{}
	m := newModel(t, table)

	assert.Nil(t, enter(t, m, "shuffle"))
	assert.Contains(t, lastLog(m), `unknown command "shuffle"`)

	assert.Nil(t, enter(t, m, "move 1"))
	assert.Contains(t, lastLog(m), "invalid arguments")

	assert.Nil(t, enter(t, m, "   "))
	assert.Len(t, m.Log(), 2, "blank lines are ignored")
	assert.Empty(t, table.acted)
}

func TestHelpListsCommands(t *testing.T) {
	m := newModel(t, &stubTable{})

	assert.Nil(t, enter(t, m, "help"))
	joined := strings.Join(m.Log(), "\n")
	assert.Contains(t, joined, "build <idx|u>")
	assert.Contains(t, joined, "quit")
}

func TestQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m := newModel(t, &stubTable{})
		_, cmd := m.Update(key)
		assert.True(t, isQuit(cmd), key.String())
		assert.Empty(t, m.View())
	}

	m := newModel(t, &stubTable{})
	assert.True(t, isQuit(enter(t, m, "quit")))
	assert.Empty(t, m.View())
}

func TestVictoryEndsTheGame(t *testing.T) {
	table := &stubTable{outcome: klondike.Outcome{Status: klondike.Victory}}
	m := newModel(t, table)

	cmd := enter(t, m, "build u")
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Won())
	assert.Contains(t, lastLog(m), VictoryMessage)
	assert.Contains(t, m.View(), VictoryMessage, "the final frame shows the win")

	assert.Nil(t, enter(t, m, "draw"))
	assert.Len(t, table.acted, 1, "no actions after the win")
}

func TestTableErrorIsLogged(t *testing.T) {
	table := &stubTable{err: errors.New("connection lost")}
	m := newModel(t, table)

	assert.Nil(t, enter(t, m, "draw"))
	assert.Contains(t, lastLog(m), "connection lost")
	assert.False(t, m.busy)
}

func TestOneActionInFlight(t *testing.T) {
	table := &stubTable{}
	m := newModel(t, table)

	m.input.SetValue("draw")
	_, pending := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, pending)

	m.input.SetValue("draw")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, lastLog(m), "Still waiting")

	_, _ = m.Update(pending())
	assert.Len(t, table.acted, 1)
	assert.False(t, m.busy)
}

func TestViewShowsBoardAndStatus(t *testing.T) {
	m := newModel(t, &stubTable{})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	view := m.View()
	assert.Contains(t, view, display.Footer)
	assert.Contains(t, view, "draw 24")
	assert.Contains(t, view, "Klondike")
}
