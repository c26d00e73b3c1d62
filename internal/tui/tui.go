// Package tui is the interactive terminal front end. It drives any
// klondike.Table, so the same model plays a local game or one hosted on a
// server.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/klondike/internal/command"
	"github.com/lox/klondike/internal/display"
	"github.com/lox/klondike/internal/klondike"
)

// VictoryMessage is logged when the last card reaches its foundation
const VictoryMessage = "Congratulations! You won!"

// maxLogLines is how many log entries are kept for the log pane
const maxLogLines = 200

// actionResultMsg carries the answer to an action sent to the table
type actionResultMsg struct {
	action  klondike.Action
	outcome klondike.Outcome
	err     error
}

// Model is the Bubble Tea model for a game of klondike
type Model struct {
	ctx      context.Context
	table    klondike.Table
	logger   *log.Logger
	renderer *display.Renderer
	title    string

	board viewport.Model
	input textinput.Model

	gameLog  []string
	busy     bool
	won      bool
	quitting bool

	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithRenderer overrides how the board is drawn
func WithRenderer(r *display.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithTitle sets the header shown above the board
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New creates a model playing on table. Actions are sent with ctx.
func New(ctx context.Context, table klondike.Table, logger *log.Logger, opts ...Option) *Model {
	vp := viewport.New(30, 22)

	ti := textinput.New()
	ti.Placeholder = "draw, build <idx|u>, move <idx> <size> <dst>, move u <dst>, quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = PromptStyle
	ti.Prompt = "> "

	m := &Model{
		ctx:      ctx,
		table:    table,
		logger:   logger.WithPrefix("tui"),
		renderer: display.NewRenderer(lipgloss.DefaultRenderer()),
		title:    "Klondike",
		board:    vp,
		input:    ti,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.submit(line); cmd != nil {
				return m, cmd
			}
			return m, nil
		case "pgup":
			m.board.HalfPageUp()
		case "pgdown":
			m.board.HalfPageDown()
		}

	case actionResultMsg:
		m.busy = false
		if cmd := m.handleResult(msg); cmd != nil {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles a line typed at the prompt
func (m *Model) submit(line string) tea.Cmd {
	cmd, err := command.Parse(line)
	if errors.Is(err, command.ErrEmpty) {
		return nil
	}
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}

	switch cmd.Kind {
	case command.Quit:
		m.quitting = true
		return tea.Quit
	case command.Help:
		for _, l := range strings.Split(command.Usage, "\n") {
			m.addLog(InfoStyle.Render(l))
		}
		return nil
	}

	if m.won {
		m.addLog(WarningStyle.Render("The game is over, type quit to leave"))
		return nil
	}
	if m.busy {
		m.addLog(WarningStyle.Render("Still waiting for the last move"))
		return nil
	}

	m.busy = true
	return m.act(cmd.Action)
}

// act sends a to the table off the UI goroutine
func (m *Model) act(a klondike.Action) tea.Cmd {
	ctx, table := m.ctx, m.table
	return func() tea.Msg {
		outcome, err := table.Act(ctx, a)
		return actionResultMsg{action: a, outcome: outcome, err: err}
	}
}

func (m *Model) handleResult(msg actionResultMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("Action failed", "action", msg.action, "error", msg.err)
		m.addLog(ErrorStyle.Render(fmt.Sprintf("%s: %v", msg.action, msg.err)))
		return nil
	}

	m.refresh()
	switch msg.outcome.Status {
	case klondike.Failed:
		m.addLog(ErrorStyle.Render("Invalid move: " + msg.outcome.Reason))
	case klondike.Victory:
		m.won = true
		m.addLog(SuccessStyle.Render(VictoryMessage))
		return tea.Quit
	default:
		m.addLog(msg.action.String())
	}
	return nil
}

// refresh redraws the board from the table
func (m *Model) refresh() {
	m.board.SetContent(m.renderer.Render(m.table.Snapshot()))
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > maxLogLines {
		m.gameLog = m.gameLog[len(m.gameLog)-maxLogLines:]
	}
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	board := paneStyle.Render(m.board.View())
	snap := m.table.Snapshot()
	status := InfoStyle.Render(fmt.Sprintf("draw %d  waste %d  foundations %d/52",
		snap.DrawPileSize, snap.WasteSize, snap.Foundations.Total()))

	logHeight := 6
	if m.height > 0 {
		logHeight = max(m.height-lipgloss.Height(board)-6, 1)
	}
	entries := m.gameLog
	if len(entries) > logHeight {
		entries = entries[len(entries)-logHeight:]
	}

	parts := []string{
		HeaderStyle.Render(" " + m.title + " "),
		board,
		status,
		strings.Join(entries, "\n"),
		m.input.View(),
		InfoStyle.Render("Enter to submit • help for commands • Ctrl+C to quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Log returns the log entries shown under the board
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Won reports whether the game was won in this session
func (m *Model) Won() bool {
	return m.won
}
