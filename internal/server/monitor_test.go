package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMonitorLines(t *testing.T) {
	var buf bytes.Buffer
	m := NewListMonitor(&buf)

	m.OnGameCreated("g1")
	m.OnAction("g1", klondike.Draw(), klondike.Outcome{Status: klondike.OnGoing})
	m.OnAction("g1", klondike.BuildFoundation(klondike.WasteTop()), klondike.FailedOutcome(klondike.ReasonInvalidRank))
	m.OnAction("g1", klondike.BuildFoundation(klondike.TableauBottom(2)), klondike.Outcome{Status: klondike.Victory})
	m.OnWatcherPruned("g1")
	m.OnGameDestroyed("g1", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "g1"))
	assert.Contains(t, lines[0], "created")
	assert.Contains(t, lines[1], "action")
	assert.Contains(t, lines[1], "draw")
	assert.Contains(t, lines[2], "build u (invalid rank)")
	assert.Contains(t, lines[3], "build 2 victory")
	assert.Contains(t, lines[4], "pruned")
	assert.Contains(t, lines[5], "2 watchers")
	assert.NotContains(t, buf.String(), "\x1b[", "no colors when not writing to a terminal")
}

func TestListMonitorWithRegistry(t *testing.T) {
	var buf bytes.Buffer
	metrics := NewMetrics()
	reg := newTestRegistry(session.WithMonitor(session.NewMultiMonitor(metrics, NewListMonitor(&buf))))

	id, _, err := reg.Create()
	require.NoError(t, err)
	_, err = reg.Act(id, klondike.Draw())
	require.NoError(t, err)
	require.NoError(t, reg.Destroy(id))

	out := buf.String()
	assert.Contains(t, out, id)
	assert.Contains(t, out, "draw")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}
