package command

import (
	"testing"

	"github.com/lox/klondike/internal/klondike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions(t *testing.T) {
	tests := []struct {
		line string
		want klondike.Action
	}{
		{"draw", klondike.Draw()},
		{"  DRAW  ", klondike.Draw()},
		{"d", klondike.Draw()},
		{"build u", klondike.BuildFoundation(klondike.WasteTop())},
		{"build 3", klondike.BuildFoundation(klondike.TableauBottom(3))},
		{"b 0", klondike.BuildFoundation(klondike.TableauBottom(0))},
		{"move u 4", klondike.BuildTableau(klondike.WasteTop(), 4)},
		{"move 1 2 4", klondike.BuildTableau(klondike.TableauRun(1, 2), 4)},
		{"m 6 1 0", klondike.BuildTableau(klondike.TableauRun(6, 1), 0)},
		{"move 9 1 2", klondike.BuildTableau(klondike.TableauRun(9, 1), 2)},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, Play, cmd.Kind)
			assert.Equal(t, tt.want, cmd.Action)
		})
	}
}

func TestParseControl(t *testing.T) {
	for _, line := range []string{"quit", "q", "exit", "Quit"} {
		cmd, err := Parse(line)
		require.NoError(t, err, line)
		assert.Equal(t, Quit, cmd.Kind, line)
	}
	for _, line := range []string{"help", "h", "?"} {
		cmd, err := Parse(line)
		require.NoError(t, err, line)
		assert.Equal(t, Help, cmd.Kind, line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"shuffle", ErrUnknown},
		{"draw 2", ErrUsage},
		{"build", ErrUsage},
		{"build x", ErrUsage},
		{"build -1", ErrUsage},
		{"build 1 2", ErrUsage},
		{"move", ErrUsage},
		{"move u", ErrUsage},
		{"move u x", ErrUsage},
		{"move 1 2", ErrUsage},
		{"move 1 x 2", ErrUsage},
		{"move 1 2 3 4", ErrUsage},
		{"quit now", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseUnknownNamesTheWord(t *testing.T) {
	_, err := Parse("undo 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"undo"`)
}

func TestParseActionString(t *testing.T) {
	actions := []klondike.Action{
		klondike.Draw(),
		klondike.BuildFoundation(klondike.WasteTop()),
		klondike.BuildFoundation(klondike.TableauBottom(5)),
		klondike.BuildTableau(klondike.WasteTop(), 2),
		klondike.BuildTableau(klondike.TableauRun(3, 4), 6),
	}

	for _, a := range actions {
		cmd, err := Parse(a.String())
		require.NoError(t, err, a.String())
		assert.Equal(t, a, cmd.Action, a.String())
	}
}
