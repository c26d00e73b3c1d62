// Package command parses the text commands typed at the interactive prompt:
//
//	draw                      turn the next card onto the waste
//	build <idx|u>             move a card to its foundation
//	move <idx> <size> <dst>   move the last size cards of column idx
//	move u <dst>              move the waste top onto column dst
//	quit                      leave the game
//
// Columns are numbered 0 to 6 and "u" names the upturned waste card.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/klondike/internal/klondike"
)

// Kind says what a parsed command asks for
type Kind uint8

const (
	Play Kind = iota
	Quit
	Help
)

// Command is a parsed line. Action is set when Kind is Play.
type Command struct {
	Kind   Kind
	Action klondike.Action
}

var (
	// ErrEmpty is returned for a blank line
	ErrEmpty = errors.New("empty command")
	// ErrUnknown is returned when the first word names no command
	ErrUnknown = errors.New("unknown command")
	// ErrUsage is returned when a command's arguments are malformed
	ErrUsage = errors.New("invalid arguments")
)

const waste = "u"

type parser func(args []string) (Command, error)

var commands = map[string]parser{
	"draw":  parseDraw,
	"d":     parseDraw,
	"build": parseBuild,
	"b":     parseBuild,
	"move":  parseMove,
	"m":     parseMove,
	"quit":  parseBare(Quit),
	"q":     parseBare(Quit),
	"exit":  parseBare(Quit),
	"help":  parseBare(Help),
	"h":     parseBare(Help),
	"?":     parseBare(Help),
}

// Usage lists the commands for help output
const Usage = `draw                      turn over the next card
build <idx|u>             move a card to its foundation
move <idx> <size> <dst>   move cards between columns
move u <dst>              move the waste card onto a column
quit                      leave the game`

// Parse turns a line of input into a Command
func Parse(line string) (Command, error) {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}

	parse, ok := commands[parts[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknown, parts[0])
	}
	return parse(parts[1:])
}

func parseBare(kind Kind) parser {
	return func(args []string) (Command, error) {
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: takes no arguments", ErrUsage)
		}
		return Command{Kind: kind}, nil
	}
}

func parseDraw(args []string) (Command, error) {
	if len(args) != 0 {
		return Command{}, fmt.Errorf("%w: usage: draw", ErrUsage)
	}
	return play(klondike.Draw()), nil
}

func parseBuild(args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, fmt.Errorf("%w: usage: build <idx|u>", ErrUsage)
	}
	if args[0] == waste {
		return play(klondike.BuildFoundation(klondike.WasteTop())), nil
	}

	idx, err := number("idx", args[0])
	if err != nil {
		return Command{}, err
	}
	return play(klondike.BuildFoundation(klondike.TableauBottom(idx))), nil
}

func parseMove(args []string) (Command, error) {
	switch {
	case len(args) == 2 && args[0] == waste:
		dst, err := number("dst", args[1])
		if err != nil {
			return Command{}, err
		}
		return play(klondike.BuildTableau(klondike.WasteTop(), dst)), nil

	case len(args) == 3:
		idx, err := number("idx", args[0])
		if err != nil {
			return Command{}, err
		}
		size, err := number("size", args[1])
		if err != nil {
			return Command{}, err
		}
		dst, err := number("dst", args[2])
		if err != nil {
			return Command{}, err
		}
		return play(klondike.BuildTableau(klondike.TableauRun(idx, size), dst)), nil
	}
	return Command{}, fmt.Errorf("%w: usage: move <idx> <size> <dst> | move u <dst>", ErrUsage)
}

// number parses a non-negative integer argument. Range checks belong to the
// game, which reports an out-of-range column as a failed move.
func number(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number, got %q", ErrUsage, name, s)
	}
	return n, nil
}

func play(a klondike.Action) Command {
	return Command{Kind: Play, Action: a}
}
