package klondike

import "fmt"

// ActionKind identifies the kind of move
type ActionKind uint8

const (
	ActionDraw ActionKind = iota
	ActionBuildFoundation
	ActionBuildTableau
)

func (k ActionKind) String() string {
	switch k {
	case ActionDraw:
		return "draw"
	case ActionBuildFoundation:
		return "build_foundation"
	case ActionBuildTableau:
		return "build_tableau"
	}
	return "unknown"
}

// Pile says where a moved card comes from
type Pile uint8

const (
	FromWaste Pile = iota
	FromTableau
)

// Source locates the card, or run of cards, an action moves. Index selects
// the tableau when Pile is FromTableau; Size is the length of the run for
// tableau-to-tableau moves and is ignored otherwise.
type Source struct {
	Pile  Pile
	Index int
	Size  int
}

// WasteTop is the top card of the waste
func WasteTop() Source {
	return Source{Pile: FromWaste}
}

// TableauBottom is the exposed bottom card of tableau index
func TableauBottom(index int) Source {
	return Source{Pile: FromTableau, Index: index, Size: 1}
}

// TableauRun is the last size upturned cards of tableau index
func TableauRun(index, size int) Source {
	return Source{Pile: FromTableau, Index: index, Size: size}
}

// Action is a single move requested of a Game
type Action struct {
	Kind ActionKind
	From Source
	To   int // destination tableau for ActionBuildTableau
}

// Draw turns the next card of the draw pile onto the waste
func Draw() Action {
	return Action{Kind: ActionDraw}
}

// BuildFoundation moves a card onto the foundation of its suit
func BuildFoundation(from Source) Action {
	return Action{Kind: ActionBuildFoundation, From: from}
}

// BuildTableau moves a card or run onto tableau to
func BuildTableau(from Source, to int) Action {
	return Action{Kind: ActionBuildTableau, From: from, To: to}
}

// String renders the action in the interactive command grammar
// ("draw", "build u", "build 3", "move u 4", "move 1 2 4").
func (a Action) String() string {
	switch a.Kind {
	case ActionDraw:
		return "draw"
	case ActionBuildFoundation:
		if a.From.Pile == FromWaste {
			return "build u"
		}
		return fmt.Sprintf("build %d", a.From.Index)
	case ActionBuildTableau:
		if a.From.Pile == FromWaste {
			return fmt.Sprintf("move u %d", a.To)
		}
		return fmt.Sprintf("move %d %d %d", a.From.Index, a.From.Size, a.To)
	}
	return "unknown"
}
