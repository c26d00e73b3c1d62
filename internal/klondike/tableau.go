package klondike

import (
	"slices"

	"github.com/lox/klondike/cards"
)

// TableauCount is the number of tableau columns in a deal
const TableauCount = 7

// tableau is one column: a concealed prefix followed by upturned cards.
// pile[len-1] is the exposed bottom card; the last upturned entries of pile
// are face up.
type tableau struct {
	pile     []cards.Card
	upturned int
}

// newTableau deals pile (deepest card first) with its last card face up
func newTableau(pile []cards.Card) tableau {
	t := tableau{pile: pile}
	t.revealIfNeeded()
	return t
}

func (t *tableau) concealed() int {
	return len(t.pile) - t.upturned
}

// exposed returns a copy of the upturned cards, deepest first
func (t *tableau) exposed() []cards.Card {
	if t.upturned == 0 {
		return nil
	}
	return slices.Clone(t.pile[t.concealed():])
}

// bottom returns the exposed card that other cards are built on
func (t *tableau) bottom() (cards.Card, bool) {
	if t.upturned == 0 {
		return cards.Card{}, false
	}
	return t.pile[len(t.pile)-1], true
}

// upturnedAt returns the i-th upturned card counting from the deepest one
func (t *tableau) upturnedAt(i int) (cards.Card, bool) {
	if i < 0 || i >= t.upturned {
		return cards.Card{}, false
	}
	return t.pile[t.concealed()+i], true
}

// revealIfNeeded turns the new bottom card face up once the upturned run is
// gone.
func (t *tableau) revealIfNeeded() {
	if t.upturned == 0 && len(t.pile) > 0 {
		t.upturned = 1
	}
}

// takeUpturned removes the last n upturned cards and returns them in pile
// order. Callers check n against upturned first.
func (t *tableau) takeUpturned(n int) []cards.Card {
	if n > t.upturned {
		panic("klondike: taking more cards than are upturned")
	}
	cut := len(t.pile) - n
	run := slices.Clone(t.pile[cut:])
	t.pile = t.pile[:cut]
	t.upturned -= n
	t.revealIfNeeded()
	return run
}

func (t *tableau) addUpturned(run []cards.Card) {
	t.pile = append(t.pile, run...)
	t.upturned += len(run)
}

func (t *tableau) removeBottom() {
	if len(t.pile) == 0 {
		return
	}
	t.pile = t.pile[:len(t.pile)-1]
	if t.upturned > 0 {
		t.upturned--
	}
	t.revealIfNeeded()
}

func (t *tableau) view() TableauView {
	return TableauView{Concealed: t.concealed(), Exposed: t.exposed()}
}
