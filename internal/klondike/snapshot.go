package klondike

import "github.com/lox/klondike/cards"

// TableauView is the observable part of a tableau: how many cards are face
// down and the face-up run, deepest first.
type TableauView struct {
	Concealed int
	Exposed   []cards.Card
}

// Len returns the number of cards in the column
func (v TableauView) Len() int {
	return v.Concealed + len(v.Exposed)
}

// Bottom returns the exposed card at the end of the column
func (v TableauView) Bottom() (cards.Card, bool) {
	if len(v.Exposed) == 0 {
		return cards.Card{}, false
	}
	return v.Exposed[len(v.Exposed)-1], true
}

// Snapshot is a complete rendering of a game as seen by players. It is
// built fresh for every observer fan-out and must be treated as read-only.
type Snapshot struct {
	DrawPileSize int
	WasteSize    int
	WasteTop     *cards.Card
	Foundations  Foundations
	Tableaus     [TableauCount]TableauView
}

// CardCount returns the number of cards the snapshot accounts for. For any
// reachable game it is 52.
func (s Snapshot) CardCount() int {
	n := s.DrawPileSize + s.WasteSize + s.Foundations.Total()
	for _, t := range s.Tableaus {
		n += t.Len()
	}
	return n
}

// Won reports whether every foundation is complete
func (s Snapshot) Won() bool {
	return s.Foundations.Complete()
}
