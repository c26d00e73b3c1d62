package klondike

import "github.com/lox/klondike/cards"

// Foundations holds the highest rank placed on each suit's foundation,
// indexed by cards.Suit. Zero means empty.
type Foundations [4]cards.Rank

// Of returns the foundation value for suit
func (f Foundations) Of(suit cards.Suit) cards.Rank {
	return f[suit]
}

// Accepts reports whether c is the next card for its foundation
func (f Foundations) Accepts(c cards.Card) bool {
	return c.Suit.Valid() && c.Rank == f[c.Suit]+1
}

// Complete reports whether every foundation reached the King
func (f Foundations) Complete() bool {
	for _, v := range f {
		if v != cards.King {
			return false
		}
	}
	return true
}

// Total returns the number of cards on all foundations
func (f Foundations) Total() int {
	n := 0
	for _, v := range f {
		n += int(v)
	}
	return n
}
