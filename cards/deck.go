package cards

// Source is a 64-bit random generator. *math/rand/v2.Rand satisfies it, so
// tests can inject a fixed-seed generator for reproducible deals.
type Source interface {
	Uint64() uint64
}

// Deck is an ordered, double-ended pile of cards. The top of the deck is the
// end cards are drawn from.
type Deck struct {
	cards []Card // cards[len-1] is the top
}

// NewDeck creates a deck holding cards, listed top to bottom
func NewDeck(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, 0, len(cards))}
	d.PutBottomN(cards...)
	return d
}

// Standard52 returns an unshuffled 52-card deck. The Ace of Hearts is on top,
// followed by the rest of the hearts, then diamonds, clubs and spades.
func Standard52() *Deck {
	all := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			all = append(all, NewCard(rank, suit))
		}
	}
	return NewDeck(all...)
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	top := len(d.cards) - 1
	c := d.cards[top]
	d.cards = d.cards[:top]
	return c, true
}

// DrawN removes n cards and returns them in the order they were drawn.
// It returns nil when fewer than n cards remain.
func (d *Deck) DrawN(n int) []Card {
	if n < 0 || n > len(d.cards) {
		return nil
	}
	drawn := make([]Card, 0, n)
	for range n {
		c, _ := d.Draw()
		drawn = append(drawn, c)
	}
	return drawn
}

// DrawAll empties the deck, returning its cards top to bottom
func (d *Deck) DrawAll() []Card {
	return d.DrawN(len(d.cards))
}

// Peek returns the top card without removing it
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// PeekN returns up to n cards from the top, top first
func (d *Deck) PeekN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Card, 0, max(n, 0))
	for i := len(d.cards) - 1; i >= len(d.cards)-n; i-- {
		out = append(out, d.cards[i])
	}
	return out
}

// PutTop places a card on top of the deck
func (d *Deck) PutTop(c Card) {
	d.cards = append(d.cards, c)
}

// PutTopN places cards on top so that cards[0] becomes the new top
func (d *Deck) PutTopN(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		d.PutTop(cards[i])
	}
}

// PutBottom slides a card under the deck
func (d *Deck) PutBottom(c Card) {
	d.cards = append(d.cards, Card{})
	copy(d.cards[1:], d.cards)
	d.cards[0] = c
}

// PutBottomN slides cards under the deck one at a time, so the last card
// ends up at the very bottom.
func (d *Deck) PutBottomN(cards ...Card) {
	if len(cards) == 0 {
		return
	}
	merged := make([]Card, 0, len(d.cards)+len(cards))
	for i := len(cards) - 1; i >= 0; i-- {
		merged = append(merged, cards[i])
	}
	d.cards = append(merged, d.cards...)
}

// Cards returns a copy of the deck, top to bottom
func (d *Deck) Cards() []Card {
	return d.PeekN(len(d.cards))
}

// Clone returns an independent copy of the deck
func (d *Deck) Clone() *Deck {
	cp := make([]Card, len(d.cards))
	copy(cp, d.cards)
	return &Deck{cards: cp}
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle(src Source) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := int(uniform(src, uint64(i+1)))
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// uniform returns an unbiased value in [0, n) by rejecting the low values
// that would make the modulo uneven.
func uniform(src Source, n uint64) uint64 {
	threshold := -n % n
	for {
		if v := src.Uint64(); v >= threshold {
			return v % n
		}
	}
}
