package cards

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit identifies one of the four French suits. The order matches the
// foundation order used throughout the engine.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in foundation order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Color is the color of a suit
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Color returns the color of the suit
func (s Suit) Color() Color {
	switch s {
	case Hearts, Diamonds:
		return Red
	default:
		return Black
	}
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s <= Spades
}

// String returns the suit symbol (e.g. "♥")
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Name returns the lowercase suit name used on the wire (e.g. "hearts")
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	}
	return "unknown"
}

// ParseSuit accepts a suit name, its initial or its symbol
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "hearts", "h", "♥":
		return Hearts, nil
	case "diamonds", "d", "♦":
		return Diamonds, nil
	case "clubs", "c", "♣":
		return Clubs, nil
	case "spades", "s", "♠":
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit: %q", s)
}

// Rank is a card rank from Ace (1) to King (13)
type Rank uint8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Valid reports whether r is between Ace and King
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// String returns "A", "2".."10", "J", "Q" or "K"
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if !r.Valid() {
		return "?"
	}
	return strconv.Itoa(int(r))
}

// ParseRank parses the rank part of a card string
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "T":
		return 10, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Ace) || n > int(King) {
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
	return Rank(n), nil
}

// Card is an immutable playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card has a legal rank and suit
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Color returns the color of the card's suit
func (c Card) Color() Color {
	return c.Suit.Color()
}

// String returns the string representation (e.g. "Q♥", "10♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses strings like "Qh", "10s", "Td" or "A♠" into a Card
func ParseCard(s string) (Card, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	suit, err := ParseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card string %q: %w", s, err)
	}
	rank, err := ParseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card string %q: %w", s, err)
	}

	return NewCard(rank, suit), nil
}

// MustParseCard is like ParseCard but panics on error. Intended for tests
// and fixed tables.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
