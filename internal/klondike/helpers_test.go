package klondike

import (
	"testing"

	"github.com/lox/klondike/cards"
)

type column struct {
	down []string // deepest first
	up   []string // deepest first, last entry is the exposed bottom
}

type layout struct {
	draw        []string // top first
	waste       []string // top first
	foundations Foundations
	columns     [TableauCount]column
}

func parseCards(t *testing.T, ss []string) []cards.Card {
	t.Helper()
	if len(ss) == 0 {
		return nil
	}
	out := make([]cards.Card, len(ss))
	for i, s := range ss {
		c, err := cards.ParseCard(s)
		if err != nil {
			t.Fatalf("bad card in layout: %v", err)
		}
		out[i] = c
	}
	return out
}

// gameFrom builds a game in an arbitrary position for rule tests
func gameFrom(t *testing.T, l layout) *Game {
	t.Helper()

	g := &Game{
		draw:        cards.NewDeck(parseCards(t, l.draw)...),
		waste:       cards.NewDeck(parseCards(t, l.waste)...),
		foundations: l.foundations,
	}
	for i, col := range l.columns {
		pile := append(parseCards(t, col.down), parseCards(t, col.up)...)
		g.tableaus[i] = tableau{pile: pile, upturned: len(col.up)}
	}
	return g
}

func card(s string) cards.Card {
	return cards.MustParseCard(s)
}
