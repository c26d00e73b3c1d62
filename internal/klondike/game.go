package klondike

import (
	"slices"

	"github.com/lox/klondike/cards"
)

// Game is one Klondike deal. A Game is not safe for concurrent use; the
// session layer serializes access to it.
type Game struct {
	draw        *cards.Deck
	waste       *cards.Deck
	foundations Foundations
	tableaus    [TableauCount]tableau
}

// New shuffles a standard deck with src and deals it: tableau i receives
// i+1 cards with only the last one face up, the remaining 24 cards form the
// draw pile.
func New(src cards.Source) *Game {
	deck := cards.Standard52()
	deck.Shuffle(src)
	return Deal(deck)
}

// Deal lays out an already ordered deck. Cards are dealt from the top.
func Deal(deck *cards.Deck) *Game {
	var tableaus [TableauCount]tableau
	for i := range tableaus {
		tableaus[i] = newTableau(deck.DrawN(i + 1))
	}

	return &Game{
		draw:     deck,
		waste:    cards.NewDeck(),
		tableaus: tableaus,
	}
}

// Won reports whether all four foundations are complete
func (g *Game) Won() bool {
	return g.foundations.Complete()
}

// Snapshot renders the current state. The result shares no memory with the
// game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		DrawPileSize: g.draw.Len(),
		WasteSize:    g.waste.Len(),
		Foundations:  g.foundations,
	}
	if top, ok := g.waste.Peek(); ok {
		s.WasteTop = &top
	}
	for i := range g.tableaus {
		s.Tableaus[i] = g.tableaus[i].view()
	}
	return s
}

// Apply validates and performs a single action. A Failed outcome leaves the
// game untouched. Once the game is won every further action fails.
func (g *Game) Apply(a Action) Outcome {
	if g.Won() {
		return failed(ReasonAlreadyWon)
	}

	switch a.Kind {
	case ActionDraw:
		return g.drawCard()
	case ActionBuildFoundation:
		return g.buildFoundation(a.From)
	case ActionBuildTableau:
		return g.buildTableau(a.From, a.To)
	}
	return failed(ReasonUnknownAction)
}

func (g *Game) drawCard() Outcome {
	if g.draw.IsEmpty() {
		// Turn the waste over: the card that went on it first comes up next.
		recycled := g.waste.DrawAll()
		slices.Reverse(recycled)
		g.draw.PutBottomN(recycled...)
	}
	if c, ok := g.draw.Draw(); ok {
		g.waste.PutTop(c)
	}
	return ongoing()
}

func (g *Game) buildFoundation(from Source) Outcome {
	var (
		c  cards.Card
		ok bool
	)
	switch from.Pile {
	case FromWaste:
		c, ok = g.waste.Peek()
	case FromTableau:
		if validTableau(from.Index) {
			c, ok = g.tableaus[from.Index].bottom()
		}
	}
	if !ok {
		return failed(ReasonNoSourceCard)
	}
	if !g.foundations.Accepts(c) {
		return failed(ReasonInvalidRank)
	}

	g.foundations[c.Suit] = c.Rank
	if from.Pile == FromWaste {
		g.waste.Draw()
	} else {
		g.tableaus[from.Index].removeBottom()
	}

	if g.foundations.Complete() {
		return victory()
	}
	return ongoing()
}

func (g *Game) buildTableau(from Source, to int) Outcome {
	joint, ok := g.joint(from, to)
	if !validTableau(to) {
		return failed(ReasonInvalidDestination)
	}
	if !ok {
		return failed(ReasonInvalidSource)
	}

	dst := &g.tableaus[to]
	if !fits(joint, dst) {
		return failed(ReasonInvalidTarget)
	}

	var run []cards.Card
	if from.Pile == FromWaste {
		c, _ := g.waste.Draw()
		run = []cards.Card{c}
	} else {
		run = g.tableaus[from.Index].takeUpturned(from.Size)
	}
	dst.addUpturned(run)
	return ongoing()
}

// joint returns the leading card of the cards from would move onto tableau to
func (g *Game) joint(from Source, to int) (cards.Card, bool) {
	switch from.Pile {
	case FromWaste:
		return g.waste.Peek()
	case FromTableau:
		if !validTableau(from.Index) || from.Index == to {
			return cards.Card{}, false
		}
		src := &g.tableaus[from.Index]
		if from.Size < 1 || from.Size > src.upturned {
			return cards.Card{}, false
		}
		return src.upturnedAt(src.upturned - from.Size)
	}
	return cards.Card{}, false
}

// fits reports whether joint may be placed on dst: a King on an empty
// column, otherwise one rank lower and of the other color.
func fits(joint cards.Card, dst *tableau) bool {
	bottom, ok := dst.bottom()
	if !ok {
		return joint.Rank == cards.King
	}
	return joint.Color() != bottom.Color() && joint.Rank+1 == bottom.Rank
}

func validTableau(i int) bool {
	return i >= 0 && i < TableauCount
}
