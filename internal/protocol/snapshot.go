package protocol

import (
	"github.com/lox/klondike/cards"
	"github.com/lox/klondike/internal/klondike"
)

// Card is the wire form of a card: {"rank":12,"suit":"hearts"}
type Card struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"`
}

// Foundation reports the top rank of one suit's foundation. Value is absent
// while the foundation is empty.
type Foundation struct {
	Suit  string `json:"suit"`
	Value *int   `json:"value,omitempty"`
}

// Tableau is one column: the number of face-down cards and the face-up run,
// deepest first.
type Tableau struct {
	DownfacedLen int    `json:"downfaced_len"`
	Upturned     []Card `json:"upturned"`
}

// Snapshot is the wire form of klondike.Snapshot
type Snapshot struct {
	DrawPileSize int          `json:"draw_pile_size"`
	WasteSize    int          `json:"waste_size"`
	WasteTop     *Card        `json:"waste_top,omitempty"`
	Foundations  []Foundation `json:"foundations"`
	Tableaus     []Tableau    `json:"tableaus"`
}

// suitByName accepts only the lowercase names written by CardFromCore
func suitByName(name string) (cards.Suit, bool) {
	for _, suit := range cards.Suits {
		if suit.Name() == name {
			return suit, true
		}
	}
	return 0, false
}

func CardFromCore(c cards.Card) Card {
	return Card{Rank: int(c.Rank), Suit: c.Suit.Name()}
}

func (c Card) toCore(path string) (cards.Card, error) {
	suit, ok := suitByName(c.Suit)
	if !ok {
		return cards.Card{}, invalidArgument(path+".suit", "unknown suit %q", c.Suit)
	}
	if c.Rank < int(cards.Ace) || c.Rank > int(cards.King) {
		return cards.Card{}, invalidArgument(path+".rank", "out of range: %d", c.Rank)
	}
	return cards.NewCard(cards.Rank(c.Rank), suit), nil
}

// SnapshotFromCore converts an engine snapshot to its wire form
func SnapshotFromCore(s klondike.Snapshot) Snapshot {
	out := Snapshot{
		DrawPileSize: s.DrawPileSize,
		WasteSize:    s.WasteSize,
		Foundations:  make([]Foundation, 0, len(cards.Suits)),
		Tableaus:     make([]Tableau, 0, klondike.TableauCount),
	}
	if s.WasteTop != nil {
		top := CardFromCore(*s.WasteTop)
		out.WasteTop = &top
	}
	for _, suit := range cards.Suits {
		f := Foundation{Suit: suit.Name()}
		if v := s.Foundations.Of(suit); v != 0 {
			value := int(v)
			f.Value = &value
		}
		out.Foundations = append(out.Foundations, f)
	}
	for _, t := range s.Tableaus {
		upturned := make([]Card, 0, len(t.Exposed))
		for _, c := range t.Exposed {
			upturned = append(upturned, CardFromCore(c))
		}
		out.Tableaus = append(out.Tableaus, Tableau{DownfacedLen: t.Concealed, Upturned: upturned})
	}
	return out
}

// ToCore validates a wire snapshot and converts it
func (s Snapshot) ToCore() (klondike.Snapshot, error) {
	out := klondike.Snapshot{
		DrawPileSize: s.DrawPileSize,
		WasteSize:    s.WasteSize,
	}
	if s.DrawPileSize < 0 || s.WasteSize < 0 {
		return klondike.Snapshot{}, invalidArgument("state", "pile sizes must not be negative")
	}

	if s.WasteTop != nil {
		top, err := s.WasteTop.toCore("state.waste_top")
		if err != nil {
			return klondike.Snapshot{}, err
		}
		out.WasteTop = &top
	}

	if len(s.Foundations) != len(cards.Suits) {
		return klondike.Snapshot{}, invalidArgument("state.foundations", "want %d entries, got %d", len(cards.Suits), len(s.Foundations))
	}
	seen := make(map[cards.Suit]bool, len(cards.Suits))
	for _, f := range s.Foundations {
		suit, ok := suitByName(f.Suit)
		if !ok || seen[suit] {
			return klondike.Snapshot{}, invalidArgument("state.foundations", "bad or repeated suit %q", f.Suit)
		}
		seen[suit] = true
		if f.Value == nil {
			continue
		}
		if *f.Value < int(cards.Ace) || *f.Value > int(cards.King) {
			return klondike.Snapshot{}, invalidArgument("state.foundations.value", "out of range: %d", *f.Value)
		}
		out.Foundations[suit] = cards.Rank(*f.Value)
	}

	if len(s.Tableaus) != klondike.TableauCount {
		return klondike.Snapshot{}, invalidArgument("state.tableaus", "want %d entries, got %d", klondike.TableauCount, len(s.Tableaus))
	}
	for i, t := range s.Tableaus {
		if t.DownfacedLen < 0 {
			return klondike.Snapshot{}, invalidArgument("state.tableaus.downfaced_len", "must not be negative")
		}
		view := klondike.TableauView{Concealed: t.DownfacedLen}
		for _, c := range t.Upturned {
			card, err := c.toCore("state.tableaus.upturned")
			if err != nil {
				return klondike.Snapshot{}, err
			}
			view.Exposed = append(view.Exposed, card)
		}
		out.Tableaus[i] = view
	}
	return out, nil
}
