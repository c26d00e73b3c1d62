package cards

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(s string) Card { return MustParseCard(s) }

func TestStandard52(t *testing.T) {
	d := Standard52()
	require.Equal(t, 52, d.Len())

	top, ok := d.Peek()
	require.True(t, ok)
	assert.Equal(t, c("Ah"), top)

	seen := make(map[Card]bool)
	for _, card := range d.Cards() {
		assert.True(t, card.Valid())
		assert.False(t, seen[card], "duplicate %s", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckDraw(t *testing.T) {
	d := NewDeck(c("Ah"), c("2h"), c("3h"), c("4h"), c("5h"))

	got, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, c("Ah"), got)
	assert.Equal(t, []Card{c("2h"), c("3h"), c("4h")}, d.DrawN(3))
	assert.Equal(t, 1, d.Len())

	assert.Nil(t, d.DrawN(2), "cannot draw more than remain")
	assert.Equal(t, []Card{c("5h")}, d.DrawAll())
	assert.True(t, d.IsEmpty())

	_, ok = d.Draw()
	assert.False(t, ok)
	_, ok = d.Peek()
	assert.False(t, ok)
}

func TestDeckPutTop(t *testing.T) {
	d := NewDeck(c("Ah"), c("2h"), c("3h"), c("4h"))

	d.PutTop(c("5h"))
	assert.Equal(t, []Card{c("5h"), c("Ah"), c("2h"), c("3h"), c("4h")}, d.Cards())

	d.PutTopN(c("As"), c("2s"))
	assert.Equal(t, []Card{c("As"), c("2s"), c("5h")}, d.PeekN(3))
	assert.Equal(t, 7, d.Len())
}

func TestDeckPutBottom(t *testing.T) {
	d := NewDeck(c("Ah"), c("2h"), c("3h"), c("4h"))

	d.PutBottom(c("5h"))
	assert.Equal(t, []Card{c("Ah"), c("2h"), c("3h"), c("4h"), c("5h")}, d.Cards())

	d.PutBottomN(c("As"), c("2s"))
	assert.Equal(t, []Card{c("Ah"), c("2h"), c("3h"), c("4h"), c("5h"), c("As"), c("2s")}, d.Cards())
}

func TestDeckPeekN(t *testing.T) {
	d := NewDeck(c("Ah"), c("2h"))
	assert.Equal(t, []Card{c("Ah"), c("2h")}, d.PeekN(5))
	assert.Empty(t, d.PeekN(0))
	assert.Equal(t, 2, d.Len(), "peek must not remove cards")
}

func TestDeckShuffleDeterministic(t *testing.T) {
	a := Standard52()
	b := Standard52()
	a.Shuffle(rand.New(rand.NewPCG(7, 11)))
	b.Shuffle(rand.New(rand.NewPCG(7, 11)))
	assert.Equal(t, a.Cards(), b.Cards())

	other := Standard52()
	other.Shuffle(rand.New(rand.NewPCG(8, 11)))
	assert.NotEqual(t, a.Cards(), other.Cards())
}

func TestDeckShufflePreservesCards(t *testing.T) {
	d := Standard52()
	d.Shuffle(rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, 52, d.Len())

	seen := make(map[Card]bool)
	for _, card := range d.Cards() {
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckClone(t *testing.T) {
	d := NewDeck(c("Ah"), c("2h"))
	cp := d.Clone()
	cp.PutTop(c("Ks"))
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 3, cp.Len())
}

func TestUniformStaysInRange(t *testing.T) {
	src := rand.New(rand.NewPCG(3, 4))
	for n := uint64(1); n < 60; n++ {
		for range 50 {
			assert.Less(t, uniform(src, n), n)
		}
	}
}
