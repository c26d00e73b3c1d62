package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Ace, Spades), "A♠"},
		{NewCard(8, Hearts), "8♥"},
		{NewCard(10, Clubs), "10♣"},
		{NewCard(Jack, Clubs), "J♣"},
		{NewCard(Queen, Hearts), "Q♥"},
		{NewCard(King, Diamonds), "K♦"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.card.String())
	}
}

func TestSuitColor(t *testing.T) {
	assert.Equal(t, Red, Hearts.Color())
	assert.Equal(t, Red, Diamonds.Color())
	assert.Equal(t, Black, Clubs.Color())
	assert.Equal(t, Black, Spades.Color())
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"Ah", NewCard(Ace, Hearts)},
		{"10s", NewCard(10, Spades)},
		{"Td", NewCard(10, Diamonds)},
		{"kc", NewCard(King, Clubs)},
		{"Q♥", NewCard(Queen, Hearts)},
		{"7diamonds", Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCard(tt.in)
			if tt.want == (Card{}) {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardRejectsBadRanks(t *testing.T) {
	for _, in := range []string{"0h", "14s", "257h", "Xd", "h"} {
		_, err := ParseCard(in)
		assert.Error(t, err, in)
	}
}

func TestParseSuitNames(t *testing.T) {
	for _, suit := range Suits {
		got, err := ParseSuit(suit.Name())
		require.NoError(t, err)
		assert.Equal(t, suit, got)
	}
}
