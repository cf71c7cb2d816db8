package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	d := NewDeck(NewSource(1))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[string]bool)
	ids := make(map[string]bool)
	for i := 0; i < 52; i++ {
		c := d.Draw()
		seen[c.String()] = true
		ids[c.ID] = true
	}
	assert.Len(t, seen, 52)
	assert.Len(t, ids, 52)
	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, 0, d.Reshuffles())
}

func TestDeck_Seeded(t *testing.T) {
	a := NewDeck(NewSource(42))
	b := NewDeck(NewSource(42))
	c := NewDeck(NewSource(43))

	var sameAB, sameAC = true, true
	for i := 0; i < 52; i++ {
		ca, cb, cc := a.Draw(), b.Draw(), c.Draw()
		if ca != cb {
			sameAB = false
		}
		if ca.String() != cc.String() {
			sameAC = false
		}
	}
	assert.True(t, sameAB)
	assert.False(t, sameAC)
}

func TestDeck_DrawAfterExhaustion(t *testing.T) {
	d := NewDeck(NewSource(7))
	for i := 0; i < 52; i++ {
		d.Draw()
	}

	c := d.Draw()
	assert.True(t, c.Valid())
	assert.Equal(t, 51, d.Remaining())
	assert.Equal(t, 1, d.Reshuffles())
}

func TestDeck_ShuffleIsUnbiased(t *testing.T) {
	// the ace of spades should land in the top quarter roughly a quarter of the time
	src := NewSource(99)
	const runs = 4000
	top := 0
	for i := 0; i < runs; i++ {
		d := NewDeck(src)
		for j := 0; j < 13; j++ {
			c := d.Draw()
			if c.Rank == Ace && c.Suit == Spades {
				top++
			}
		}
	}
	assert.InDelta(t, 0.25, float64(top)/runs, 0.04)
}

func TestNewStackedDeck(t *testing.T) {
	d := NewStackedDeck(NewSource(1), MustParseCards("A♠ K♥")...)
	assert.Equal(t, 2, d.Remaining())

	first := d.Draw()
	assert.Equal(t, "A♠", first.String())
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "K♥", d.Draw().String())

	d.Draw()
	assert.Equal(t, 51, d.Remaining())
	assert.Equal(t, 1, d.Reshuffles())
}
