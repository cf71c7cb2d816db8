package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func up(rank string) Card {
	return MustParseCards(rank)[0]
}

func TestAdvise_Undetermined(t *testing.T) {
	assert.Equal(t, Undetermined, Advise(nil, up("7"), true))
	assert.Equal(t, Undetermined, Advise(MustParseCards("10 6"), Card{}, true))
	assert.Equal(t, "—", Undetermined.String())
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		player    string
		dealer    string
		canDouble bool
		want      Action
	}{
		// hard
		{"10 6", "7", true, Hit},
		{"10 6", "6", true, Stand},
		{"10 3", "2", false, Stand},
		{"3 5", "6", true, Hit},
		{"5 4", "3", true, Double},
		{"5 4", "3", false, Hit},
		{"5 4", "7", true, Hit},
		{"6 4", "9", true, Double},
		{"6 4", "10", true, Hit},
		{"6 4", "A", true, Hit},
		{"6 5", "10", true, Double},
		{"6 5", "A", true, Hit},
		{"6 5", "K", false, Hit},
		{"10 2", "4", true, Stand},
		{"10 2", "3", true, Hit},
		{"10 2", "7", true, Hit},
		{"10 7", "A", true, Stand},
		{"10 5 4", "10", false, Stand},

		// soft
		{"A 6", "5", true, Double},
		{"A 6", "3", true, Double},
		{"A 6", "2", true, Hit},
		{"A 6", "5", false, Hit},
		{"A 5", "4", true, Double},
		{"A 4", "3", true, Hit},
		{"A 3", "5", true, Double},
		{"A 2", "4", true, Hit},
		{"A A", "6", true, Hit},
		{"A 7", "3", true, Double},
		{"A 7", "6", false, Hit},
		{"A 7", "2", true, Stand},
		{"A 7", "7", true, Stand},
		{"A 7", "8", false, Stand},
		{"A 7", "9", true, Hit},
		{"A 7", "K", false, Hit},
		{"A 7", "A", true, Hit},
		{"A 8", "6", true, Stand},
		{"A 9", "A", true, Stand},
	}

	for _, tt := range tests {
		name := tt.player + " vs " + tt.dealer
		t.Run(name, func(t *testing.T) {
			got := Advise(MustParseCards(tt.player), up(tt.dealer), tt.canDouble)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvise_Deterministic(t *testing.T) {
	hand := MustParseCards("A 7")
	first := Advise(hand, up("9"), true)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Advise(hand, up("9"), true))
	}
}

func TestAdvise_AceDemotedIsHard(t *testing.T) {
	// A+9+6 is hard 16 once the ace drops to 1
	assert.Equal(t, Stand, Advise(MustParseCards("A 9 6"), up("5"), false))
	assert.Equal(t, Hit, Advise(MustParseCards("A 9 6"), up("8"), false))
}
