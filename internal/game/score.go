package game

const blackjack = 21

// Total is the best value of a hand under ace demotion.
type Total struct {
	Value int  `json:"value"`
	Soft  bool `json:"soft"`
}

func (t Total) Bust() bool {
	return t.Value > blackjack
}

// Evaluate counts every ace as 11, then demotes aces to 1 one at a time while
// the hand is over 21. The hand is soft if any ace is still worth 11.
func Evaluate(hand []Card) Total {
	score := 0
	aces := 0

	for _, card := range hand {
		score += card.Rank.Value()
		if card.Rank == Ace {
			aces++
		}
	}

	high := aces
	for score > blackjack && high > 0 {
		score -= 10
		high--
	}

	return Total{Value: score, Soft: high > 0}
}

func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && Evaluate(cards).Value == blackjack
}

func IsBust(cards []Card) bool {
	return Evaluate(cards).Bust()
}
