package game

// Action is a basic strategy recommendation.
type Action int

const (
	Undetermined Action = iota
	Hit
	Stand
	Double
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	}
	return "—"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Advise maps the player's hand and the dealer's up-card to an action using
// a fixed basic strategy chart. A zero up-card or an empty hand yields
// Undetermined.
func Advise(player []Card, up Card, canDouble bool) Action {
	if len(player) == 0 || !up.Valid() {
		return Undetermined
	}

	total := Evaluate(player)
	dealer := up.Rank.Value()

	if total.Soft {
		return adviseSoft(total.Value, dealer, canDouble)
	}
	return adviseHard(total.Value, dealer, canDouble)
}

func between(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

func doubleOr(canDouble, cond bool, otherwise Action) Action {
	if canDouble && cond {
		return Double
	}
	return otherwise
}

func adviseSoft(total, dealer int, canDouble bool) Action {
	switch {
	case total == 17:
		return doubleOr(canDouble, between(dealer, 3, 6), Hit)
	case total == 15 || total == 16:
		return doubleOr(canDouble, between(dealer, 4, 6), Hit)
	case total == 13 || total == 14:
		return doubleOr(canDouble, between(dealer, 5, 6), Hit)
	case total < 17:
		return Hit
	case total == 18:
		if canDouble && between(dealer, 3, 6) {
			return Double
		}
		// 9, 10 and A hit here even when a double is unavailable.
		if dealer == 2 || dealer == 7 || dealer == 8 {
			return Stand
		}
		return Hit
	default:
		return Stand
	}
}

func adviseHard(total, dealer int, canDouble bool) Action {
	switch {
	case total <= 8:
		return Hit
	case total == 9:
		return doubleOr(canDouble, between(dealer, 3, 6), Hit)
	case total == 10:
		return doubleOr(canDouble, between(dealer, 2, 9), Hit)
	case total == 11:
		return doubleOr(canDouble, dealer != 11, Hit)
	case total == 12:
		if between(dealer, 4, 6) {
			return Stand
		}
		return Hit
	case total <= 16:
		if between(dealer, 2, 6) {
			return Stand
		}
		return Hit
	default:
		return Stand
	}
}
