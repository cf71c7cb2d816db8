package game

import (
	"fmt"
	"strings"
)

type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

func (s Suit) MarshalText() ([]byte, error) {
	if s < Spades || s > Clubs {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts the suit symbol or its initial letter.
func (s *Suit) UnmarshalText(text []byte) error {
	in := string(text)
	for _, candidate := range suits {
		if in == candidate.String() {
			*s = candidate
			return nil
		}
	}
	switch strings.ToLower(in) {
	case "s":
		*s = Spades
	case "h":
		*s = Hearts
	case "d":
		*s = Diamonds
	case "c":
		*s = Clubs
	default:
		return fmt.Errorf("unknown suit %q", in)
	}
	return nil
}

type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = []string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return rankNames[r]
}

// MarshalText writes the rank name. The zero rank, used by the zero Card,
// encodes as an empty string.
func (r Rank) MarshalText() ([]byte, error) {
	if r == 0 {
		return []byte{}, nil
	}
	if r < Ace || r > King {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = 0
		return nil
	}
	in := string(text)
	if strings.EqualFold(in, "T") {
		in = "10"
	}
	for candidate := Ace; candidate <= King; candidate++ {
		if strings.EqualFold(rankNames[candidate], in) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", in)
}

// Value is the blackjack value of the rank with an Ace counted as 11.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// Card is immutable. ID only keys the card for display and never affects play.
type Card struct {
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
	ID   string `json:"id"`
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Valid reports whether c holds a real rank; the zero Card means "no card".
func (c Card) Valid() bool {
	return c.Rank >= Ace && c.Rank <= King
}

// ParseCard reads "A♠", "10h", "Kd" or a bare rank such as "7". A bare rank
// is given the spade suit.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	suit := Spades
	for _, candidate := range suits {
		if rest, ok := strings.CutSuffix(s, candidate.String()); ok {
			suit, s = candidate, rest
			break
		}
	}
	if len(s) > 1 {
		switch strings.ToLower(s[len(s)-1:]) {
		case "s":
			suit, s = Spades, s[:len(s)-1]
		case "h":
			suit, s = Hearts, s[:len(s)-1]
		case "d":
			suit, s = Diamonds, s[:len(s)-1]
		case "c":
			suit, s = Clubs, s[:len(s)-1]
		}
	}

	switch strings.ToUpper(s) {
	case "T":
		s = "10"
	case "1":
		s = "A"
	}
	for r := Ace; r <= King; r++ {
		if strings.EqualFold(rankNames[r], s) {
			return Card{Rank: r, Suit: suit}, nil
		}
	}
	return Card{}, fmt.Errorf("unknown rank %q", s)
}

// ParseCards splits on commas and whitespace.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals known to be valid.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func formatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
