package game

import (
	"encoding/binary"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const deckSize = 52

// Source drives both the shuffle and card ids. *rand.ChaCha8 satisfies it.
type Source interface {
	rand.Source
	io.Reader
}

// NewSource returns a deterministic source for seed, or a time seeded one
// when seed is 0.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var key [32]byte
	x := uint64(seed)
	for i := 0; i < len(key); i += 8 {
		x += 0x9e3779b97f4a7c15
		binary.LittleEndian.PutUint64(key[i:], mix(x))
	}
	return rand.NewChaCha8(key)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Deck is a single 52-card deck consumed front to back. An empty deck
// replaces itself with a freshly shuffled one on the next Draw.
type Deck struct {
	cards      []Card
	src        Source
	rng        *rand.Rand
	reshuffles int
}

func NewDeck(src Source) *Deck {
	d := &Deck{
		src: src,
		rng: rand.New(src),
	}
	d.refill()
	return d
}

// NewStackedDeck deals cards in the given order before falling back to
// shuffled decks. Cards without an id are assigned one.
func NewStackedDeck(src Source, cards ...Card) *Deck {
	d := &Deck{
		src:   src,
		rng:   rand.New(src),
		cards: make([]Card, 0, len(cards)),
	}
	for _, c := range cards {
		if c.ID == "" {
			c.ID = d.newID(c)
		}
		d.cards = append(d.cards, c)
	}
	return d
}

func (d *Deck) refill() {
	d.cards = make([]Card, 0, deckSize)
	for _, suit := range suits {
		for rank := Ace; rank <= King; rank++ {
			c := Card{Rank: rank, Suit: suit}
			c.ID = d.newID(c)
			d.cards = append(d.cards, c)
		}
	}
	d.Shuffle()
}

func (d *Deck) newID(c Card) string {
	id, err := uuid.NewRandomFromReader(d.src)
	if err != nil {
		id = uuid.New()
	}
	return c.String() + "-" + id.String()
}

// Shuffle is a uniform Fisher-Yates permutation of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.refill()
		d.reshuffles++
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Reshuffles counts how many times an exhausted deck was replaced.
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}
