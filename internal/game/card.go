// internal/game/card.go
package game

import "math/rand"

// Suit is one of the four standard suits.
type Suit string

const (
	Spades   Suit = "SPADES"
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
)

// Suits lists every suit in a stable order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// ValidSuit reports whether s is one of the four suit values.
func ValidSuit(s Suit) bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}

// Rank is a card rank, "A" high down to "2".
type Rank string

// Ranks lists every rank from strongest to weakest.
var Ranks = []Rank{"A", "K", "Q", "J", "10", "9", "8", "7", "6", "5", "4", "3", "2"}

// rankOrder maps a rank to its strength; higher wins. Unknown ranks map to 0.
var rankOrder = map[Rank]int{
	"A": 14, "K": 13, "Q": 12, "J": 11, "10": 10, "9": 9,
	"8": 8, "7": 7, "6": 6, "5": 5, "4": 4, "3": 3, "2": 2,
}

// Card is an immutable value type; two cards are equal iff suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewDeck returns all 52 cards in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// shuffle performs a Fisher–Yates shuffle using the supplied source so that
// deals are reproducible under test.
func shuffle(deck []Card, r *rand.Rand) {
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
