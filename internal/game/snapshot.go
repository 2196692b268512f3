// internal/game/snapshot.go
package game

import "math/rand"

// Phase tracks where a game is in its lifecycle.
type Phase string

const (
	PhaseDealing  Phase = "DEALING"
	PhaseBidding  Phase = "BIDDING"
	PhasePlaying  Phase = "PLAYING"
	PhaseScoring  Phase = "SCORING"
	PhaseGameOver Phase = "GAME_OVER"
)

// PlayerState is one seat's game state. Seat order is fixed at creation;
// seats 0 and 2 form team 1, seats 1 and 3 form team 2.
type PlayerState struct {
	ID     string `json:"id"`
	Hand   []Card `json:"hand"`
	TeamID int    `json:"teamId"`
}

// TeamState accumulates a team's tricks for the current round and its
// running score across rounds.
type TeamState struct {
	TricksWon int `json:"tricksWon"`
	Score     int `json:"score"`
}

// GameSnapshot is the engine's entire state. It is a plain value graph:
// the reducer copies it wholesale on every accepted intent, and the codec
// serializes it verbatim into the room record.
type GameSnapshot struct {
	Players []PlayerState      `json:"players"`
	Teams   map[int]*TeamState `json:"teams"`

	// Deck holds the undealt remainder. With four players and 52 cards it is
	// always empty after the deal; it stays in the model for variants that
	// deal short.
	Deck []Card `json:"deck"`

	TrumpSuit             Suit   `json:"trumpSuit,omitempty"`
	CurrentPlayerIndex    int    `json:"currentPlayerIndex"`
	TrickStartPlayerIndex *int   `json:"trickStartPlayerIndex,omitempty"`
	Phase                 Phase  `json:"phase"`
	Trick                 []Card `json:"trick"`
	HighestBid            int    `json:"highestBid,omitempty"`
	BidderID              string `json:"bidderId,omitempty"`
}

// newSnapshot deals a fresh 13-card hand to each of the four player ids,
// in seat order, from a deck shuffled with r.
func newSnapshot(playerIDs []string, r *rand.Rand) *GameSnapshot {
	deck := NewDeck()
	shuffle(deck, r)

	players := make([]PlayerState, len(playerIDs))
	per := len(deck) / len(playerIDs)
	for i, id := range playerIDs {
		hand := make([]Card, per)
		copy(hand, deck[i*per:(i+1)*per])
		players[i] = PlayerState{
			ID:     id,
			Hand:   hand,
			TeamID: i%2 + 1,
		}
	}

	return &GameSnapshot{
		Players:            players,
		Teams:              map[int]*TeamState{1: {}, 2: {}},
		Deck:               []Card{},
		CurrentPlayerIndex: 0,
		Phase:              PhaseDealing,
		Trick:              []Card{},
	}
}

// Clone returns a fully independent deep copy of the snapshot.
func (s *GameSnapshot) Clone() *GameSnapshot {
	c := *s

	c.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)
		c.Players[i] = PlayerState{ID: p.ID, Hand: hand, TeamID: p.TeamID}
	}

	c.Teams = make(map[int]*TeamState, len(s.Teams))
	for id, t := range s.Teams {
		tc := *t
		c.Teams[id] = &tc
	}

	c.Deck = make([]Card, len(s.Deck))
	copy(c.Deck, s.Deck)

	c.Trick = make([]Card, len(s.Trick))
	copy(c.Trick, s.Trick)

	if s.TrickStartPlayerIndex != nil {
		idx := *s.TrickStartPlayerIndex
		c.TrickStartPlayerIndex = &idx
	}
	return &c
}

// playerIndex returns the seat of the given player id, or -1 if unknown.
func (s *GameSnapshot) playerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// PlayerIDs returns the seat ids in seat order.
func (s *GameSnapshot) PlayerIDs() []string {
	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	return ids
}
