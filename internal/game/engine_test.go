// internal/game/engine_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlayerIDs = []string{"p1", "p2", "p3", "p4"}

// setupDealtGame returns an engine with a fixed seed and a freshly dealt
// snapshot, so every run sees the same deal.
func setupDealtGame(t *testing.T) (*Engine, *GameSnapshot) {
	t.Helper()
	e := NewEngine(rand.New(rand.NewSource(42)))
	s := e.NewGame(testPlayerIDs)
	require.Len(t, s.Players, 4)
	return e, s
}

// assertCardConservation checks the 52-distinct-cards invariant across
// deck, hands and trick.
func assertCardConservation(t *testing.T, s *GameSnapshot) {
	t.Helper()
	seen := make(map[Card]bool, 52)
	total := 0
	add := func(cards []Card) {
		for _, c := range cards {
			assert.False(t, seen[c], "duplicate card %v", c)
			seen[c] = true
			total++
		}
	}
	add(s.Deck)
	add(s.Trick)
	for _, p := range s.Players {
		add(p.Hand)
	}
	assert.Equal(t, 52, total, "card count")
}

// firstLegalCard picks the lowest-index card the current player may play.
func firstLegalCard(t *testing.T, s *GameSnapshot) (string, Card) {
	t.Helper()
	p := s.Players[s.CurrentPlayerIndex]
	for _, c := range p.Hand {
		if CanPlayCard(s, p.ID, c) {
			return p.ID, c
		}
	}
	t.Fatalf("player %s has no legal card", p.ID)
	return "", Card{}
}

func TestFreshDeal(t *testing.T) {
	_, s := setupDealtGame(t)

	assert.Equal(t, PhaseDealing, s.Phase)
	assert.Empty(t, s.Deck, "all 52 cards are dealt in the four-player game")
	for i, p := range s.Players {
		assert.Len(t, p.Hand, 13)
		assert.Equal(t, i%2+1, p.TeamID, "teams alternate by seat")
	}
	assertCardConservation(t, s)
}

func TestRejectionReturnsSameReference(t *testing.T) {
	e, s := setupDealtGame(t)

	rejected := []Intent{
		PlaceBid{PlayerID: "p1", Value: 7}, // wrong phase
		PassBid{PlayerID: "p1"},            // wrong phase
		SetTrump{Suit: Spades},             // wrong phase, no bidder
		PlayCard{PlayerID: "p1", Card: s.Players[0].Hand[0]}, // wrong phase
		EndTrick{},
		EndRound{}, // no contract
	}
	for _, in := range rejected {
		assert.Same(t, s, e.Apply(s, in), "intent %T must be a no-op", in)
	}

	s = e.Apply(s, StartBidding{})
	require.Equal(t, PhaseBidding, s.Phase)

	bidding := []Intent{
		StartBidding{},                        // wrong phase now
		PlaceBid{PlayerID: "ghost", Value: 5}, // unknown player
		PlaceBid{PlayerID: "p1", Value: 1},    // below floor
		PlaceBid{PlayerID: "p1", Value: 14},   // above ceiling
		PassBid{PlayerID: "ghost"},            // unknown player
		SetTrump{Suit: Spades},                // no bidder yet
	}
	for _, in := range bidding {
		assert.Same(t, s, e.Apply(s, in), "intent %T must be a no-op", in)
	}

	s = e.Apply(s, PlaceBid{PlayerID: "p1", Value: 7})
	assert.Same(t, s, e.Apply(s, PlaceBid{PlayerID: "p2", Value: 7}), "bid must strictly exceed the standing bid")
	assert.Same(t, s, e.Apply(s, SetTrump{Suit: "MOONS"}), "invalid suit")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e, s := setupDealtGame(t)
	before := s.Clone()

	next := e.Apply(s, StartBidding{})
	require.NotSame(t, s, next)
	assert.Equal(t, before, s, "input snapshot must be untouched")
	assert.Equal(t, PhaseDealing, s.Phase)
	assert.Equal(t, PhaseBidding, next.Phase)
}

func TestBiddingFlow(t *testing.T) {
	e, s := setupDealtGame(t)
	s = e.Apply(s, StartBidding{})
	require.Equal(t, 0, s.CurrentPlayerIndex)

	s = e.Apply(s, PlaceBid{PlayerID: "p1", Value: 7})
	assert.Equal(t, 7, s.HighestBid)
	assert.Equal(t, "p1", s.BidderID)
	assert.Equal(t, 1, s.CurrentPlayerIndex)

	for _, want := range []struct {
		player  string
		nextIdx int
	}{{"p2", 2}, {"p3", 3}, {"p4", 0}} {
		s = e.Apply(s, PassBid{PlayerID: want.player})
		assert.Equal(t, want.nextIdx, s.CurrentPlayerIndex, "after %s passes", want.player)
	}

	s = e.Apply(s, SetTrump{Suit: Spades})
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, Spades, s.TrumpSuit)
	assert.Equal(t, 0, s.CurrentPlayerIndex, "play starts at the bidder's seat")
}

func TestEndToEndTrick(t *testing.T) {
	e, s := setupDealtGame(t)
	s = e.Apply(s, StartBidding{})
	s = e.Apply(s, PlaceBid{PlayerID: "p1", Value: 7})
	s = e.Apply(s, PassBid{PlayerID: "p2"})
	s = e.Apply(s, PassBid{PlayerID: "p3"})
	s = e.Apply(s, PassBid{PlayerID: "p4"})
	s = e.Apply(s, SetTrump{Suit: Spades})
	require.Equal(t, PhasePlaying, s.Phase)

	for i := 0; i < 4; i++ {
		id, card := firstLegalCard(t, s)
		next := e.Apply(s, PlayCard{PlayerID: id, Card: card})
		require.NotSame(t, s, next, "play %d by %s should be accepted", i, id)
		s = next
		assert.Len(t, s.Trick, i+1)
		assertCardConservation(t, s)
	}
	require.NotNil(t, s.TrickStartPlayerIndex)
	assert.Equal(t, 0, *s.TrickStartPlayerIndex, "bidder led the trick")

	s = e.Apply(s, EndTrick{})
	assert.Empty(t, s.Trick)
	assert.Nil(t, s.TrickStartPlayerIndex)
	totalTricks := s.Teams[1].TricksWon + s.Teams[2].TricksWon
	assert.Equal(t, 1, totalTricks, "exactly one team takes the trick")

	winnerTeam := 1
	if s.Teams[2].TricksWon == 1 {
		winnerTeam = 2
	}
	assert.Equal(t, winnerTeam, s.Players[s.CurrentPlayerIndex].TeamID, "winner leads the next trick")
	assertCardConservation(t, s)
}

func TestPlayCardEnforcesFollowSuit(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)))
	hearts5 := Card{Suit: Hearts, Rank: "5"}
	clubsA := Card{Suit: Clubs, Rank: "A"}
	s := testSnapshot(map[string][]Card{
		"p1": {{Suit: Hearts, Rank: "Q"}},
		"p2": {hearts5, clubsA},
	})
	s.TrumpSuit = Spades

	s = e.Apply(s, PlayCard{PlayerID: "p1", Card: Card{Suit: Hearts, Rank: "Q"}})
	require.Len(t, s.Trick, 1)

	assert.Same(t, s, e.Apply(s, PlayCard{PlayerID: "p2", Card: clubsA}), "must follow hearts")
	next := e.Apply(s, PlayCard{PlayerID: "p2", Card: hearts5})
	assert.NotSame(t, s, next)
}

func TestEndRoundScoresAccumulate(t *testing.T) {
	e, _ := setupDealtGame(t)

	s := testSnapshot(nil)
	s.Phase = PhaseScoring
	s.BidderID = "p1"
	s.HighestBid = 7
	s.Teams[1].TricksWon = 9
	s.Teams[2].TricksWon = 4

	s = e.Apply(s, EndRound{})
	require.Equal(t, PhaseScoring, s.Phase)
	assert.Equal(t, 90, s.Teams[1].Score)
	assert.Equal(t, 40, s.Teams[2].Score)

	// Second round with the other side holding the contract and going set.
	s.BidderID = "p2"
	s.HighestBid = 5
	s.Teams[1].TricksWon = 10
	s.Teams[2].TricksWon = 3

	s = e.Apply(s, EndRound{})
	assert.Equal(t, 190, s.Teams[1].Score, "scores add round over round")
	assert.Equal(t, -10, s.Teams[2].Score)
}

func TestResetGameRedeals(t *testing.T) {
	e, s := setupDealtGame(t)
	s = e.Apply(s, StartBidding{})
	s = e.Apply(s, PlaceBid{PlayerID: "p1", Value: 7})
	s.Teams[1].Score = 30
	s.Teams[2].Score = 20

	next := e.Apply(s, ResetGame{})
	require.NotSame(t, s, next)
	assert.Equal(t, PhaseDealing, next.Phase)
	assert.Equal(t, testPlayerIDs, next.PlayerIDs(), "same seats in the same order")
	assert.Zero(t, next.Teams[1].Score)
	assert.Zero(t, next.Teams[2].Score)
	assert.Zero(t, next.HighestBid)
	assert.Empty(t, next.BidderID)
	assertCardConservation(t, next)
}
