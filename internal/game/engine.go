// internal/game/engine.go
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Engine is the state transition reducer. Apply never panics and never
// mutates its input: a rejected intent returns the identical snapshot
// pointer (callers detect no-ops by identity), an accepted intent returns
// an independent deep copy with the mutation applied.
//
// The engine owns the random source used for dealing so that behavior is
// reproducible under test.
type Engine struct {
	rng *rand.Rand
}

// NewEngine builds an engine around the given random source. Passing nil
// seeds a uniform Fisher–Yates source from crypto/rand.
func NewEngine(r *rand.Rand) *Engine {
	if r == nil {
		var seed [8]byte
		if _, err := crand.Read(seed[:]); err == nil {
			r = rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
		} else {
			r = rand.New(rand.NewSource(1))
		}
	}
	return &Engine{rng: r}
}

// NewGame deals a fresh snapshot for the four seat ids in join order.
func (e *Engine) NewGame(playerIDs []string) *GameSnapshot {
	return newSnapshot(playerIDs, e.rng)
}

// Apply maps (snapshot, intent) to the next snapshot under strict rule
// validation. Wrong phase, unknown players, and rule violations all reject
// by returning s unchanged.
func (e *Engine) Apply(s *GameSnapshot, intent Intent) *GameSnapshot {
	switch in := intent.(type) {
	case StartBidding:
		if s.Phase != PhaseDealing {
			return s
		}
		next := s.Clone()
		next.Phase = PhaseBidding
		next.CurrentPlayerIndex = 0
		return next

	case PlaceBid:
		if s.Phase != PhaseBidding {
			return s
		}
		idx := s.playerIndex(in.PlayerID)
		if idx < 0 {
			return s
		}
		team := s.Teams[s.Players[idx].TeamID]
		if team == nil || !IsBidValid(in.Value, team.Score, s.HighestBid) {
			return s
		}
		next := s.Clone()
		next.HighestBid = in.Value
		next.BidderID = in.PlayerID
		next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
		return next

	case PassBid:
		if s.Phase != PhaseBidding || s.playerIndex(in.PlayerID) < 0 {
			return s
		}
		next := s.Clone()
		next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
		return next

	case SetTrump:
		if s.Phase != PhaseBidding || s.BidderID == "" || !ValidSuit(in.Suit) {
			return s
		}
		next := s.Clone()
		next.TrumpSuit = in.Suit
		next.Phase = PhasePlaying
		next.CurrentPlayerIndex = next.playerIndex(next.BidderID)
		return next

	case PlayCard:
		if s.Phase != PhasePlaying || len(s.Trick) >= len(s.Players) {
			return s
		}
		if !CanPlayCard(s, in.PlayerID, in.Card) {
			return s
		}
		next := s.Clone()
		idx := next.playerIndex(in.PlayerID)
		hand := next.Players[idx].Hand
		for i, c := range hand {
			if c == in.Card {
				next.Players[idx].Hand = append(hand[:i], hand[i+1:]...)
				break
			}
		}
		if len(next.Trick) == 0 {
			lead := next.CurrentPlayerIndex
			next.TrickStartPlayerIndex = &lead
		}
		next.Trick = append(next.Trick, in.Card)
		next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
		return next

	case EndTrick:
		if s.Phase != PhasePlaying || len(s.Trick) != len(s.Players) {
			return s
		}
		winnerID, winningTeam, ok := ResolveTrick(s)
		if !ok || s.Teams[winningTeam] == nil {
			return s
		}
		next := s.Clone()
		next.Teams[winningTeam].TricksWon++
		next.Trick = []Card{}
		next.TrickStartPlayerIndex = nil
		next.CurrentPlayerIndex = next.playerIndex(winnerID)
		return next

	case EndRound:
		if s.BidderID == "" || s.HighestBid == 0 || s.Teams[1] == nil || s.Teams[2] == nil {
			return s
		}
		tricks := map[int]int{1: s.Teams[1].TricksWon, 2: s.Teams[2].TricksWon}
		deltas, ok := ScoreDeltas(s.HighestBid, s.BidderID, tricks, s.Players)
		if !ok {
			return s
		}
		next := s.Clone()
		for team, delta := range deltas {
			next.Teams[team].Score += delta
		}
		next.Phase = PhaseScoring
		return next

	case ResetGame:
		return newSnapshot(s.PlayerIDs(), e.rng)
	}

	// Unknown or malformed intent.
	return s
}
