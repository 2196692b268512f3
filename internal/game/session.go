// internal/game/session.go
package game

import (
	"fmt"
	"math/rand"
	"sync"
)

// DefaultTargetScore is the score a team must reach to win the match.
const DefaultTargetScore = 41

// Session wraps one authoritative snapshot and the subscribers observing
// it. All mutation flows through Dispatch; the mutex serializes intents so
// a second intent always observes the fully updated state.
type Session struct {
	mu          sync.Mutex
	engine      *Engine
	state       *GameSnapshot
	targetScore int

	subs      map[int]func(*GameSnapshot)
	nextSubID int
}

// NewSession deals a fresh game for the four seat ids in join order.
// Passing a nil random source uses a crypto-seeded shuffle.
func NewSession(playerIDs []string, targetScore int, r *rand.Rand) *Session {
	e := NewEngine(r)
	return &Session{
		engine:      e,
		state:       e.NewGame(playerIDs),
		targetScore: targetScore,
		subs:        make(map[int]func(*GameSnapshot)),
	}
}

// NewSessionFromSnapshot installs an already-built snapshot as the session's
// current state without replaying any transitions. Used when rehydrating a
// room from the shared cache; the snapshot is trusted as-is.
func NewSessionFromSnapshot(snap *GameSnapshot, targetScore int) *Session {
	return &Session{
		engine:      NewEngine(nil),
		state:       snap,
		targetScore: targetScore,
		subs:        make(map[int]func(*GameSnapshot)),
	}
}

// Dispatch runs the intent through the reducer. It returns true iff the
// intent was accepted, in which case every subscriber has been notified
// synchronously with the new snapshot before Dispatch returns.
func (s *Session) Dispatch(intent Intent) bool {
	s.mu.Lock()
	next := s.engine.Apply(s.state, intent)
	if next == s.state {
		s.mu.Unlock()
		return false
	}
	s.state = next

	fns := make([]func(*GameSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	snap := next.Clone()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return true
}

// Subscribe registers fn to be called with the new snapshot after every
// accepted intent. The returned function removes the subscription; callers
// re-subscribing after a hydrate must dispose the old handle first.
func (s *Session) Subscribe(fn func(*GameSnapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// State returns a deep copy of the current snapshot. Callers may inspect
// and serialize it freely without racing the session.
func (s *Session) State() *GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// BroadcastState returns the snapshot prepared for the process boundary:
// the undealt deck is stripped so clients never see anti-cheat data.
// Nothing else is redacted.
func (s *Session) BroadcastState() *GameSnapshot {
	snap := s.State()
	snap.Deck = []Card{}
	return snap
}

// TargetScore returns the score either team must reach to end the match.
func (s *Session) TargetScore() int {
	return s.targetScore
}

// IsGameOver reports whether either team has reached the target score.
// This is derived from scores alone, independent of the phase field.
func (s *Session) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isGameOverLocked()
}

func (s *Session) isGameOverLocked() bool {
	for _, t := range s.state.Teams {
		if t.Score >= s.targetScore {
			return true
		}
	}
	return false
}

// Winner returns the winning team id. When both teams cross the target on
// the same round the bidder's team takes the tie-break.
func (s *Session) Winner() (team int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isGameOverLocked() {
		return 0, false
	}

	t1, t2 := s.state.Teams[1], s.state.Teams[2]
	over1 := t1 != nil && t1.Score >= s.targetScore
	over2 := t2 != nil && t2.Score >= s.targetScore
	switch {
	case over1 && !over2:
		return 1, true
	case over2 && !over1:
		return 2, true
	}

	if idx := s.state.playerIndex(s.state.BidderID); idx >= 0 {
		return s.state.Players[idx].TeamID, true
	}
	// No bidder recorded; fall back to the higher score.
	if t2.Score > t1.Score {
		return 2, true
	}
	return 1, true
}

// CurrentPlayer returns the seat whose turn it is. An out-of-range index
// means the snapshot was corrupted upstream and is reported as an error
// rather than papered over.
func (s *Session) CurrentPlayer() (PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.CurrentPlayerIndex
	if idx < 0 || idx >= len(s.state.Players) {
		return PlayerState{}, fmt.Errorf("current player index %d out of range [0,%d): game state corrupted", idx, len(s.state.Players))
	}
	p := s.state.Players[idx]
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	p.Hand = hand
	return p, nil
}
