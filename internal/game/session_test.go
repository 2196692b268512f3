// internal/game/session_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(testPlayerIDs, DefaultTargetScore, rand.New(rand.NewSource(7)))
}

func TestDispatchAcceptAndReject(t *testing.T) {
	sess := newTestSession(t)

	assert.False(t, sess.Dispatch(PlaceBid{PlayerID: "p1", Value: 7}), "bid before bidding opens")
	assert.True(t, sess.Dispatch(StartBidding{}))
	assert.True(t, sess.Dispatch(PlaceBid{PlayerID: "p1", Value: 7}))
	assert.False(t, sess.Dispatch(PlaceBid{PlayerID: "p2", Value: 7}), "non-raising bid")

	st := sess.State()
	assert.Equal(t, 7, st.HighestBid)
	assert.Equal(t, "p1", st.BidderID)
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	sess := newTestSession(t)

	var got []*GameSnapshot
	unsubscribe := sess.Subscribe(func(s *GameSnapshot) {
		got = append(got, s)
	})

	require.True(t, sess.Dispatch(StartBidding{}))
	require.Len(t, got, 1, "subscriber runs before Dispatch returns")
	assert.Equal(t, PhaseBidding, got[0].Phase)

	require.True(t, sess.Dispatch(PlaceBid{PlayerID: "p1", Value: 7}))
	require.Len(t, got, 2)
	require.False(t, sess.Dispatch(PlaceBid{PlayerID: "p2", Value: 7}))
	require.Len(t, got, 2, "rejected intents must not notify")

	unsubscribe()
	n := len(got)
	require.True(t, sess.Dispatch(PassBid{PlayerID: "p2"}))
	assert.Len(t, got, n, "unsubscribed callback must not fire")
}

func TestStateReturnsDefensiveCopy(t *testing.T) {
	sess := newTestSession(t)
	st := sess.State()
	st.Players[0].Hand[0] = Card{Suit: Hearts, Rank: "A"}
	st.Phase = PhaseGameOver

	fresh := sess.State()
	assert.Equal(t, PhaseDealing, fresh.Phase)
	assert.NotEqual(t, st.Players[0].Hand, fresh.Players[0].Hand)
}

func TestBroadcastStateStripsDeck(t *testing.T) {
	snap := testSnapshot(nil)
	snap.Deck = []Card{{Suit: Hearts, Rank: "2"}}
	sess := NewSessionFromSnapshot(snap, DefaultTargetScore)

	out := sess.BroadcastState()
	assert.Empty(t, out.Deck, "undealt cards never cross the process boundary")
	assert.Len(t, sess.State().Deck, 1, "internal state keeps the deck")
}

func TestGameOverAndWinner(t *testing.T) {
	snap := testSnapshot(nil)
	sess := NewSessionFromSnapshot(snap, DefaultTargetScore)
	assert.False(t, sess.IsGameOver())
	_, ok := sess.Winner()
	assert.False(t, ok)

	snap = testSnapshot(nil)
	snap.Teams[1].Score = 45
	sess = NewSessionFromSnapshot(snap, DefaultTargetScore)
	assert.True(t, sess.IsGameOver())
	team, ok := sess.Winner()
	require.True(t, ok)
	assert.Equal(t, 1, team)
}

func TestWinnerTieBreakGoesToBidder(t *testing.T) {
	// Both teams at 45 with target 41: the bidder's team wins.
	snap := testSnapshot(nil)
	snap.Teams[1].Score = 45
	snap.Teams[2].Score = 45
	snap.BidderID = "p1" // seat 0, team 1
	sess := NewSessionFromSnapshot(snap, DefaultTargetScore)
	team, ok := sess.Winner()
	require.True(t, ok)
	assert.Equal(t, 1, team)

	snap = testSnapshot(nil)
	snap.Teams[1].Score = 45
	snap.Teams[2].Score = 45
	snap.BidderID = "p2" // seat 1, team 2
	sess = NewSessionFromSnapshot(snap, DefaultTargetScore)
	team, ok = sess.Winner()
	require.True(t, ok)
	assert.Equal(t, 2, team)
}

func TestCurrentPlayer(t *testing.T) {
	sess := newTestSession(t)
	p, err := sess.CurrentPlayer()
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	corrupt := testSnapshot(nil)
	corrupt.CurrentPlayerIndex = 7
	sess = NewSessionFromSnapshot(corrupt, DefaultTargetScore)
	_, err = sess.CurrentPlayer()
	assert.Error(t, err, "out-of-range index is upstream corruption and must fail loudly")
}
