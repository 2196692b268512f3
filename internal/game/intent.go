// internal/game/intent.go
package game

// Intent is a caller-submitted request to change game state. It is a sealed
// sum type: one variant per action, matched exhaustively by the reducer, so
// a new intent cannot be added without handling it there.
type Intent interface {
	isIntent()
}

// StartBidding opens the bidding phase after the deal.
type StartBidding struct{}

// PlaceBid records a bid for the contract.
type PlaceBid struct {
	PlayerID string
	Value    int
}

// PassBid passes the turn without bidding.
type PassBid struct {
	PlayerID string
}

// SetTrump closes bidding: the highest bidder names trump and play begins.
type SetTrump struct {
	Suit Suit
}

// PlayCard plays one card from the player's hand into the trick.
type PlayCard struct {
	PlayerID string
	Card     Card
}

// EndTrick resolves a completed trick and hands the lead to its winner.
type EndTrick struct{}

// EndRound applies contract scoring to both teams.
type EndRound struct{}

// ResetGame discards the round state and re-deals for the same four seats.
type ResetGame struct{}

func (StartBidding) isIntent() {}
func (PlaceBid) isIntent()     {}
func (PassBid) isIntent()      {}
func (SetTrump) isIntent()     {}
func (PlayCard) isIntent()     {}
func (EndTrick) isIntent()     {}
func (EndRound) isIntent()     {}
func (ResetGame) isIntent()    {}
