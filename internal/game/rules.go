// internal/game/rules.go
//
// Pure rule functions over snapshots and card values. Nothing in this file
// owns or mutates game state; the reducer in engine.go applies their results.
package game

// CompareCards compares two played cards given the trump and lead suits.
// It returns 1 if a beats b, -1 if b beats a, and 0 when neither can beat
// the other (two off-suit, non-trump cards).
//
// Trump beats any non-trump regardless of rank. With no trump involved,
// the lead suit beats off-suit. Cards of the same suit compare by rank,
// ace high.
func CompareCards(a, b Card, trump, lead Suit) int {
	aTrump, bTrump := a.Suit == trump, b.Suit == trump
	switch {
	case aTrump && !bTrump:
		return 1
	case bTrump && !aTrump:
		return -1
	}

	if a.Suit == b.Suit {
		switch {
		case rankOrder[a.Rank] > rankOrder[b.Rank]:
			return 1
		case rankOrder[a.Rank] < rankOrder[b.Rank]:
			return -1
		}
		return 0
	}

	aLead, bLead := a.Suit == lead, b.Suit == lead
	switch {
	case aLead && !bLead:
		return 1
	case bLead && !aLead:
		return -1
	}
	return 0
}

// CanPlayCard reports whether playerID may legally play card given the
// current trick. The player must hold the card. If a trick is in progress
// the player must follow the lead suit when able; when void in the lead
// suit any held card is legal — trump is never forced.
func CanPlayCard(s *GameSnapshot, playerID string, card Card) bool {
	idx := s.playerIndex(playerID)
	if idx < 0 {
		return false
	}
	player := s.Players[idx]

	holds := false
	for _, c := range player.Hand {
		if c == card {
			holds = true
			break
		}
	}
	if !holds {
		return false
	}

	if len(s.Trick) == 0 {
		return true
	}

	lead := s.Trick[0].Suit
	if card.Suit == lead {
		return true
	}
	for _, c := range player.Hand {
		if c.Suit == lead {
			return false
		}
	}
	return true
}

// ResolveTrick determines the winner of a completed trick. It requires a
// full trick of four cards, a trump suit, and a recorded trick leader;
// otherwise it reports ok=false rather than guessing. It is a pure query:
// the caller increments the winning team's trick counter.
func ResolveTrick(s *GameSnapshot) (winnerID string, winningTeam int, ok bool) {
	if len(s.Trick) != len(s.Players) || s.TrumpSuit == "" || s.TrickStartPlayerIndex == nil {
		return "", 0, false
	}

	lead := s.Trick[0].Suit
	best := 0
	for i := 1; i < len(s.Trick); i++ {
		if CompareCards(s.Trick[i], s.Trick[best], s.TrumpSuit, lead) > 0 {
			best = i
		}
	}

	seat := (*s.TrickStartPlayerIndex + best) % len(s.Players)
	winner := s.Players[seat]
	return winner.ID, winner.TeamID, true
}

// MinIndividualBid is the lowest bid a player may open with, scaled by
// their team's score: stronger teams must bid higher.
func MinIndividualBid(playerScore int) int {
	switch {
	case playerScore < 30:
		return 2
	case playerScore < 40:
		return 3
	case playerScore < 50:
		return 4
	default:
		return 5
	}
}

// MinTotalBid is the minimum aggregate bid the table must reach before a
// contract stands, scaled by the leading team's score.
func MinTotalBid(maxTeamScore int) int {
	switch {
	case maxTeamScore < 30:
		return 11
	case maxTeamScore < 40:
		return 12
	case maxTeamScore < 50:
		return 13
	default:
		return 14
	}
}

// IsBidValid reports whether bid is legal for a player at the given score.
// A bid must be within [MinIndividualBid(score), 13] and strictly exceed
// the current highest bid, if any (pass highestBid = 0 for none).
func IsBidValid(bid, playerScore, highestBid int) bool {
	if bid < MinIndividualBid(playerScore) || bid > 13 {
		return false
	}
	return highestBid == 0 || bid > highestBid
}

// ScoreDeltas computes the per-team score change at round end. The bidder's
// team earns tricksWon*10 when the contract is met and loses contractBid*10
// when set; the defending team always earns its tricks at full value.
// Returns ok=false when bidderID is not seated.
func ScoreDeltas(contractBid int, bidderID string, tricksWon map[int]int, players []PlayerState) (deltas map[int]int, ok bool) {
	bidderTeam := 0
	for _, p := range players {
		if p.ID == bidderID {
			bidderTeam = p.TeamID
			break
		}
	}
	if bidderTeam == 0 {
		return nil, false
	}

	deltas = make(map[int]int, 2)
	for team := 1; team <= 2; team++ {
		if team == bidderTeam {
			if tricksWon[team] >= contractBid {
				deltas[team] = tricksWon[team] * 10
			} else {
				deltas[team] = -(contractBid * 10)
			}
		} else {
			deltas[team] = tricksWon[team] * 10
		}
	}
	return deltas, true
}
