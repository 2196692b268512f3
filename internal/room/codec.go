// internal/room/codec.go
package room

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/game"
)

// seatRecord is one [id, player] pair. Keeping seats as an ordered list
// rather than a JSON object preserves join order across processes.
type seatRecord struct {
	ID     string      `json:"id"`
	Player LobbyPlayer `json:"player"`
}

// roomRecord is the wire format for the shared store. It must remain
// stable across process versions sharing one store instance.
type roomRecord struct {
	ID        string             `json:"id"`
	Config    RoomConfig         `json:"config"`
	Players   []seatRecord       `json:"players"`
	HasGame   bool               `json:"hasGame"`
	GameState *game.GameSnapshot `json:"gameState,omitempty"`
	UpdatedAt int64              `json:"updatedAt"`
}

// Encode serializes a room, including an embedded game snapshot, to a
// transport-safe string. It never fails on a well-formed room; an error
// here is a programming fault, not an operational condition.
func Encode(r *Room) (string, error) {
	rec := roomRecord{
		ID:        r.ID,
		Config:    r.Config,
		UpdatedAt: time.Now().UnixMilli(),
	}
	for _, p := range r.Players() {
		rec.Players = append(rec.Players, seatRecord{ID: p.ID, Player: p})
	}
	if s := r.Session(); s != nil {
		rec.HasGame = true
		rec.GameState = s.State()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode room %s: %w", r.ID, err)
	}
	return string(data), nil
}

// Decode reconstructs a room from its serialized form. Malformed JSON and
// structurally incomplete records return nil — callers treat that exactly
// like a cache miss, never as a retryable error.
//
// An embedded snapshot is installed as the session's current state without
// replaying any transitions: records are only ever written from snapshots
// that came out of the engine, so the read side trusts them as-is.
func Decode(payload string) *Room {
	var rec roomRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil
	}
	if rec.ID == "" {
		return nil
	}
	for _, seat := range rec.Players {
		if seat.ID == "" || seat.Player.ID == "" {
			return nil
		}
	}
	if rec.HasGame && (rec.GameState == nil || len(rec.GameState.Players) == 0) {
		return nil
	}

	r := NewRoom(rec.ID, rec.Config)
	for _, seat := range rec.Players {
		r.seatPlayer(seat.Player)
	}
	if rec.HasGame {
		r.installSession(game.NewSessionFromSnapshot(rec.GameState, r.Config.TargetScore))
	}
	return r
}
