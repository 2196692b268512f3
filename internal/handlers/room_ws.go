// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/auth"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/game"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/middleware"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/room"
)

// RoomMessage is the structure for incoming WebSocket messages on the room
// endpoint. Fields beyond Type are set depending on the action.
type RoomMessage struct {
	Type string     `json:"type"`
	Bid  int        `json:"bid,omitempty"`
	Suit game.Suit  `json:"suit,omitempty"`
	Card *game.Card `json:"card,omitempty"`
}

// Error codes carried in "error" messages to the client. Rejections are
// expected traffic, not failures: the connection stays open.
const (
	ErrInvalidAction  = "INVALID_ACTION"
	ErrRoomFull       = "ROOM_FULL"
	ErrNotInRoom      = "NOT_IN_ROOM"
	ErrGameNotStarted = "GAME_NOT_STARTED"
	ErrNotYourTurn    = "NOT_YOUR_TURN"
)

// RoomWSHandler upgrades the HTTP connection to WebSocket for a specific
// room: /room/ws/{room_id}. It establishes the player's identity, seats or
// reconnects them, registers the connection, sends the current state, and
// runs the read loop until the socket closes.
func RoomWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/room/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing room_id in path (/room/ws/{room_id})", http.StatusBadRequest)
			return
		}
		roomID := pathParts[0]

		rm := s.Rooms.GetRoom(r.Context(), roomID)
		if rm == nil {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}

		// Identity must be resolved before the upgrade: a freshly minted
		// guest cookie rides on the handshake response headers.
		playerID, err := auth.EnsurePlayer(w, r)
		if err != nil {
			logger.Warnf("Player authentication failed for room %s: %v", roomID, err)
			http.Error(w, "Authentication failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"tarneeb"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "tarneeb" {
			logger.Warnf("Client for room %s connected with invalid subprotocol: %s", roomID, c.Subprotocol())
			c.Close(BadSubprotocolError, "Client must use the 'tarneeb' subprotocol.")
			return
		}
		middleware.LogRoomSocketOpen(logger, roomID, playerID, r.RemoteAddr)

		// Seat the player, or flip their seat back to connected if they
		// already hold one. A full room rejects strangers only.
		if rm.IsSeated(playerID) {
			rm.MarkPlayerReconnected(playerID)
			logger.Infof("Player %s reconnected to room %s", playerID, roomID)
		} else if !rm.AddPlayer(playerID, "Guest-"+shortID(playerID)) {
			logger.Infof("Player %s rejected from room %s: no seat available", playerID, roomID)
			c.Close(RoomFullError, "Room is full or the game has started.")
			return
		}

		s.registerConn(roomID, playerID, c)
		s.BroadcastRoomState(rm)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readRoomMessages(ctx, c, s, rm, playerID, logger)

		// The read loop exited: the socket is gone but the seat survives,
		// so the player's turn still exists when they come back.
		s.unregisterConn(roomID, playerID, c)
		if rm.IsSeated(playerID) {
			rm.MarkPlayerDisconnected(playerID)
			s.BroadcastRoomState(rm)
		}
		middleware.LogRoomSocketClose(logger, roomID, playerID, r.RemoteAddr, nil)
	}
}

// readRoomMessages continuously reads messages from the client, validates
// them against the room and game state, and routes them to the session.
// It exits on read error or context cancellation.
func readRoomMessages(ctx context.Context, c *websocket.Conn, s *Server, rm *room.Room, playerID string, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for player %s in room %s.", playerID, rm.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for player %s in room %s.", playerID, rm.ID)
			} else {
				logger.Warnf("Error reading from WebSocket for player %s in room %s: %v", playerID, rm.ID, err)
			}
			return
		}

		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from player %s in room %s. Ignoring.", msgType, playerID, rm.ID)
			continue
		}

		var msg RoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from player %s in room %s: %v. Data: %s", playerID, rm.ID, err, string(data))
			s.sendWsError(c, ErrInvalidAction, "Invalid JSON format.")
			continue
		}

		logger.Debugf("Received action '%s' from player %s in room %s.", msg.Type, playerID, rm.ID)

		switch msg.Type {
		case "ping":
			s.sendToConn(c, map[string]string{"type": "pong"})
			continue

		case "leave_room":
			if rm.RemovePlayer(playerID) {
				s.BroadcastRoomState(rm)
			}
			c.Close(websocket.StatusNormalClosure, "Left the room.")
			return

		case "start_game":
			if !rm.IsSeated(playerID) {
				s.sendWsError(c, ErrNotInRoom, "You do not hold a seat in this room.")
				continue
			}
			if !rm.StartGame() {
				s.sendWsError(c, ErrInvalidAction, "Cannot start: game already running or seats unfilled.")
				continue
			}
			rm.Session().Dispatch(game.StartBidding{})
			s.BroadcastRoomState(rm)

		case "place_bid", "pass_bid", "set_trump", "play_card", "reset_game":
			handleGameAction(c, s, rm, playerID, msg)

		default:
			logger.Warnf("Unknown action type '%s' from player %s in room %s.", msg.Type, playerID, rm.ID)
			s.sendWsError(c, ErrInvalidAction, fmt.Sprintf("Unknown action type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			logger.Infof("Context canceled after processing message for player %s in room %s.", playerID, rm.ID)
			return
		default:
		}
	}
}

// handleGameAction validates seat, session and turn ownership, then
// dispatches the mapped intent. Accepted play advances tricks and rounds
// automatically; the new state is broadcast to the whole room.
func handleGameAction(c *websocket.Conn, s *Server, rm *room.Room, playerID string, msg RoomMessage) {
	if !rm.IsSeated(playerID) {
		s.sendWsError(c, ErrNotInRoom, "You do not hold a seat in this room.")
		return
	}
	sess := rm.Session()
	if sess == nil {
		s.sendWsError(c, ErrGameNotStarted, "The game has not started.")
		return
	}

	var intent game.Intent
	switch msg.Type {
	case "place_bid":
		if !isPlayersTurn(sess, playerID) {
			s.sendWsError(c, ErrNotYourTurn, "It is not your turn to bid.")
			return
		}
		intent = game.PlaceBid{PlayerID: playerID, Value: msg.Bid}

	case "pass_bid":
		if !isPlayersTurn(sess, playerID) {
			s.sendWsError(c, ErrNotYourTurn, "It is not your turn to bid.")
			return
		}
		intent = game.PassBid{PlayerID: playerID}

	case "set_trump":
		// Only the standing highest bidder may name trump.
		if sess.State().BidderID != playerID {
			s.sendWsError(c, ErrNotYourTurn, "Only the highest bidder names trump.")
			return
		}
		intent = game.SetTrump{Suit: msg.Suit}

	case "play_card":
		if msg.Card == nil {
			s.sendWsError(c, ErrInvalidAction, "play_card requires a card.")
			return
		}
		if !isPlayersTurn(sess, playerID) {
			s.sendWsError(c, ErrNotYourTurn, "It is not your turn to play.")
			return
		}
		intent = game.PlayCard{PlayerID: playerID, Card: *msg.Card}

	case "reset_game":
		intent = game.ResetGame{}
	}

	if !sess.Dispatch(intent) {
		s.sendWsError(c, ErrInvalidAction, "That action is not legal right now.")
		return
	}

	if msg.Type == "play_card" {
		advancePlay(sess)
	}
	s.BroadcastRoomState(rm)
}

// advancePlay resolves a completed trick and, when the last trick of the
// round has been resolved, applies contract scoring. Both transitions are
// mechanical consequences of the fourth card hitting the table, so the
// server drives them rather than waiting on a client.
func advancePlay(sess *game.Session) {
	st := sess.State()
	if len(st.Trick) == len(st.Players) {
		sess.Dispatch(game.EndTrick{})
		st = sess.State()
	}

	for _, p := range st.Players {
		if len(p.Hand) > 0 {
			return
		}
	}
	sess.Dispatch(game.EndRound{})
}

// isPlayersTurn reports whether playerID owns the current turn. A corrupted
// turn index fails closed.
func isPlayersTurn(sess *game.Session, playerID string) bool {
	cp, err := sess.CurrentPlayer()
	if err != nil {
		return false
	}
	return cp.ID == playerID
}

// shortID trims a uuid to its first segment for a readable default name.
func shortID(id string) string {
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
