// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/room"
)

// Server holds the room directory plus the per-room registry of live
// WebSocket connections. The directory owns room state; the server only
// owns the sockets pointed at it.
type Server struct {
	Rooms  *room.Directory
	Logger *logrus.Logger

	mu    sync.Mutex
	conns map[string]map[string]*websocket.Conn // roomID -> playerID -> conn
}

// NewServer constructs a Server around a fresh directory.
func NewServer(logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		Rooms:  room.NewDirectory(logger),
		Logger: logger,
		conns:  make(map[string]map[string]*websocket.Conn),
	}
}

// registerConn records the player's connection for the room, replacing any
// stale socket left by an earlier session of the same player.
func (s *Server) registerConn(roomID, playerID string, c *websocket.Conn) {
	s.mu.Lock()
	if s.conns[roomID] == nil {
		s.conns[roomID] = make(map[string]*websocket.Conn)
	}
	old := s.conns[roomID][playerID]
	s.conns[roomID][playerID] = c
	s.mu.Unlock()

	if old != nil && old != c {
		old.Close(websocket.StatusPolicyViolation, "Replaced by a newer connection.")
	}
}

// unregisterConn drops the player's connection if it is still the one we
// registered. A reconnect that already replaced it is left alone.
func (s *Server) unregisterConn(roomID, playerID string, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[roomID][playerID] == c {
		delete(s.conns[roomID], playerID)
		if len(s.conns[roomID]) == 0 {
			delete(s.conns, roomID)
		}
	}
}

// roomStatePayload is the message broadcast after every room or game
// mutation. GameState is deck-stripped; it is nil while in the lobby.
type roomStatePayload struct {
	Type      string             `json:"type"`
	RoomID    string             `json:"roomId"`
	Players   []room.LobbyPlayer `json:"players"`
	HasGame   bool               `json:"hasGame"`
	GameState interface{}        `json:"gameState,omitempty"`
}

// BroadcastRoomState sends the room's current public view to every
// connected player. Writes happen off the caller's goroutine so a slow
// client cannot stall game handling.
func (s *Server) BroadcastRoomState(r *room.Room) {
	payload := roomStatePayload{
		Type:    "room_state",
		RoomID:  r.ID,
		Players: r.Players(),
		HasGame: r.HasGame(),
	}
	if sess := r.Session(); sess != nil {
		payload.GameState = sess.BroadcastState()
	}

	msgBytes, err := json.Marshal(payload)
	if err != nil {
		s.Logger.WithField("room_id", r.ID).WithError(err).Error("failed to marshal room state")
		return
	}

	s.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(s.conns[r.ID]))
	for _, c := range s.conns[r.ID] {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	go func(conns []*websocket.Conn, data []byte, roomID string) {
		for _, c := range conns {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				s.Logger.WithField("room_id", roomID).Warnf("failed to write broadcast: %v", err)
			}
		}
	}(targets, msgBytes, r.ID)
}

// sendToConn marshals a message and writes it to a single connection with
// a write timeout. Errors are logged and left for the read loop to detect.
func (s *Server) sendToConn(c *websocket.Conn, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		s.Logger.WithError(err).Error("failed to marshal ws message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, msgBytes); err != nil {
		s.Logger.Debugf("ws write failed: %v", err)
	}
}

// sendWsError sends a structured, coded error message to one client.
func (s *Server) sendWsError(c *websocket.Conn, code, message string) {
	s.sendToConn(c, map[string]string{
		"type":    "error",
		"code":    code,
		"message": message,
	})
}
