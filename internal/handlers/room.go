// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/auth"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/room"
)

// CreateRoomHandler creates a room from an optional JSON config body and
// returns its id and effective configuration. The caller gets a guest
// identity cookie if they did not present one.
func CreateRoomHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if _, err := auth.EnsurePlayer(w, r); err != nil {
			http.Error(w, "failed to establish player identity", http.StatusInternalServerError)
			return
		}

		config := room.DefaultConfig()
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil && err.Error() != "EOF" {
			http.Error(w, "bad room config payload", http.StatusBadRequest)
			return
		}

		created := s.Rooms.CreateRoom(r.Context(), config)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     created.ID,
			"config": created.Config,
		})
	}
}

// ListRoomsHandler returns room summaries from the shared cache. The
// optional ?filter= query narrows to "waiting" or "active" rooms.
func ListRoomsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rooms []room.Summary
		switch r.URL.Query().Get("filter") {
		case "waiting":
			rooms = s.Rooms.WaitingRooms(r.Context())
		case "active":
			rooms = s.Rooms.ActiveGameRooms(r.Context())
		case "":
			rooms = s.Rooms.ListRooms(r.Context())
		default:
			http.Error(w, "invalid filter (want waiting or active)", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rooms)
	}
}

// FindRoomHandler answers matchmaking: the id of some joinable room, or
// 404 when every visible room is full or already playing.
func FindRoomHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.Rooms.FindAvailableRoom(r.Context())
		if !ok {
			http.Error(w, "no available room", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"roomId": id})
	}
}
