// internal/handlers/room_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/auth"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/room"
)

// TestCreateRoom checks that /room/create builds a room in the directory
// and returns its id and effective config.
func TestCreateRoom(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed
	cache.Rdb = nil
	s := NewServer(nil)

	body := `{"targetScore":31}`
	req := httptest.NewRequest("POST", "/room/create", bytes.NewBuffer([]byte(body)))
	w := httptest.NewRecorder()

	h := CreateRoomHandler(s)
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID     string          `json:"id"`
		Config room.RoomConfig `json:"config"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("room has no ID")
	}
	if resp.Config.TargetScore != 31 {
		t.Fatalf("target score mismatch, expected 31 got %d", resp.Config.TargetScore)
	}
	if resp.Config.MaxPlayers != 4 {
		t.Fatalf("max players should default to 4, got %d", resp.Config.MaxPlayers)
	}
	if s.Rooms.GetRoom(req.Context(), resp.ID) == nil {
		t.Fatalf("created room not resolvable through the directory")
	}

	// A guest identity cookie is minted for the anonymous caller.
	cookies := w.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == "auth_token" && ck.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an auth_token cookie on the response")
	}
}

// TestCreateRoomRejectsGet checks the method guard.
func TestCreateRoomRejectsGet(t *testing.T) {
	auth.Init()
	cache.Rdb = nil
	s := NewServer(nil)

	req := httptest.NewRequest("GET", "/room/create", nil)
	w := httptest.NewRecorder()
	CreateRoomHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

// TestListRoomsWithoutCache checks that listings degrade to empty rather
// than failing when no shared cache is connected.
func TestListRoomsWithoutCache(t *testing.T) {
	auth.Init()
	cache.Rdb = nil
	s := NewServer(nil)

	req := httptest.NewRequest("GET", "/room/list", nil)
	w := httptest.NewRecorder()
	ListRoomsHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var rooms []room.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("failed to decode summaries: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected no rooms without a cache, got %d", len(rooms))
	}
}

// TestListRoomsBadFilter checks the filter validation.
func TestListRoomsBadFilter(t *testing.T) {
	auth.Init()
	cache.Rdb = nil
	s := NewServer(nil)

	req := httptest.NewRequest("GET", "/room/list?filter=bogus", nil)
	w := httptest.NewRecorder()
	ListRoomsHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// TestFindRoomWithoutCache checks that matchmaking reports no room when the
// shared cache is unavailable.
func TestFindRoomWithoutCache(t *testing.T) {
	auth.Init()
	cache.Rdb = nil
	s := NewServer(nil)

	req := httptest.NewRequest("GET", "/room/find", nil)
	w := httptest.NewRecorder()
	FindRoomHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
