// internal/room/directory.go
package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
)

// Summary is the listing view of a cached room record, used for
// matchmaking and dashboards.
type Summary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	HasGame     bool   `json:"hasGame"`
	GameOver    bool   `json:"gameOver"`
}

// Directory is the two-tier room registry: a process-local map holding the
// live rooms this process mutates, in front of the shared cache that gives
// every process visibility. The local map is authoritative for rooms this
// process has touched; listing and matchmaking always consult the cache so
// decisions reflect all processes.
type Directory struct {
	mu    sync.Mutex
	local map[string]*Room
	log   *logrus.Logger
}

// NewDirectory returns an empty directory.
func NewDirectory(log *logrus.Logger) *Directory {
	if log == nil {
		log = logrus.New()
	}
	return &Directory{
		local: make(map[string]*Room),
		log:   log,
	}
}

// CreateRoom allocates a globally-unique room id, registers the room
// locally and writes it through to the shared cache immediately.
func (d *Directory) CreateRoom(ctx context.Context, config RoomConfig) *Room {
	id := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	r := NewRoom(id, config)
	r.SetHooks(d.persist, d.publishResult, d.removeEmpty)

	d.mu.Lock()
	d.local[id] = r
	d.mu.Unlock()

	r.SaveNow()
	d.log.WithField("room_id", id).Info("room created")
	return r
}

// GetRoom resolves a room: the local map first, then the shared cache.
// A hydrated room gets its persistence hooks re-subscribed before it is
// returned — a session deserialized from the cache has no subscribers.
func (d *Directory) GetRoom(ctx context.Context, id string) *Room {
	d.mu.Lock()
	if r, ok := d.local[id]; ok {
		d.mu.Unlock()
		return r
	}
	d.mu.Unlock()

	payload, ok := cache.GetRoom(ctx, id)
	if !ok {
		return nil
	}
	r := Decode(payload)
	if r == nil {
		// Corrupted record: indistinguishable from a miss by contract.
		d.log.WithField("room_id", id).Warn("discarding corrupted room record")
		return nil
	}
	r.SetHooks(d.persist, d.publishResult, d.removeEmpty)

	d.mu.Lock()
	// Another goroutine may have hydrated the same room concurrently.
	if existing, ok := d.local[id]; ok {
		d.mu.Unlock()
		return existing
	}
	d.local[id] = r
	d.mu.Unlock()

	d.log.WithField("room_id", id).Info("room hydrated from cache")
	return r
}

// DeleteRoom removes the room locally and from the shared cache.
func (d *Directory) DeleteRoom(ctx context.Context, id string) {
	d.mu.Lock()
	delete(d.local, id)
	d.mu.Unlock()
	cache.DeleteRoom(ctx, id)
	d.log.WithField("room_id", id).Info("room deleted")
}

// ListRooms returns summaries of every room visible in the shared cache.
func (d *Directory) ListRooms(ctx context.Context) []Summary {
	return d.list(ctx, func(Summary) bool { return true })
}

// WaitingRooms returns rooms still in the lobby phase.
func (d *Directory) WaitingRooms(ctx context.Context) []Summary {
	return d.list(ctx, func(s Summary) bool { return !s.HasGame })
}

// ActiveGameRooms returns rooms with a game in progress.
func (d *Directory) ActiveGameRooms(ctx context.Context) []Summary {
	return d.list(ctx, func(s Summary) bool { return s.HasGame && !s.GameOver })
}

// FindAvailableRoom returns the id of a joinable room: no game yet and at
// least one open seat.
func (d *Directory) FindAvailableRoom(ctx context.Context) (string, bool) {
	for _, s := range d.WaitingRooms(ctx) {
		if s.PlayerCount < s.MaxPlayers {
			return s.ID, true
		}
	}
	return "", false
}

func (d *Directory) list(ctx context.Context, keep func(Summary) bool) []Summary {
	out := []Summary{}
	for id, payload := range cache.ListRooms(ctx) {
		r := Decode(payload)
		if r == nil {
			d.log.WithField("room_id", id).Warn("skipping corrupted room record in listing")
			continue
		}
		s := Summary{
			ID:          r.ID,
			PlayerCount: r.SeatCount(),
			MaxPlayers:  r.Config.MaxPlayers,
			HasGame:     r.HasGame(),
			GameOver:    r.GameOver(),
		}
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// persist is the save hook injected into every room this directory owns.
// Cache failures degrade silently; durability resumes when the store does.
func (d *Directory) persist(r *Room) {
	payload, err := Encode(r)
	if err != nil {
		// Encoding a well-formed room cannot fail; this is a programming error.
		d.log.WithField("room_id", r.ID).WithError(err).Error("room encode failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cache.SetRoom(ctx, r.ID, payload, cache.TTLFor(r.HasGame(), r.GameOver()))
}

// removeEmpty is the room-empty hook: a room whose last seat was freed is
// dropped from the directory and the shared cache instead of lingering as
// an empty lobby until its TTL runs out.
func (d *Directory) removeEmpty(r *Room) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.DeleteRoom(ctx, r.ID)
}

// publishResult pushes the finished match onto the historian queue.
func (d *Directory) publishResult(r *Room) {
	s := r.Session()
	if s == nil {
		return
	}
	team, ok := s.Winner()
	if !ok {
		return
	}

	state := s.State()
	rec := cache.MatchResultRecord{
		RoomID:      r.ID,
		WinningTeam: team,
		Scores:      make(map[int]int, len(state.Teams)),
		Players:     make(map[string]int, len(state.Players)),
		Timestamp:   time.Now().UnixMilli(),
	}
	for id, t := range state.Teams {
		rec.Scores[id] = t.Score
	}
	for _, p := range state.Players {
		rec.Players[p.ID] = p.TeamID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.PublishMatchResult(ctx, rec); err != nil {
		d.log.WithField("room_id", r.ID).WithError(err).Warn("failed to publish match result")
	}
}
