// internal/room/room.go
package room

import (
	"sync"
	"time"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/game"
)

// saveDebounce bounds how stale the cached copy of an in-game room can be
// without writing on every single card play.
const saveDebounce = time.Second

// RoomConfig is the per-room configuration surface. Only TargetScore is
// read by the win-condition check; AllowBots and TimePerTurn are accepted
// for the record shape but not enforced here.
type RoomConfig struct {
	MaxPlayers  int  `json:"maxPlayers"`
	TargetScore int  `json:"targetScore"`
	AllowBots   bool `json:"allowBots,omitempty"`
	TimePerTurn int  `json:"timePerTurn,omitempty"`
}

// DefaultConfig returns the standard four-seat, 41-point configuration.
func DefaultConfig() RoomConfig {
	return RoomConfig{MaxPlayers: 4, TargetScore: game.DefaultTargetScore}
}

// LobbyPlayer is seat metadata independent of game state, keyed by the
// stable player id rather than any transport connection id.
type LobbyPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsConnected bool   `json:"isConnected"`
}

// Room groups up to four seats around at most one game session and owns
// the debounced persistence of its own state. The save and game-over hooks
// are injected by the directory that created or hydrated the room.
type Room struct {
	ID     string
	Config RoomConfig

	mu      sync.Mutex
	players map[string]*LobbyPlayer
	order   []string // seat order = join order
	session *game.Session

	unsubscribe     func()
	resultPublished bool

	save       func(*Room)
	onGameOver func(*Room)
	onEmpty    func(*Room)
	debounce   *time.Timer
}

// NewRoom builds an empty room. Zero config fields fall back to defaults.
func NewRoom(id string, config RoomConfig) *Room {
	if config.MaxPlayers <= 0 {
		config.MaxPlayers = 4
	}
	if config.TargetScore <= 0 {
		config.TargetScore = game.DefaultTargetScore
	}
	return &Room{
		ID:      id,
		Config:  config,
		players: make(map[string]*LobbyPlayer),
	}
}

// SetHooks installs the persistence, game-over and room-empty callbacks.
// It must be called again after hydrating a room from the cache: a live
// session from a previous process has lost its subscribers, so the in-game
// save hook is re-subscribed here.
func (r *Room) SetHooks(save, onGameOver, onEmpty func(*Room)) {
	r.mu.Lock()
	r.save = save
	r.onGameOver = onGameOver
	r.onEmpty = onEmpty
	if r.session != nil {
		if r.unsubscribe != nil {
			r.unsubscribe()
		}
		r.unsubscribe = r.session.Subscribe(r.onGameMutation)
	}
	r.mu.Unlock()
}

// AddPlayer seats a player. It rejects when a game session exists, when
// the room is full, or when the id is already seated. Seat changes gate
// availability decisions made by other processes, so the write is
// immediate, not debounced.
func (r *Room) AddPlayer(id, name string) bool {
	r.mu.Lock()
	if r.session != nil || len(r.players) >= r.Config.MaxPlayers {
		r.mu.Unlock()
		return false
	}
	if _, seated := r.players[id]; seated {
		r.mu.Unlock()
		return false
	}
	r.players[id] = &LobbyPlayer{ID: id, Name: name, IsConnected: true}
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.SaveNow()
	return true
}

// RemovePlayer frees the seat. A running game cannot continue with an
// empty seat, so any session is discarded entirely. Removing the last seat
// fires the room-empty hook instead of persisting: an empty room has no
// reason to exist anywhere.
func (r *Room) RemovePlayer(id string) bool {
	r.mu.Lock()
	if _, seated := r.players[id]; !seated {
		r.mu.Unlock()
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.discardSessionLocked()
	empty := len(r.players) == 0
	onEmpty := r.onEmpty
	if empty && onEmpty != nil && r.debounce != nil {
		// A pending debounced write must not resurrect the deleted record.
		r.debounce.Stop()
		r.debounce = nil
	}
	r.mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty(r)
		return true
	}
	r.SaveNow()
	return true
}

// StartGame materializes a game session from the four seat ids in join
// order and makes the transition durable immediately.
func (r *Room) StartGame() bool {
	r.mu.Lock()
	if r.session != nil || len(r.order) != r.Config.MaxPlayers {
		r.mu.Unlock()
		return false
	}
	seats := make([]string, len(r.order))
	copy(seats, r.order)
	r.session = game.NewSession(seats, r.Config.TargetScore, nil)
	r.resultPublished = false
	r.unsubscribe = r.session.Subscribe(r.onGameMutation)
	r.mu.Unlock()

	r.SaveNow()
	return true
}

// MarkPlayerDisconnected flips the seat's connection flag. Disconnection
// is a presentation concern: the game session is untouched and the
// player's turn still exists.
func (r *Room) MarkPlayerDisconnected(id string) bool {
	return r.setConnected(id, false)
}

// MarkPlayerReconnected flips the seat's connection flag back.
func (r *Room) MarkPlayerReconnected(id string) bool {
	return r.setConnected(id, true)
}

func (r *Room) setConnected(id string, connected bool) bool {
	r.mu.Lock()
	p, seated := r.players[id]
	if !seated {
		r.mu.Unlock()
		return false
	}
	p.IsConnected = connected
	r.mu.Unlock()

	r.SaveNow()
	return true
}

// Session returns the live game session, or nil while in the lobby.
func (r *Room) Session() *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// HasGame reports whether a game session exists.
func (r *Room) HasGame() bool {
	return r.Session() != nil
}

// GameOver reports whether the room's game, if any, has been won.
func (r *Room) GameOver() bool {
	s := r.Session()
	return s != nil && s.IsGameOver()
}

// Players returns the seats in join order.
func (r *Room) Players() []LobbyPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LobbyPlayer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.players[id])
	}
	return out
}

// SeatCount returns the number of occupied seats.
func (r *Room) SeatCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// IsSeated reports whether the player id holds a seat.
func (r *Room) IsSeated(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, seated := r.players[id]
	return seated
}

// SaveNow cancels any pending debounced write and persists immediately.
func (r *Room) SaveNow() {
	r.mu.Lock()
	if r.debounce != nil {
		r.debounce.Stop()
		r.debounce = nil
	}
	save := r.save
	r.mu.Unlock()

	if save != nil {
		save(r)
	}
}

// ScheduleSave arms (or re-arms) the debounced persistence timer. A fresh
// mutation inside the window restarts the timer instead of queuing a
// second write.
func (r *Room) ScheduleSave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.save == nil {
		return
	}
	if r.debounce != nil {
		r.debounce.Stop()
	}
	r.debounce = time.AfterFunc(saveDebounce, func() {
		r.mu.Lock()
		r.debounce = nil
		r.mu.Unlock()
		r.SaveNow()
	})
}

// onGameMutation runs synchronously after every accepted intent.
func (r *Room) onGameMutation(*game.GameSnapshot) {
	r.ScheduleSave()

	r.mu.Lock()
	session := r.session
	published := r.resultPublished
	hook := r.onGameOver
	if session != nil && session.IsGameOver() && !published {
		r.resultPublished = true
	} else {
		session = nil
	}
	r.mu.Unlock()

	if session != nil && hook != nil {
		hook(r)
	}
}

// discardSessionLocked drops the session and its subscription. Caller
// holds r.mu.
func (r *Room) discardSessionLocked() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.session = nil
}

// installSession is used by the codec to attach a rehydrated session.
func (r *Room) installSession(s *game.Session) {
	r.mu.Lock()
	r.session = s
	r.mu.Unlock()
}

// seatPlayer is used by the codec to repopulate seats without triggering
// persistence writes.
func (r *Room) seatPlayer(p LobbyPlayer) {
	r.mu.Lock()
	cp := p
	r.players[p.ID] = &cp
	r.order = append(r.order, p.ID)
	r.mu.Unlock()
}
