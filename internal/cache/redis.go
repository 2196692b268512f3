// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
// Every operation in this package tolerates a nil client: the cache then
// degrades to a no-op and rooms live purely in process memory until the
// store recovers.
var Rdb *redis.Client

// roomKeyPrefix namespaces room records in the shared store.
const roomKeyPrefix = "tarneeb:room:"

// DefaultResultQueueName is the Redis list the historian consumes
// finished-match records from.
var DefaultResultQueueName = "tarneeb_results"

// TTL tiers for room records, chosen by game phase. Lobbies are cheap and
// may take a while to fill; an abandoned mid-game room should survive
// restarts; finished games are kept only long enough for clients to
// confirm the result.
const (
	LobbyTTL        = time.Hour
	ActiveGameTTL   = 24 * time.Hour
	FinishedGameTTL = 5 * time.Minute
)

// TTLFor picks the record TTL from the room's current game phase.
func TTLFor(hasGame, gameOver bool) time.Duration {
	switch {
	case !hasGame:
		return LobbyTTL
	case gameOver:
		return FinishedGameTTL
	default:
		return ActiveGameTTL
	}
}

// MatchResultRecord holds the minimal info the historian needs to persist
// a finished match.
type MatchResultRecord struct {
	RoomID      string         `json:"room_id"`
	WinningTeam int            `json:"winning_team"`
	Scores      map[int]int    `json:"scores"`
	Players     map[string]int `json:"players"` // player id -> team id
	Timestamp   int64          `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// SetRoom writes a serialized room record under the room key with the
// given TTL. A missing client or write failure loses this cycle's
// durability but never propagates to the caller.
func SetRoom(ctx context.Context, roomID, payload string, ttl time.Duration) {
	if Rdb == nil {
		return
	}
	Rdb.Set(ctx, roomKeyPrefix+roomID, payload, ttl)
}

// GetRoom fetches a serialized room record. A miss, an unavailable store
// and a read failure all report ok=false.
func GetRoom(ctx context.Context, roomID string) (payload string, ok bool) {
	if Rdb == nil {
		return "", false
	}
	val, err := Rdb.Get(ctx, roomKeyPrefix+roomID).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// DeleteRoom removes a room record from the shared store.
func DeleteRoom(ctx context.Context, roomID string) {
	if Rdb == nil {
		return
	}
	Rdb.Del(ctx, roomKeyPrefix+roomID)
}

// ListRooms scans the shared store and returns every room record keyed by
// room id. Listing always reflects all processes sharing the store, not
// just this one.
func ListRooms(ctx context.Context) map[string]string {
	out := make(map[string]string)
	if Rdb == nil {
		return out
	}

	var cursor uint64
	for {
		keys, next, err := Rdb.Scan(ctx, cursor, roomKeyPrefix+"*", 100).Result()
		if err != nil {
			return out
		}
		for _, key := range keys {
			val, err := Rdb.Get(ctx, key).Result()
			if err != nil {
				continue
			}
			out[strings.TrimPrefix(key, roomKeyPrefix)] = val
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out
}

// PublishMatchResult serializes the record to JSON and pushes it onto the
// historian queue. Best effort: core play never depends on it.
func PublishMatchResult(ctx context.Context, record MatchResultRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchResultRecord: %w", err)
	}

	queueName := getEnv("RESULT_QUEUE_NAME", DefaultResultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
