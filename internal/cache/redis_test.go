// internal/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLFor(t *testing.T) {
	assert.Equal(t, time.Hour, TTLFor(false, false), "waiting room")
	assert.Equal(t, time.Hour, TTLFor(false, true), "no game implies lobby tier")
	assert.Equal(t, 24*time.Hour, TTLFor(true, false), "live game")
	assert.Equal(t, 5*time.Minute, TTLFor(true, true), "finished game")
}

func TestOperationsDegradeWithoutClient(t *testing.T) {
	Rdb = nil
	ctx := context.Background()

	SetRoom(ctx, "r1", "{}", time.Minute)
	_, ok := GetRoom(ctx, "r1")
	assert.False(t, ok, "no client reads as a cache miss")
	DeleteRoom(ctx, "r1")
	assert.Empty(t, ListRooms(ctx))
	assert.NoError(t, PublishMatchResult(ctx, MatchResultRecord{RoomID: "r1"}))
}
