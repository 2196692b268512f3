// internal/room/directory_test.go
package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
)

// These tests run with no Redis client connected: the shared cache
// degrades to a no-op and the directory operates on its local tier alone.

func TestCreateAndGetRoom(t *testing.T) {
	cache.Rdb = nil
	d := NewDirectory(nil)
	ctx := context.Background()

	r1 := d.CreateRoom(ctx, DefaultConfig())
	r2 := d.CreateRoom(ctx, DefaultConfig())
	require.NotNil(t, r1)
	assert.NotEqual(t, r1.ID, r2.ID, "room ids must be unique")

	assert.Same(t, r1, d.GetRoom(ctx, r1.ID), "local map is authoritative")
	assert.Nil(t, d.GetRoom(ctx, "missing"), "unknown id with no cache is a miss")
}

func TestEmptyRoomIsDeleted(t *testing.T) {
	cache.Rdb = nil
	d := NewDirectory(nil)
	ctx := context.Background()

	r := d.CreateRoom(ctx, DefaultConfig())
	require.True(t, r.AddPlayer("p1", "one"))
	require.True(t, r.RemovePlayer("p1"))
	require.Equal(t, 0, r.SeatCount())

	assert.Nil(t, d.GetRoom(ctx, r.ID), "emptied room must leave the directory")
}

func TestDeleteRoom(t *testing.T) {
	cache.Rdb = nil
	d := NewDirectory(nil)
	ctx := context.Background()

	r := d.CreateRoom(ctx, DefaultConfig())
	d.DeleteRoom(ctx, r.ID)
	assert.Nil(t, d.GetRoom(ctx, r.ID))
}

func TestListingsConsultOnlySharedCache(t *testing.T) {
	cache.Rdb = nil
	d := NewDirectory(nil)
	ctx := context.Background()

	// A locally created room is invisible to listings when the shared
	// store is down: matchmaking must reflect all processes or none.
	d.CreateRoom(ctx, DefaultConfig())
	assert.Empty(t, d.ListRooms(ctx))
	assert.Empty(t, d.WaitingRooms(ctx))
	assert.Empty(t, d.ActiveGameRooms(ctx))

	_, ok := d.FindAvailableRoom(ctx)
	assert.False(t, ok)
}

func TestCreatedRoomHasHooks(t *testing.T) {
	cache.Rdb = nil
	d := NewDirectory(nil)
	ctx := context.Background()

	r := d.CreateRoom(ctx, DefaultConfig())
	seatFour(t, r)
	// Saves run against the degraded cache without error.
	require.True(t, r.StartGame())
	require.True(t, r.HasGame())
}
