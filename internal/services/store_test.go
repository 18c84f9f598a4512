package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfadhilr/typerace/internal/models"
	"github.com/mfadhilr/typerace/internal/services"
)

func newRoom(code, creatorID, creatorName string) *models.Room {
	return models.NewRoom(code, models.NewParticipant(creatorID, creatorName), 3)
}

func TestRoomStore_Create(t *testing.T) {
	t.Run("first creator wins", func(t *testing.T) {
		store := services.NewRoomStore()

		first := newRoom("AB12", "conn-1", "alice")
		second := newRoom("AB12", "conn-2", "bob")

		assert.True(t, store.Create(first))
		assert.False(t, store.Create(second))

		got, ok := store.Get("AB12")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("distinct codes coexist", func(t *testing.T) {
		store := services.NewRoomStore()

		assert.True(t, store.Create(newRoom("AB12", "conn-1", "alice")))
		assert.True(t, store.Create(newRoom("CD34", "conn-2", "bob")))
		assert.Equal(t, 2, store.Len())
	})
}

func TestRoomStore_Get(t *testing.T) {
	store := services.NewRoomStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	room := newRoom("AB12", "conn-1", "alice")
	store.Create(room)

	got, ok := store.Get("AB12")
	assert.True(t, ok)
	assert.Equal(t, "AB12", got.Code)
}

func TestRoomStore_Delete(t *testing.T) {
	store := services.NewRoomStore()
	store.Create(newRoom("AB12", "conn-1", "alice"))

	store.Delete("AB12")
	_, ok := store.Get("AB12")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())

	// Deleting an absent code is a no-op.
	store.Delete("AB12")
}

func TestRoomStore_Range(t *testing.T) {
	store := services.NewRoomStore()
	store.Create(newRoom("AB12", "conn-1", "alice"))
	store.Create(newRoom("CD34", "conn-2", "bob"))

	snapshot := store.Range()
	assert.Len(t, snapshot, 2)

	// The snapshot stays valid while rooms are deleted underneath it.
	for _, room := range snapshot {
		store.Delete(room.Code)
	}
	assert.Equal(t, 0, store.Len())
	assert.Len(t, snapshot, 2)
}
