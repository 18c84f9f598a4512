package services

import (
	"sync"

	"github.com/mfadhilr/typerace/internal/models"
)

// RoomStore is a concurrency-safe mapping from room code to Room. The
// store lock guards only the map itself; per-room state is serialized by
// each Room's own mutex.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

// NewRoomStore creates an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*models.Room),
	}
}

// Create inserts room under its code. Creation is exclusive on the code:
// if the code is already taken the store is unchanged and Create returns
// false. First creator wins.
func (s *RoomStore) Create(room *models.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room.Code]; exists {
		return false
	}
	s.rooms[room.Code] = room
	return true
}

// Get returns the room for code, if present.
func (s *RoomStore) Get(code string) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	return room, ok
}

// Delete removes the room for code. Deleting an absent code is a no-op.
func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, code)
}

// Range returns a snapshot of all rooms. Callers may delete rooms from
// the store while iterating the snapshot; the disconnect sweep relies on
// that.
func (s *RoomStore) Range() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out
}

// Len returns the number of active rooms.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}
