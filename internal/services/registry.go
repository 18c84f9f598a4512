package services

import "sync"

// ConnectionRegistry maps an opaque connection id to the room codes it
// belongs to. Normally a connection is in exactly one room, but the
// disconnect sweep evaluates every association it finds.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join associates connID with a room code.
func (r *ConnectionRegistry) Join(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[connID] == nil {
		r.rooms[connID] = make(map[string]struct{})
	}
	r.rooms[connID][code] = struct{}{}
}

// Leave removes the association between connID and code.
func (r *ConnectionRegistry) Leave(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if codes, ok := r.rooms[connID]; ok {
		delete(codes, code)
		if len(codes) == 0 {
			delete(r.rooms, connID)
		}
	}
}

// Rooms returns the room codes associated with connID.
func (r *ConnectionRegistry) Rooms(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.rooms[connID]))
	for code := range r.rooms[connID] {
		codes = append(codes, code)
	}
	return codes
}

// Drop removes every association for connID.
func (r *ConnectionRegistry) Drop(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, connID)
}
