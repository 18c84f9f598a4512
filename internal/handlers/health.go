package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mfadhilr/typerace/internal/services"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates the /health endpoint handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startTime: time.Now()}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "OK",
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// roomSummary is the debug projection of one active room.
type roomSummary struct {
	Code         string `json:"code"`
	Participants int    `json:"participants"`
	Bots         int    `json:"bots"`
	MaxPlayers   int    `json:"maxPlayers"`
	Started      bool   `json:"started"`
}

// RoomsHandler serves a debug listing of active rooms.
type RoomsHandler struct {
	store *services.RoomStore
}

// NewRoomsHandler creates the /api/rooms endpoint handler.
func NewRoomsHandler(store *services.RoomStore) *RoomsHandler {
	return &RoomsHandler{store: store}
}

func (h *RoomsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rooms := h.store.Range()
	summaries := make([]roomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.Mu.Lock()
		summaries = append(summaries, roomSummary{
			Code:         room.Code,
			Participants: len(room.Players),
			Bots:         len(room.Bots),
			MaxPlayers:   room.MaxPlayers,
			Started:      room.Started,
		})
		room.Mu.Unlock()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count": len(summaries),
		"rooms": summaries,
	})
}
