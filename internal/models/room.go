package models

import (
	"sort"
	"sync"
	"time"
)

// Room is a bounded group of participants sharing one round of text and
// one lifecycle. All field access after construction must happen with Mu
// held; handlers and timer callbacks serialize on it so no two events
// observe a room mid-mutation.
type Room struct {
	// Mu serializes every mutation and read of the fields below.
	Mu sync.Mutex `json:"-"`

	Code string `json:"code"`
	// Players is the full roster in join order, humans and bots interleaved.
	Players []*Participant `json:"players"`
	// Bots is the simulated subset of Players.
	Bots []*Participant `json:"bots"`
	// MasterID is the connection id of the participant with configuration
	// authority. Always names a non-simulated participant currently in the
	// roster, or is empty if the room is master-less.
	MasterID   string    `json:"masterId"`
	Language   Language  `json:"language"`
	GameText   string    `json:"gameText"`
	Started    bool      `json:"started"`
	MaxPlayers int       `json:"maxPlayers"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewRoom creates a room with the creator as sole participant and master.
func NewRoom(code string, creator *Participant, maxPlayers int) *Room {
	return &Room{
		Code:       code,
		Players:    []*Participant{creator},
		Bots:       []*Participant{},
		MasterID:   creator.ID,
		Language:   DefaultLanguage,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now(),
	}
}

// FindByID returns the roster entry with the given id. Caller must hold Mu.
func (r *Room) FindByID(id string) *Participant {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindHumanByName returns the first non-simulated participant with the
// given display name. Caller must hold Mu.
func (r *Room) FindHumanByName(name string) *Participant {
	for _, p := range r.Players {
		if !p.IsBot && p.Name == name {
			return p
		}
	}
	return nil
}

// FirstHuman returns the first non-simulated participant in roster order.
// Caller must hold Mu.
func (r *Room) FirstHuman() *Participant {
	for _, p := range r.Players {
		if !p.IsBot {
			return p
		}
	}
	return nil
}

// HumanCount returns the number of non-simulated participants. Caller must
// hold Mu.
func (r *Room) HumanCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// IsFull reports whether the roster is at capacity. Caller must hold Mu.
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// Remove deletes the roster entry with the given id from both Players and
// Bots, preserving order. Returns the removed participant, or nil if the
// id is unknown. Caller must hold Mu.
func (r *Room) Remove(id string) *Participant {
	var removed *Participant
	for i, p := range r.Players {
		if p.ID == id {
			removed = p
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	if removed == nil {
		return nil
	}
	for i, b := range r.Bots {
		if b.ID == id {
			r.Bots = append(r.Bots[:i], r.Bots[i+1:]...)
			break
		}
	}
	return removed
}

// Roster returns a copy of the roster for broadcasting. The copies are
// safe to marshal after Mu is released. Caller must hold Mu.
func (r *Room) Roster() []Participant {
	out := make([]Participant, len(r.Players))
	for i, p := range r.Players {
		out[i] = *p
	}
	return out
}

// LeaderboardEntry is one row of a finish-event leaderboard.
type LeaderboardEntry struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

// Leaderboard projects the roster to (name, progress) pairs sorted by
// descending progress. The sort is stable so ties keep roster order.
// Caller must hold Mu.
func (r *Room) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(r.Players))
	for i, p := range r.Players {
		entries[i] = LeaderboardEntry{Name: p.Name, Progress: p.Progress}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Progress > entries[j].Progress
	})
	return entries
}
