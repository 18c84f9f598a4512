package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfadhilr/typerace/internal/models"
)

func TestNewRoom(t *testing.T) {
	creator := models.NewParticipant("conn-1", "alice")
	room := models.NewRoom("AB12", creator, 3)

	assert.Equal(t, "AB12", room.Code)
	assert.Equal(t, "conn-1", room.MasterID)
	assert.Equal(t, models.DefaultLanguage, room.Language)
	assert.False(t, room.Started)
	require.Len(t, room.Players, 1)
	assert.Empty(t, room.Bots)
	assert.False(t, room.CreatedAt.IsZero())
}

func TestRoomLookups(t *testing.T) {
	room := models.NewRoom("AB12", models.NewParticipant("conn-1", "alice"), 5)
	bot := models.NewBot("bot_1", "Speedy_0", models.DifficultyMedium)
	room.Players = append(room.Players, bot)
	room.Bots = append(room.Bots, bot)
	room.Players = append(room.Players, models.NewParticipant("conn-2", "bob"))

	t.Run("FindByID", func(t *testing.T) {
		assert.Equal(t, "alice", room.FindByID("conn-1").Name)
		assert.Equal(t, "Speedy_0", room.FindByID("bot_1").Name)
		assert.Nil(t, room.FindByID("conn-9"))
	})

	t.Run("FindHumanByName skips bots", func(t *testing.T) {
		assert.Equal(t, "conn-2", room.FindHumanByName("bob").ID)
		assert.Nil(t, room.FindHumanByName("Speedy_0"))
	})

	t.Run("FirstHuman follows roster order past bots", func(t *testing.T) {
		assert.Equal(t, "conn-1", room.FirstHuman().ID)
		room.Remove("conn-1")
		assert.Equal(t, "conn-2", room.FirstHuman().ID)
	})

	t.Run("HumanCount excludes bots", func(t *testing.T) {
		assert.Equal(t, 1, room.HumanCount())
	})
}

func TestRoomIsFull(t *testing.T) {
	room := models.NewRoom("AB12", models.NewParticipant("conn-1", "alice"), 2)
	assert.False(t, room.IsFull())

	room.Players = append(room.Players, models.NewParticipant("conn-2", "bob"))
	assert.True(t, room.IsFull())
}

func TestRoomRemove(t *testing.T) {
	room := models.NewRoom("AB12", models.NewParticipant("conn-1", "alice"), 5)
	bot := models.NewBot("bot_1", "Speedy_0", models.DifficultyEasy)
	room.Players = append(room.Players, bot)
	room.Bots = append(room.Bots, bot)
	room.Players = append(room.Players, models.NewParticipant("conn-2", "bob"))

	t.Run("removing a bot clears both lists", func(t *testing.T) {
		removed := room.Remove("bot_1")
		require.NotNil(t, removed)
		assert.Equal(t, "bot_1", removed.ID)
		assert.Empty(t, room.Bots)
		assert.Len(t, room.Players, 2)
	})

	t.Run("order is preserved", func(t *testing.T) {
		assert.Equal(t, "conn-1", room.Players[0].ID)
		assert.Equal(t, "conn-2", room.Players[1].ID)
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		assert.Nil(t, room.Remove("conn-9"))
		assert.Len(t, room.Players, 2)
	})
}

func TestRoomRoster(t *testing.T) {
	room := models.NewRoom("AB12", models.NewParticipant("conn-1", "alice"), 3)
	roster := room.Roster()
	require.Len(t, roster, 1)

	// The roster is value copies; mutating it must not reach the room.
	roster[0].Progress = 99
	assert.Zero(t, room.Players[0].Progress)
}

func TestRoomLeaderboard(t *testing.T) {
	room := models.NewRoom("AB12", models.NewParticipant("conn-1", "alice"), 5)
	room.Players[0].Progress = 40
	for _, p := range []*models.Participant{
		{ID: "conn-2", Name: "bob", Progress: 80},
		{ID: "conn-3", Name: "carol", Progress: 40},
		{ID: "bot_1", Name: "Speedy_0", Progress: 100, IsBot: true},
	} {
		room.Players = append(room.Players, p)
	}

	board := room.Leaderboard()
	require.Len(t, board, 4)
	assert.Equal(t, "Speedy_0", board[0].Name)
	assert.Equal(t, "bob", board[1].Name)
	// Ties keep roster order: alice joined before carol.
	assert.Equal(t, "alice", board[2].Name)
	assert.Equal(t, "carol", board[3].Name)
}
