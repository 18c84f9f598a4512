package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/models"
	"github.com/mfadhilr/typerace/internal/services"
)

func TestTickInterval(t *testing.T) {
	engine := services.NewBotEngine(services.NewRoomStore(), newFakeBroadcaster(), time.Second, zap.NewNop())

	assert.Equal(t, time.Second, engine.TickInterval(models.DifficultyEasy))
	assert.Equal(t, 500*time.Millisecond, engine.TickInterval(models.DifficultyMedium))
	// Unknown tiers pace like medium.
	assert.Equal(t, 500*time.Millisecond, engine.TickInterval(models.Difficulty("nightmare")))
}

func TestBotName(t *testing.T) {
	name := services.BotName(models.DifficultyEasy, 2)
	assert.True(t, strings.HasSuffix(name, "_2"), "name %q should carry the index suffix", name)
}

func TestBotEngine_RunsToCompletion(t *testing.T) {
	env := newTestEnv(t, withBotTickBase(10*time.Millisecond))
	env.game.CreateRoom("conn-1", "alice", "AB12")
	require.NoError(t, env.game.JoinRoom("conn-2", "bob", "AB12"))
	require.NoError(t, env.game.AddBot("conn-1", "AB12", models.DifficultyHard))

	require.NoError(t, env.game.StartGame(context.Background(), "conn-1", "AB12"))

	room := env.mustRoom(t, "AB12")
	room.Mu.Lock()
	botID := room.Bots[0].ID
	room.Mu.Unlock()

	require.Eventually(t, func() bool {
		room.Mu.Lock()
		defer room.Mu.Unlock()
		bot := room.FindByID(botID)
		return bot != nil && bot.Finished
	}, 5*time.Second, 10*time.Millisecond)

	room.Mu.Lock()
	bot := room.FindByID(botID)
	assert.Equal(t, 100.0, bot.Progress)
	room.Mu.Unlock()

	// Monotone non-decreasing progress, finish event exactly once.
	updates := env.bc.broadcastsOfType("AB12", models.MsgTypeProgressUpdated)
	require.NotEmpty(t, updates)
	last := -1.0
	for _, raw := range updates {
		payload := decodeInto[models.ProgressUpdatedPayload](t, raw)
		require.Equal(t, botID, payload.ID)
		require.GreaterOrEqual(t, payload.Progress, last)
		last = payload.Progress
	}
	assert.Equal(t, 100.0, last)

	finished := env.bc.broadcastsOfType("AB12", models.MsgTypeParticipantFinished)
	require.Len(t, finished, 1)
	payload := decodeInto[models.ParticipantFinishedPayload](t, finished[0])
	assert.NotEmpty(t, payload.Leaderboard)
	assert.Equal(t, 100.0, payload.Leaderboard[0].Progress)
}

func TestBotEngine_StopsWhenBotRemoved(t *testing.T) {
	env := newTestEnv(t, withBotTickBase(500*time.Millisecond))
	env.game.CreateRoom("conn-1", "alice", "AB12")
	require.NoError(t, env.game.JoinRoom("conn-2", "bob", "AB12"))
	require.NoError(t, env.game.AddBot("conn-1", "AB12", models.DifficultyEasy))

	room := env.mustRoom(t, "AB12")
	room.Mu.Lock()
	botID := room.Bots[0].ID
	room.Mu.Unlock()

	require.NoError(t, env.game.StartGame(context.Background(), "conn-1", "AB12"))

	// Pull the bot out before its first slow tick lands.
	require.NoError(t, env.game.RemoveBot("conn-1", "AB12", botID))

	time.Sleep(1200 * time.Millisecond)
	assert.Empty(t, env.bc.broadcastsOfType("AB12", models.MsgTypeProgressUpdated))
}

func TestBotEngine_StopsWhenRoomDeleted(t *testing.T) {
	env := newTestEnv(t, withBotTickBase(500*time.Millisecond))
	env.game.CreateRoom("conn-1", "alice", "AB12")
	require.NoError(t, env.game.JoinRoom("conn-2", "bob", "AB12"))
	require.NoError(t, env.game.AddBot("conn-1", "AB12", models.DifficultyEasy))
	require.NoError(t, env.game.StartGame(context.Background(), "conn-1", "AB12"))

	env.game.LeaveRoom("conn-1", "AB12")
	env.game.LeaveRoom("conn-2", "AB12")
	_, ok := env.store.Get("AB12")
	require.False(t, ok)

	before := len(env.bc.broadcastsOfType("AB12", models.MsgTypeProgressUpdated))
	time.Sleep(1200 * time.Millisecond)
	after := len(env.bc.broadcastsOfType("AB12", models.MsgTypeProgressUpdated))
	assert.Equal(t, before, after)
}

func TestBotEngine_EmptyTextTerminates(t *testing.T) {
	env := newTestEnv(t, withBotTickBase(10*time.Millisecond), withGenerator(staticGenerator{text: "   "}))
	env.game.CreateRoom("conn-1", "alice", "AB12")
	require.NoError(t, env.game.JoinRoom("conn-2", "bob", "AB12"))
	require.NoError(t, env.game.AddBot("conn-1", "AB12", models.DifficultyMedium))

	require.NoError(t, env.game.StartGame(context.Background(), "conn-1", "AB12"))

	// Whitespace-only text counts as a single word: one tick finishes the bot.
	require.Eventually(t, func() bool {
		return len(env.bc.broadcastsOfType("AB12", models.MsgTypeParticipantFinished)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
