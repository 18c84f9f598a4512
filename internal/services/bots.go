package services

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/models"
)

// wordsPerSecond maps a difficulty tier to typing speed.
var wordsPerSecond = map[models.Difficulty]float64{
	models.DifficultyEasy:   1.0, // ~30 WPM
	models.DifficultyMedium: 2.0, // ~50 WPM
	models.DifficultyHard:   3.0, // ~80 WPM
}

// botNamePools holds display name candidates per difficulty.
var botNamePools = map[models.Difficulty][]string{
	models.DifficultyEasy:   {"EasyBot", "Slowy", "Beginner"},
	models.DifficultyMedium: {"MedBot", "Speedy", "Racer"},
	models.DifficultyHard:   {"HardBot", "Lightning", "Pro"},
}

// BotName picks a display name for the n-th bot of a room.
func BotName(difficulty models.Difficulty, n int) string {
	pool, ok := botNamePools[difficulty]
	if !ok {
		pool = botNamePools[models.DifficultyMedium]
	}
	name := pool[rand.Intn(len(pool))]
	return name + "_" + strconv.Itoa(n)
}

// BotEngine drives simulated participants through a round. Each bot runs
// an independent ticker goroutine that re-acquires the room lock on every
// tick and re-validates that the bot is still in the roster before
// mutating anything, so a removed bot or deleted room stops the timer
// silently.
type BotEngine struct {
	store       *RoomStore
	broadcaster Broadcaster
	logger      *zap.Logger
	// tickBase is the interval of a 1 word/sec bot. Production uses one
	// second; tests shrink it.
	tickBase time.Duration
}

// NewBotEngine creates an engine over the given store and transport.
func NewBotEngine(store *RoomStore, broadcaster Broadcaster, tickBase time.Duration, logger *zap.Logger) *BotEngine {
	return &BotEngine{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
		tickBase:    tickBase,
	}
}

// TickInterval derives the fixed cadence for a difficulty tier. Unknown
// tiers pace like medium.
func (e *BotEngine) TickInterval(difficulty models.Difficulty) time.Duration {
	wps, ok := wordsPerSecond[difficulty]
	if !ok {
		wps = wordsPerSecond[models.DifficultyMedium]
	}
	return time.Duration(float64(e.tickBase) / wps)
}

// StartRound launches one progress goroutine per simulated participant
// currently in the room. Must be called after the round text is final.
func (e *BotEngine) StartRound(code, text string) {
	room, ok := e.store.Get(code)
	if !ok {
		return
	}

	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		// An empty round text still has to terminate every bot.
		totalWords = 1
	}

	room.Mu.Lock()
	bots := make([]*models.Participant, len(room.Bots))
	copy(bots, room.Bots)
	room.Mu.Unlock()

	for _, bot := range bots {
		go e.run(code, bot.ID, totalWords, e.TickInterval(bot.Difficulty))
	}
}

// run is the per-bot tick loop.
func (e *BotEngine) run(code, botID string, totalWords int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wordsTyped := 0
	for range ticker.C {
		room, ok := e.store.Get(code)
		if !ok {
			return
		}

		room.Mu.Lock()
		bot := room.FindByID(botID)
		if bot == nil {
			room.Mu.Unlock()
			return
		}

		wordsTyped++
		progress := float64(wordsTyped) / float64(totalWords) * 100
		if progress > 100 {
			progress = 100
		}
		bot.Progress = progress
		name := bot.Name

		finished := wordsTyped >= totalWords
		var leaderboard []models.LeaderboardEntry
		if finished {
			bot.Finished = true
			leaderboard = room.Leaderboard()
		}
		room.Mu.Unlock()

		e.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeProgressUpdated, models.ProgressUpdatedPayload{
			ID:       botID,
			Name:     name,
			Progress: progress,
		}))

		if finished {
			e.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeParticipantFinished, models.ParticipantFinishedPayload{
				Name:        name,
				Leaderboard: leaderboard,
			}))
			e.logger.Info("bot finished",
				zap.String("room", code),
				zap.String("bot", name))
			return
		}
	}
}
