package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/config"
	"github.com/mfadhilr/typerace/internal/models"
	"github.com/mfadhilr/typerace/internal/textgen"
)

// GameService is the room state machine. Every inbound client event and
// every timer callback funnels through it; per-room serialization is
// provided by each Room's mutex, which the service holds for the mutating
// section of each operation and releases before touching the transport.
type GameService struct {
	store       *RoomStore
	registry    *ConnectionRegistry
	broadcaster Broadcaster
	generator   textgen.Generator
	bots        *BotEngine
	grace       *GraceCoordinator
	metrics     *Metrics
	logger      *zap.Logger

	textGenTimeout time.Duration
}

// NewGameService wires the state machine to its collaborators.
func NewGameService(
	store *RoomStore,
	registry *ConnectionRegistry,
	broadcaster Broadcaster,
	generator textgen.Generator,
	bots *BotEngine,
	grace *GraceCoordinator,
	metrics *Metrics,
	textGenTimeout time.Duration,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		store:          store,
		registry:       registry,
		broadcaster:    broadcaster,
		generator:      generator,
		bots:           bots,
		grace:          grace,
		metrics:        metrics,
		logger:         logger,
		textGenTimeout: textGenTimeout,
	}
}

// CreateRoom creates a room with the caller as sole participant and
// master. A duplicate code is a silent no-op: the first creator wins and
// the late caller gets no emission at all.
func (g *GameService) CreateRoom(connID, name, code string) {
	creator := models.NewParticipant(connID, name)
	room := models.NewRoom(code, creator, config.DefaultMaxPlayers)

	if !g.store.Create(room) {
		g.logger.Debug("duplicate create_room ignored",
			zap.String("room", code),
			zap.String("conn", connID))
		return
	}
	g.metrics.IncrementRooms()

	g.registry.Join(connID, code)
	g.broadcaster.JoinRoom(code, connID)

	room.Mu.Lock()
	ack := g.snapshotLocked(room, connID)
	room.Mu.Unlock()

	g.broadcaster.SendTo(connID, models.NewWSMessage(models.MsgTypeRoomCreated, ack))

	g.logger.Info("room created",
		zap.String("room", code),
		zap.String("creator", name))
}

// JoinRoom appends the caller to the roster. Fails when the room is
// absent, at capacity, or already racing.
func (g *GameService) JoinRoom(connID, name, code string) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.IsFull() {
		room.Mu.Unlock()
		return ErrRoomFull
	}
	if room.Started {
		room.Mu.Unlock()
		return ErrAlreadyStarted
	}

	joiner := models.NewParticipant(connID, name)
	room.Players = append(room.Players, joiner)

	roster := room.Roster()
	ack := g.snapshotLocked(room, connID)
	room.Mu.Unlock()

	g.registry.Join(connID, code)
	g.broadcaster.JoinRoom(code, connID)

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeParticipantJoined, models.RosterChangePayload{
		Participants: roster,
		Name:         name,
	}))
	g.broadcaster.SendTo(connID, models.NewWSMessage(models.MsgTypeRoomJoined, ack))

	g.logger.Info("participant joined",
		zap.String("room", code),
		zap.String("name", name))
	return nil
}

// RejoinRoom is the idempotent recovery path for a refreshed client. If a
// human participant with the same display name is still in the roster,
// the caller resumes that identity: the pending disconnect is cancelled,
// the connection id is rebound, and only a private acknowledgment is
// emitted so the rest of the room never sees a phantom join. With no
// matching participant it degrades to an ordinary join.
func (g *GameService) RejoinRoom(connID, name, code string) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	existing := room.FindHumanByName(name)
	if existing == nil {
		room.Mu.Unlock()
		return g.JoinRoom(connID, name, code)
	}

	g.grace.Cancel(code, name)

	oldID := existing.ID
	existing.ID = connID
	if room.MasterID == oldID {
		room.MasterID = connID
	}
	ack := g.snapshotLocked(room, connID)
	room.Mu.Unlock()

	g.registry.Leave(oldID, code)
	g.registry.Join(connID, code)
	g.broadcaster.JoinRoom(code, connID)

	g.broadcaster.SendTo(connID, models.NewWSMessage(models.MsgTypeRoomJoined, ack))

	g.logger.Info("participant rejoined",
		zap.String("room", code),
		zap.String("name", name),
		zap.String("conn", connID))
	return nil
}

// ChangeLanguage updates the round text language. Master only.
func (g *GameService) ChangeLanguage(connID, code string, language models.Language) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.MasterID != connID {
		room.Mu.Unlock()
		return ErrUnauthorized
	}
	room.Language = language
	room.Mu.Unlock()

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeLanguageChanged, models.ValueChangedPayload{Value: language}))
	return nil
}

// ChangeMaxPlayers updates room capacity. Master only; the new value must
// stay within bounds and must not undercut the current roster.
func (g *GameService) ChangeMaxPlayers(connID, code string, maxPlayers int) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.MasterID != connID {
		room.Mu.Unlock()
		return ErrUnauthorized
	}
	if maxPlayers < config.MinMaxPlayers || maxPlayers > config.MaxMaxPlayers || maxPlayers < len(room.Players) {
		room.Mu.Unlock()
		return ErrInvalidValue
	}
	room.MaxPlayers = maxPlayers
	room.Mu.Unlock()

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeMaxPlayersChanged, models.ValueChangedPayload{Value: maxPlayers}))
	return nil
}

// AddBot appends a simulated participant. Master only; capacity applies
// to bots the same as to humans.
func (g *GameService) AddBot(connID, code string, difficulty models.Difficulty) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.MasterID != connID {
		room.Mu.Unlock()
		return ErrUnauthorized
	}
	if room.IsFull() {
		room.Mu.Unlock()
		return ErrRoomFull
	}

	bot := models.NewBot("bot_"+uuid.NewString(), BotName(difficulty, len(room.Bots)), difficulty)
	room.Players = append(room.Players, bot)
	room.Bots = append(room.Bots, bot)

	botCopy := *bot
	roster := room.Roster()
	room.Mu.Unlock()

	g.metrics.IncrementBots()
	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeBotAdded, models.BotChangePayload{
		Bot:          &botCopy,
		Participants: roster,
	}))

	g.logger.Info("bot added",
		zap.String("room", code),
		zap.String("bot", bot.Name),
		zap.String("difficulty", string(difficulty)))
	return nil
}

// RemoveBot removes a simulated participant. Master only; an unknown or
// non-bot id is a silent no-op.
func (g *GameService) RemoveBot(connID, code, botID string) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.MasterID != connID {
		room.Mu.Unlock()
		return ErrUnauthorized
	}

	bot := room.FindByID(botID)
	if bot == nil || !bot.IsBot {
		room.Mu.Unlock()
		return nil
	}
	room.Remove(botID)
	roster := room.Roster()
	room.Mu.Unlock()

	g.metrics.DecrementBots()
	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeBotRemoved, models.BotChangePayload{
		Participants: roster,
	}))
	return nil
}

// LeaveRoom removes the caller from the roster, reassigning mastership or
// tearing the room down as needed, and acknowledges the leaver privately.
// Leaving a room one is not in is a silent no-op.
func (g *GameService) LeaveRoom(connID, code string) {
	room, ok := g.store.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	p := room.FindByID(connID)
	if p == nil {
		room.Mu.Unlock()
		return
	}

	g.grace.Cancel(code, p.Name)
	room.Remove(connID)
	outcome := g.settleRemovalLocked(room, p)
	room.Mu.Unlock()

	g.registry.Leave(connID, code)
	g.broadcaster.LeaveRoom(code, connID)

	g.finishRemoval(code, p.Name, outcome)

	g.broadcaster.SendTo(connID, models.NewWSMessage(models.MsgTypeLeftRoom, models.LeftRoomPayload{Code: code}))

	g.logger.Info("participant left",
		zap.String("room", code),
		zap.String("name", p.Name))
}

// StartGame starts the round. Master only, and at least two participants
// must be present. Text generation failure is absorbed into the
// per-language fallback; once authorized the round always starts.
func (g *GameService) StartGame(ctx context.Context, connID, code string) error {
	room, ok := g.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	if room.MasterID != connID {
		room.Mu.Unlock()
		return ErrUnauthorized
	}
	if len(room.Players) < config.MinPlayersToStart {
		room.Mu.Unlock()
		return ErrNotEnoughParticipants
	}

	room.Started = true
	language := room.Language
	hasBots := len(room.Bots) > 0
	room.Mu.Unlock()

	// The only suspension point in the state machine. The room is already
	// marked started, so no join or second start can race on it while the
	// generator call is pending.
	genCtx, cancel := context.WithTimeout(ctx, g.textGenTimeout)
	text, err := g.generator.Generate(genCtx, language)
	cancel()
	if err != nil {
		text = textgen.Fallback(language)
		g.logger.Warn("text generation failed, using fallback",
			zap.String("room", code),
			zap.String("language", string(language)),
			zap.Error(err))
	}

	room.Mu.Lock()
	room.GameText = text
	room.Mu.Unlock()

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeGameStarted, models.GameStartedPayload{RoundText: text}))

	if hasBots {
		g.bots.StartRound(code, text)
	}

	g.logger.Info("game started",
		zap.String("room", code),
		zap.String("language", string(language)),
		zap.Int("textLen", len(text)))
	return nil
}

// UpdateProgress stores the caller's progress verbatim and broadcasts it.
// Non-participants are ignored.
func (g *GameService) UpdateProgress(connID, code string, progress float64) {
	room, ok := g.store.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	p := room.FindByID(connID)
	if p == nil {
		room.Mu.Unlock()
		return
	}
	p.Progress = progress
	name := p.Name
	room.Mu.Unlock()

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeProgressUpdated, models.ProgressUpdatedPayload{
		ID:       connID,
		Name:     name,
		Progress: progress,
	}))
}

// PlayerFinished latches the caller's finished flag and broadcasts the
// leaderboard. Repeat calls after latching are no-ops.
func (g *GameService) PlayerFinished(connID, code string) {
	room, ok := g.store.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	p := room.FindByID(connID)
	if p == nil || p.Finished {
		room.Mu.Unlock()
		return
	}
	p.Finished = true
	name := p.Name
	leaderboard := room.Leaderboard()
	room.Mu.Unlock()

	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeParticipantFinished, models.ParticipantFinishedPayload{
		Name:        name,
		Leaderboard: leaderboard,
	}))

	g.logger.Info("participant finished",
		zap.String("room", code),
		zap.String("name", name))
}

// HandleDisconnect routes a transport-level disconnect. Human
// participants keep their roster slot for the grace window; simulated
// ones are removed immediately. Every room the registry associates with
// the connection is evaluated.
func (g *GameService) HandleDisconnect(connID string) {
	codes := g.registry.Rooms(connID)
	g.registry.Drop(connID)

	for _, code := range codes {
		room, ok := g.store.Get(code)
		if !ok {
			continue
		}

		room.Mu.Lock()
		p := room.FindByID(connID)
		if p == nil {
			room.Mu.Unlock()
			continue
		}

		if p.IsBot {
			room.Remove(connID)
			outcome := g.settleRemovalLocked(room, p)
			room.Mu.Unlock()
			g.finishRemoval(code, p.Name, outcome)
			continue
		}

		name := p.Name
		room.Mu.Unlock()

		g.grace.Schedule(code, name, connID, g.removeStale)
		g.logger.Info("participant disconnected, grace period started",
			zap.String("room", code),
			zap.String("name", name))
	}
}

// removeStale fires when a grace window elapses without rejoin. It
// re-validates that the roster entry still carries the connection id that
// disconnected; a name rebound through another flow wins and the timer
// does nothing.
func (g *GameService) removeStale(code, name, connID string) {
	room, ok := g.store.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	p := room.FindHumanByName(name)
	if p == nil || p.ID != connID {
		room.Mu.Unlock()
		return
	}

	room.Remove(p.ID)
	outcome := g.settleRemovalLocked(room, p)
	room.Mu.Unlock()

	g.finishRemoval(code, name, outcome)

	g.logger.Info("grace period expired, participant removed",
		zap.String("room", code),
		zap.String("name", name))
}

// removalOutcome carries what a roster removal decided while the room
// lock was held, so the broadcasts can happen after release.
type removalOutcome struct {
	deleted   bool
	newMaster *models.NewMasterPayload
	roster    []models.Participant
}

// settleRemovalLocked applies the post-removal rules: a room whose human
// count reached zero is torn down; otherwise a departing master hands
// authority to the first remaining non-simulated participant in roster
// order. Caller must hold room.Mu and have already removed departed.
func (g *GameService) settleRemovalLocked(room *models.Room, departed *models.Participant) removalOutcome {
	if room.HumanCount() == 0 {
		return removalOutcome{deleted: true}
	}

	var newMaster *models.NewMasterPayload
	if room.MasterID == departed.ID {
		first := room.FirstHuman()
		room.MasterID = first.ID
		newMaster = &models.NewMasterPayload{ID: first.ID, Name: first.Name}
	}

	return removalOutcome{
		newMaster: newMaster,
		roster:    room.Roster(),
	}
}

// finishRemoval emits the broadcasts decided by settleRemovalLocked and
// deletes the room when it emptied. Bot timers notice the deletion on
// their next tick and stop silently.
func (g *GameService) finishRemoval(code, name string, outcome removalOutcome) {
	if outcome.deleted {
		g.store.Delete(code)
		g.metrics.DecrementRooms()
		g.logger.Info("room deleted", zap.String("room", code))
		return
	}

	if outcome.newMaster != nil {
		g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeNewMasterAssigned, *outcome.newMaster))
	}
	g.broadcaster.Broadcast(code, models.NewWSMessage(models.MsgTypeParticipantLeft, models.RosterChangePayload{
		Participants: outcome.roster,
		Name:         name,
	}))
}

// snapshotLocked builds the private acknowledgment payload for connID.
// Caller must hold room.Mu.
func (g *GameService) snapshotLocked(room *models.Room, connID string) models.RoomSnapshotPayload {
	return models.RoomSnapshotPayload{
		Code:         room.Code,
		IsMaster:     room.MasterID == connID,
		Participants: room.Roster(),
		MaxPlayers:   room.MaxPlayers,
		Language:     room.Language,
	}
}
