package models

import "encoding/json"

// WSMessage is the envelope for every message in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWSMessage marshals payload into an envelope. Marshal failures are
// treated as programmer error and yield an empty payload.
func NewWSMessage(msgType string, payload any) *WSMessage {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &WSMessage{Type: msgType}
	}
	return &WSMessage{Type: msgType, Payload: raw}
}

// Client → Server message types
const (
	MsgTypeCreateRoom       = "create_room"
	MsgTypeJoinRoom         = "join_room"
	MsgTypeRejoinRoom       = "rejoin_room"
	MsgTypeChangeLanguage   = "change_language"
	MsgTypeChangeMaxPlayers = "change_max_players"
	MsgTypeAddBot           = "add_bot"
	MsgTypeRemoveBot        = "remove_bot"
	MsgTypeLeaveRoom        = "leave_room"
	MsgTypeStartGame        = "start_game"
	MsgTypeUpdateProgress   = "update_progress"
	MsgTypePlayerFinished   = "player_finished"
)

// Server → Client message types
const (
	MsgTypeRoomCreated         = "room_created"
	MsgTypeRoomJoined          = "room_joined"
	MsgTypeParticipantJoined   = "participant_joined"
	MsgTypeParticipantLeft     = "participant_left"
	MsgTypeNewMasterAssigned   = "new_master_assigned"
	MsgTypeLanguageChanged     = "language_changed"
	MsgTypeMaxPlayersChanged   = "max_players_changed"
	MsgTypeBotAdded            = "bot_added"
	MsgTypeBotRemoved          = "bot_removed"
	MsgTypeGameStarted         = "game_started"
	MsgTypeProgressUpdated     = "progress_updated"
	MsgTypeParticipantFinished = "participant_finished"
	MsgTypeLeftRoom            = "left_room"
	MsgTypeError               = "error"
	MsgTypeRejoinFailed        = "rejoin_failed"
)

// Inbound payloads

type CreateRoomPayload struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type JoinRoomPayload struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type ChangeLanguagePayload struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

type ChangeMaxPlayersPayload struct {
	Code       string `json:"code"`
	MaxPlayers int    `json:"maxPlayers"`
}

type AddBotPayload struct {
	Code       string     `json:"code"`
	Difficulty Difficulty `json:"difficulty"`
}

type RemoveBotPayload struct {
	Code  string `json:"code"`
	BotID string `json:"botId"`
}

type RoomPayload struct {
	Code string `json:"code"`
}

type UpdateProgressPayload struct {
	Code     string  `json:"code"`
	Progress float64 `json:"progress"`
}

// Outbound payloads

// RoomSnapshotPayload acknowledges room_created and room_joined with the
// full room state the client needs to render the lobby.
type RoomSnapshotPayload struct {
	Code         string        `json:"code"`
	IsMaster     bool          `json:"isMaster"`
	Participants []Participant `json:"participants"`
	MaxPlayers   int           `json:"maxPlayers"`
	Language     Language      `json:"language"`
}

type RosterChangePayload struct {
	Participants []Participant `json:"participants"`
	Name         string        `json:"name"`
}

type NewMasterPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ValueChangedPayload struct {
	Value any `json:"value"`
}

type BotChangePayload struct {
	Bot          *Participant  `json:"bot,omitempty"`
	Participants []Participant `json:"participants"`
}

type GameStartedPayload struct {
	RoundText string `json:"roundText"`
}

type ProgressUpdatedPayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

type ParticipantFinishedPayload struct {
	Name        string             `json:"name"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type LeftRoomPayload struct {
	Code string `json:"code"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
