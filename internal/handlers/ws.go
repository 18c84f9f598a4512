// Package handlers exposes the HTTP and websocket surface of the race
// server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/models"
	"github.com/mfadhilr/typerace/internal/security"
	"github.com/mfadhilr/typerace/internal/services"
)

// WSHandler upgrades connections and dispatches inbound events to the
// room state machine.
type WSHandler struct {
	hub    *services.Hub
	game   *services.GameService
	logger *zap.Logger
}

// NewWSHandler creates the websocket endpoint handler.
func NewWSHandler(hub *services.Hub, game *services.GameService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		game:   game,
		logger: logger,
	}
}

// ServeHTTP accepts a websocket connection, mints its opaque connection
// id, and runs the client pumps until the connection drops.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	client := services.NewClient(connID, conn, h.hub, h.logger, h.dispatch, h.game.HandleDisconnect)
	h.hub.AddClient(client)

	h.logger.Info("connection established", zap.String("conn", connID))
	client.Start()
	h.logger.Info("connection closed", zap.String("conn", connID))
}

// dispatch decodes one inbound envelope and routes it. Rejected requests
// are reported privately to the sender; malformed frames are dropped.
func (h *WSHandler) dispatch(connID string, data []byte) {
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Debug("malformed message", zap.String("conn", connID), zap.Error(err))
		return
	}

	switch msg.Type {
	case models.MsgTypeCreateRoom:
		var p models.CreateRoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		name, code, ok := h.validateIdentity(connID, p.Name, p.Code)
		if !ok {
			return
		}
		h.game.CreateRoom(connID, name, code)

	case models.MsgTypeJoinRoom:
		var p models.JoinRoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		name, code, ok := h.validateIdentity(connID, p.Name, p.Code)
		if !ok {
			return
		}
		h.reportError(connID, h.game.JoinRoom(connID, name, code), models.MsgTypeError)

	case models.MsgTypeRejoinRoom:
		var p models.JoinRoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		name, code, ok := h.validateIdentity(connID, p.Name, p.Code)
		if !ok {
			return
		}
		h.reportError(connID, h.game.RejoinRoom(connID, name, code), models.MsgTypeRejoinFailed)

	case models.MsgTypeChangeLanguage:
		var p models.ChangeLanguagePayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.reportError(connID, h.game.ChangeLanguage(connID, p.Code, p.Language), models.MsgTypeError)

	case models.MsgTypeChangeMaxPlayers:
		var p models.ChangeMaxPlayersPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.reportError(connID, h.game.ChangeMaxPlayers(connID, p.Code, p.MaxPlayers), models.MsgTypeError)

	case models.MsgTypeAddBot:
		var p models.AddBotPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.reportError(connID, h.game.AddBot(connID, p.Code, p.Difficulty), models.MsgTypeError)

	case models.MsgTypeRemoveBot:
		var p models.RemoveBotPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.reportError(connID, h.game.RemoveBot(connID, p.Code, p.BotID), models.MsgTypeError)

	case models.MsgTypeLeaveRoom:
		var p models.RoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.game.LeaveRoom(connID, p.Code)

	case models.MsgTypeStartGame:
		var p models.RoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.reportError(connID, h.game.StartGame(context.Background(), connID, p.Code), models.MsgTypeError)

	case models.MsgTypeUpdateProgress:
		var p models.UpdateProgressPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.game.UpdateProgress(connID, p.Code, p.Progress)

	case models.MsgTypePlayerFinished:
		var p models.RoomPayload
		if !h.decode(connID, msg.Payload, &p) {
			return
		}
		h.game.PlayerFinished(connID, p.Code)

	default:
		h.logger.Debug("unknown message type",
			zap.String("conn", connID),
			zap.String("type", msg.Type))
	}
}

// decode unmarshals a payload, reporting a private error on failure.
func (h *WSHandler) decode(connID string, raw json.RawMessage, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		h.sendError(connID, models.MsgTypeError, "invalid payload")
		return false
	}
	return true
}

// validateIdentity checks the (name, code) pair carried by join-type
// events.
func (h *WSHandler) validateIdentity(connID, name, code string) (string, string, bool) {
	validName, err := security.ValidateName(name)
	if err != nil {
		h.sendError(connID, models.MsgTypeError, err.Error())
		return "", "", false
	}
	validCode, err := security.ValidateRoomCode(code)
	if err != nil {
		h.sendError(connID, models.MsgTypeError, err.Error())
		return "", "", false
	}
	return validName, validCode, true
}

// reportError forwards a rejected-request error privately to the caller.
// A nil error means the operation succeeded or was a designed no-op.
func (h *WSHandler) reportError(connID string, err error, msgType string) {
	if err == nil {
		return
	}
	if !isRejectedRequest(err) {
		h.logger.Error("unexpected handler error", zap.String("conn", connID), zap.Error(err))
	}
	h.sendError(connID, msgType, err.Error())
}

func (h *WSHandler) sendError(connID, msgType, message string) {
	h.hub.SendTo(connID, models.NewWSMessage(msgType, models.ErrorPayload{Message: message}))
}

func isRejectedRequest(err error) bool {
	return errors.Is(err, services.ErrRoomNotFound) ||
		errors.Is(err, services.ErrRoomFull) ||
		errors.Is(err, services.ErrAlreadyStarted) ||
		errors.Is(err, services.ErrUnauthorized) ||
		errors.Is(err, services.ErrInvalidValue) ||
		errors.Is(err, services.ErrNotEnoughParticipants)
}
