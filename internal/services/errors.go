package services

import "errors"

// Rejected-request errors. Each is reported privately to the requesting
// connection and never mutates room state.
var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomFull              = errors.New("room is full")
	ErrAlreadyStarted        = errors.New("game already started")
	ErrUnauthorized          = errors.New("not authorized")
	ErrInvalidValue          = errors.New("invalid value")
	ErrNotEnoughParticipants = errors.New("need at least 2 players")
)
