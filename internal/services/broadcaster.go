package services

import "github.com/mfadhilr/typerace/internal/models"

// Broadcaster is the transport port the game service emits through. The
// websocket Hub implements it in production; tests substitute a recorder.
type Broadcaster interface {
	// JoinRoom adds a connection to a room's broadcast group.
	JoinRoom(code, connID string)
	// LeaveRoom removes a connection from a room's broadcast group.
	LeaveRoom(code, connID string)
	// Broadcast sends a message to every connection in a room.
	Broadcast(code string, msg *models.WSMessage)
	// SendTo sends a message to a single connection.
	SendTo(connID string, msg *models.WSMessage)
}
