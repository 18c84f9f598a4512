package config

import "time"

// Room and roster constraints
const (
	DefaultMaxPlayers = 3
	MinMaxPlayers     = 2
	MaxMaxPlayers     = 5
	MinPlayersToStart = 2
)

// WebSocket connection limits and constraints
const (
	// Rate limiting
	MaxMessagesPerSecond = 20
	RateLimitWindow      = time.Second

	// Timeouts
	WriteTimeout = 10 * time.Second
	ReadTimeout  = 90 * time.Second
	PingInterval = 30 * time.Second

	// Channel buffers
	ClientSendBufferSize   = 256
	HubBroadcastBufferSize = 256
)
