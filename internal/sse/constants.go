package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for the live feed
const (
	// EventTypeDrawResolved is sent when any draw completes
	EventTypeDrawResolved = "draw.resolved"

	// EventTypeBattleStarted is sent when a battle opens for joins
	EventTypeBattleStarted = "battle.started"

	// EventTypeBattleJoined is sent when an actor takes a seat
	EventTypeBattleJoined = "battle.joined"

	// EventTypeBattleCompleted is sent when a battle winner is declared
	EventTypeBattleCompleted = "battle.completed"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
)
