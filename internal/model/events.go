package model

import (
	"encoding/json"
	"time"
)

// EventType identifies a wire event
type EventType string

const (
	// Server -> client
	EventInit   EventType = "init"
	EventJoined EventType = "joined"
	EventMoved  EventType = "moved"
	EventLeft   EventType = "left"
	EventChat   EventType = "chat"

	// Client -> server ("chat" is reused in both directions)
	EventMove EventType = "move"
)

// ServerEvent is the envelope for every server -> client message
type ServerEvent struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// ClientEvent is the envelope for every client -> server message.
// Data is left raw so each handler can validate its own payload shape.
type ClientEvent struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// InitPayload maps every active connection (including the recipient's own)
// to its current player state
type InitPayload map[ConnectionID]PlayerState

// JoinedPayload announces a newly admitted player to everyone else
type JoinedPayload struct {
	PlayerID    PlayerID `json:"playerId"`
	DisplayName string   `json:"displayName"`
	Position
}

// MovedPayload announces a position change to everyone but the mover
type MovedPayload struct {
	PlayerID    PlayerID `json:"playerId"`
	DisplayName string   `json:"displayName"`
	Position
}

// LeftPayload announces a departed player
type LeftPayload struct {
	PlayerID PlayerID `json:"playerId"`
}

// ChatMessage is a relayed chat line. Sender identity and timestamp are
// stamped server-side; a client-supplied sender field is never trusted.
// Forwarded immediately, never stored.
type ChatMessage struct {
	SenderID   PlayerID  `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// MovePayload is the client-reported position update
type MovePayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsRunning bool    `json:"isRunning,omitempty"`
}

// ChatPayload is the client-submitted chat text
type ChatPayload struct {
	Text string `json:"text"`
}
