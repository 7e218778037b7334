package model

import "time"

// PlayerID uniquely identifies a player account across the system
type PlayerID string

// ConnectionID identifies one live websocket session. It is unique per
// socket, never reused, and never persisted.
type ConnectionID string

// Role is a player account's permission level
type Role string

const (
	RolePlayer    Role = "player"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Identity is the resolved result of validating an identity token:
// who the connection claims to be, as asserted by the Account Directory.
type Identity struct {
	PlayerID    PlayerID
	DisplayName string
	Role        Role
}

// Position is a point on the shared 2D plane
type Position struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsRunning bool    `json:"isRunning"`
}

// SpawnPosition is where a player appears when no saved position exists
func SpawnPosition() Position {
	return Position{X: 20, Y: 20}
}

// PlayerState is the authoritative in-world state for one active connection.
// Owned by the world registry; mutated only by the owning connection's move
// events or by disconnect removal.
type PlayerState struct {
	PlayerID    PlayerID `json:"playerId"`
	DisplayName string   `json:"displayName"`
	Position
}

// Account is a registered player account
type Account struct {
	ID          PlayerID
	Username    string
	DisplayName string
	Email       string
	Role        Role
	IsActive    bool
	CreatedAt   time.Time
	LastLogin   time.Time
}

// Credentials holds the password hash for an account.
// Stored separately so account lookups never carry the hash around.
type Credentials struct {
	PlayerID     PlayerID
	PasswordHash string // bcrypt hash
	UpdatedAt    time.Time
}
