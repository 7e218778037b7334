package world

import (
	"sync"

	"github.com/mcoot/pocketworld/internal/model"
)

// Registry is the authoritative in-memory mapping of active connection to
// player state: the source of truth for who is online and where. It is
// constructed once per server process and injected; there is no ambient
// global registry.
//
// Every entry corresponds to exactly one live connection. The reverse index
// (player id -> connection id) enforces at-most-one-active-connection per
// player and is kept in lockstep with the forward map under one lock.
type Registry struct {
	mu       sync.RWMutex
	players  map[model.ConnectionID]*model.PlayerState
	byPlayer map[model.PlayerID]model.ConnectionID
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[model.ConnectionID]*model.PlayerState),
		byPlayer: make(map[model.PlayerID]model.ConnectionID),
	}
}

// Admit registers a connection with its seeded state. Fails with
// ErrDuplicateConnection if the connection id is already present.
func (r *Registry) Admit(connID model.ConnectionID, identity model.Identity, pos model.Position) (model.PlayerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[connID]; exists {
		return model.PlayerState{}, model.ErrDuplicateConnection
	}

	state := &model.PlayerState{
		PlayerID:    identity.PlayerID,
		DisplayName: identity.DisplayName,
		Position:    pos,
	}
	r.players[connID] = state
	r.byPlayer[identity.PlayerID] = connID
	return *state, nil
}

// UpdatePosition mutates the state owned by connID. An update for a
// connection that is no longer present (an event racing a disconnect) fails
// with ErrUnknownConnection and must be dropped by the caller.
func (r *Registry) UpdatePosition(connID model.ConnectionID, pos model.Position) (model.PlayerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[connID]
	if !ok {
		return model.PlayerState{}, model.ErrUnknownConnection
	}
	state.Position = pos
	return *state, nil
}

// Get returns a copy of the state for connID
func (r *Registry) Get(connID model.ConnectionID) (model.PlayerState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.players[connID]
	if !ok {
		return model.PlayerState{}, false
	}
	return *state, true
}

// Remove deletes a connection's entry from both indexes. Idempotent: the
// second removal reports false so the caller knows not to broadcast again.
func (r *Registry) Remove(connID model.ConnectionID) (model.PlayerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[connID]
	if !ok {
		return model.PlayerState{}, false
	}
	delete(r.players, connID)
	// Only clear the reverse entry if it still points at this connection;
	// an evict-and-replace may already have repointed it
	if r.byPlayer[state.PlayerID] == connID {
		delete(r.byPlayer, state.PlayerID)
	}
	return *state, true
}

// ConnectionFor returns the live connection id for a player, if any
func (r *Registry) ConnectionFor(playerID model.PlayerID) (model.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byPlayer[playerID]
	return connID, ok
}

// Snapshot returns a point-in-time copy of all active player states keyed by
// connection id. Callers never see the live map, so no reader can observe a
// half-applied update.
func (r *Registry) Snapshot() model.InitPayload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(model.InitPayload, len(r.players))
	for connID, state := range r.players {
		snapshot[connID] = *state
	}
	return snapshot
}

// Len returns the number of active entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
