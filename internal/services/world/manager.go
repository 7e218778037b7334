package world

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mcoot/pocketworld/internal/dependencies/clock"
	"github.com/mcoot/pocketworld/internal/model"
)

// PositionBridge is the write-behind sink for last-known positions. Loads
// happen once at admission; saves are fire-and-forget and must never block
// or fail the hot broadcast path.
type PositionBridge interface {
	LoadLastPosition(ctx context.Context, playerID model.PlayerID) (model.Position, bool, error)
	EnqueueSave(playerID model.PlayerID, pos model.Position)
}

// Manager drives the per-connection session state machine
// (connecting -> authenticated -> active -> closed) and owns the side
// effects on the registry and router at each transition.
//
// Each connection's events arrive from a single read loop, so Connect, Move,
// Chat and Disconnect for one connection are never called concurrently with
// each other; calls for different connections are.
type Manager struct {
	auth     *Authenticator
	registry *Registry
	router   *Router
	bridge   PositionBridge
	clock    clock.Clock
	logger   *slog.Logger
}

// NewManager wires a session lifecycle manager
func NewManager(auth *Authenticator, registry *Registry, router *Router, bridge PositionBridge, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		auth:     auth,
		registry: registry,
		router:   router,
		bridge:   bridge,
		clock:    clk,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Connect authenticates a new connection and, on success, moves it to
// ACTIVE: seeds its position, admits it to the registry, attaches its
// sender, sends the init snapshot to it alone, and announces it to everyone
// else. On auth failure the error is returned before any registry mutation
// and the caller closes the transport with CloseReason(err).
func (m *Manager) Connect(ctx context.Context, connID model.ConnectionID, token string, sender Sender) (model.PlayerState, error) {
	identity, err := m.auth.Authenticate(ctx, token)
	if err != nil {
		return model.PlayerState{}, err
	}

	// Duplicate-login policy: evict-and-replace. The newer session wins;
	// the older one is closed and announced as left before the new one
	// is admitted.
	if oldConn, ok := m.registry.ConnectionFor(identity.PlayerID); ok {
		m.logger.Info("evicting prior session",
			slog.String("player_id", string(identity.PlayerID)),
			slog.String("connection_id", string(oldConn)))
		m.evict(oldConn)
	}

	pos := m.seedPosition(ctx, identity.PlayerID)

	state, err := m.registry.Admit(connID, identity, pos)
	if err != nil {
		m.logger.Warn("admission refused",
			slog.String("connection_id", string(connID)),
			slog.Any("error", err))
		return model.PlayerState{}, err
	}

	m.router.Attach(connID, sender)
	m.router.SendTo(connID, model.ServerEvent{Type: model.EventInit, Data: m.registry.Snapshot()})
	m.router.BroadcastExcept(connID, model.ServerEvent{Type: model.EventJoined, Data: model.JoinedPayload{
		PlayerID:    state.PlayerID,
		DisplayName: state.DisplayName,
		Position:    state.Position,
	}})

	m.logger.Info("player joined",
		slog.String("player_id", string(state.PlayerID)),
		slog.String("connection_id", string(connID)),
		slog.Int("online", m.registry.Len()))
	return state, nil
}

// Move applies a client-reported position update. Malformed payloads are
// dropped and logged; the connection stays active. The update is broadcast
// to everyone but the sender (the sender already applied it locally) and
// queued to the persistence bridge off the hot path.
func (m *Manager) Move(connID model.ConnectionID, raw json.RawMessage) {
	pos, err := parseMove(raw)
	if err != nil {
		m.logger.Warn("move dropped",
			slog.String("connection_id", string(connID)),
			slog.Any("error", err))
		return
	}

	state, err := m.registry.UpdatePosition(connID, pos)
	if err != nil {
		// Event raced a disconnect; drop it
		m.logger.Warn("move for unknown connection dropped",
			slog.String("connection_id", string(connID)))
		return
	}

	m.router.BroadcastExcept(connID, model.ServerEvent{Type: model.EventMoved, Data: model.MovedPayload{
		PlayerID:    state.PlayerID,
		DisplayName: state.DisplayName,
		Position:    state.Position,
	}})

	m.bridge.EnqueueSave(state.PlayerID, state.Position)
}

// Chat relays a chat line to every active connection including the sender.
// Sender identity and timestamp are stamped server-side; empty text is
// dropped.
func (m *Manager) Chat(connID model.ConnectionID, raw json.RawMessage) {
	var payload model.ChatPayload
	if err := json.Unmarshal(raw, &payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		m.logger.Warn("chat dropped",
			slog.String("connection_id", string(connID)),
			slog.Any("error", model.ErrMalformedPayload))
		return
	}

	state, ok := m.registry.Get(connID)
	if !ok {
		m.logger.Warn("chat for unknown connection dropped",
			slog.String("connection_id", string(connID)))
		return
	}

	m.router.BroadcastAll(model.ServerEvent{Type: model.EventChat, Data: model.ChatMessage{
		SenderID:   state.PlayerID,
		SenderName: state.DisplayName,
		Text:       payload.Text,
		Timestamp:  m.clock.Now(),
	}})
}

// Disconnect moves a connection to CLOSED: removes it from the registry,
// detaches its sender, flushes its final position, and announces the
// departure to everyone still active. Idempotent: a double close broadcasts
// left exactly once.
func (m *Manager) Disconnect(connID model.ConnectionID) {
	// The transport owns its own shutdown; the router just stops routing
	m.router.Detach(connID)

	state, removed := m.registry.Remove(connID)
	if !removed {
		return
	}

	m.bridge.EnqueueSave(state.PlayerID, state.Position)
	m.router.BroadcastAll(model.ServerEvent{Type: model.EventLeft, Data: model.LeftPayload{PlayerID: state.PlayerID}})

	m.logger.Info("player left",
		slog.String("player_id", string(state.PlayerID)),
		slog.String("connection_id", string(connID)),
		slog.Int("online", m.registry.Len()))
}

// Registry exposes the registry for read-side consumers (handlers, tests)
func (m *Manager) Registry() *Registry {
	return m.registry
}

// evict closes and removes a superseded connection
func (m *Manager) evict(connID model.ConnectionID) {
	sender := m.router.Detach(connID)

	state, removed := m.registry.Remove(connID)
	if removed {
		m.bridge.EnqueueSave(state.PlayerID, state.Position)
		m.router.BroadcastAll(model.ServerEvent{Type: model.EventLeft, Data: model.LeftPayload{PlayerID: state.PlayerID}})
	}
	if sender != nil {
		sender.Close("session_replaced")
	}
}

// seedPosition loads the last-known position, falling back to the fixed
// spawn point when none is stored or the bridge read fails
func (m *Manager) seedPosition(ctx context.Context, playerID model.PlayerID) model.Position {
	pos, found, err := m.bridge.LoadLastPosition(ctx, playerID)
	if err != nil {
		m.logger.Warn("position load failed, using spawn",
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
		return model.SpawnPosition()
	}
	if !found {
		return model.SpawnPosition()
	}
	return pos
}

// parseMove validates the move payload shape: x and y must be present and
// numeric, isRunning is optional
func parseMove(raw json.RawMessage) (model.Position, error) {
	var payload struct {
		X         *float64 `json:"x"`
		Y         *float64 `json:"y"`
		IsRunning *bool    `json:"isRunning"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.Position{}, model.ErrMalformedPayload
	}
	if payload.X == nil || payload.Y == nil {
		return model.Position{}, model.ErrMalformedPayload
	}

	pos := model.Position{X: *payload.X, Y: *payload.Y}
	if payload.IsRunning != nil {
		pos.IsRunning = *payload.IsRunning
	}
	return pos, nil
}
