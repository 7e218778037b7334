package world

import (
	"log/slog"
	"sync"

	"github.com/mcoot/pocketworld/internal/model"
)

// Sender is the transport-side handle for one connection. Send must preserve
// the order of calls made from a single goroutine; Close tears the transport
// down with a reason string the client can distinguish.
type Sender interface {
	Send(ev model.ServerEvent) error
	Close(reason string)
}

// Router fans out events to the right subset of connections. A send to a
// connection that has already vanished is swallowed: one stale target must
// never abort delivery to the rest.
type Router struct {
	mu      sync.RWMutex
	senders map[model.ConnectionID]Sender
	logger  *slog.Logger
}

// NewRouter creates an empty Router
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		senders: make(map[model.ConnectionID]Sender),
		logger:  logger.With(slog.String("component", "router")),
	}
}

// Attach registers a connection's sender
func (r *Router) Attach(connID model.ConnectionID, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[connID] = sender
}

// Detach removes and returns a connection's sender, or nil if unknown
func (r *Router) Detach(connID model.ConnectionID) Sender {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.senders[connID]
	if !ok {
		return nil
	}
	delete(r.senders, connID)
	return sender
}

// SendTo delivers an event to a single connection
func (r *Router) SendTo(connID model.ConnectionID, ev model.ServerEvent) {
	r.mu.RLock()
	sender, ok := r.senders[connID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug("send to unknown connection dropped",
			slog.String("connection_id", string(connID)),
			slog.String("event", string(ev.Type)))
		return
	}
	r.deliver(connID, sender, ev)
}

// BroadcastExcept delivers an event to every connection except one
func (r *Router) BroadcastExcept(exclude model.ConnectionID, ev model.ServerEvent) {
	for connID, sender := range r.targets() {
		if connID == exclude {
			continue
		}
		r.deliver(connID, sender, ev)
	}
}

// BroadcastAll delivers an event to every connection
func (r *Router) BroadcastAll(ev model.ServerEvent) {
	for connID, sender := range r.targets() {
		r.deliver(connID, sender, ev)
	}
}

// targets copies the sender map so iteration tolerates connections vanishing
// mid-broadcast
func (r *Router) targets() map[model.ConnectionID]Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := make(map[model.ConnectionID]Sender, len(r.senders))
	for connID, sender := range r.senders {
		targets[connID] = sender
	}
	return targets
}

func (r *Router) deliver(connID model.ConnectionID, sender Sender, ev model.ServerEvent) {
	if err := sender.Send(ev); err != nil {
		r.logger.Debug("send to closed connection swallowed",
			slog.String("connection_id", string(connID)),
			slog.String("event", string(ev.Type)),
			slog.Any("error", err))
	}
}
