package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/services/world"
)

// Handler upgrades HTTP requests to websocket sessions and pumps inbound
// events into the session manager
type Handler struct {
	sessions *world.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(sessions *world.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth happens on the token, not the Origin header; browser
			// clients are served from arbitrary hosts
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.handleConnection)
}

// handleConnection runs one connection end to end: upgrade, authenticate,
// then a read loop until the peer goes away. Auth failures close the
// upgraded socket with an application close code so the client can tell a
// rejected credential from a network fault.
func (h *Handler) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(conn, h.logger)
	go client.writePump()

	connID := model.ConnectionID("c_" + uuid.NewString())
	token := r.URL.Query().Get("token")

	if _, err := h.sessions.Connect(r.Context(), connID, token, client); err != nil {
		h.logger.Info("connection rejected",
			slog.String("connection_id", string(connID)),
			slog.String("reason", world.CloseReason(err)))
		client.CloseWithCode(CloseAuthFailure, world.CloseReason(err))
		return
	}

	h.readLoop(connID, client)
	h.sessions.Disconnect(connID)
}

// readLoop is the single reader for a connection; it preserves the arrival
// order of that client's events through to the session manager
func (h *Handler) readLoop(connID model.ConnectionID, client *Client) {
	for {
		raw, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("read loop ended",
					slog.String("connection_id", string(connID)),
					slog.Any("error", err))
			}
			return
		}

		var ev model.ClientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			h.logger.Warn("unparseable frame dropped",
				slog.String("connection_id", string(connID)))
			continue
		}

		switch ev.Type {
		case model.EventMove:
			h.sessions.Move(connID, ev.Data)
		case model.EventChat:
			h.sessions.Chat(connID, ev.Data)
		default:
			h.logger.Debug("unknown event type dropped",
				slog.String("connection_id", string(connID)),
				slog.String("type", string(ev.Type)))
		}
	}
}
