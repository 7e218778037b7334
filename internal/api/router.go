package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pocketworld/internal/api/handler"
	"github.com/mcoot/pocketworld/internal/api/middleware"
	"github.com/mcoot/pocketworld/internal/services/account"
	"github.com/mcoot/pocketworld/internal/services/inventory"
	"github.com/mcoot/pocketworld/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AccountService   *account.Service
	InventoryService *inventory.Service
	WSHandler        *ws.Handler
}

// NewRouter creates the full HTTP surface: the JSON API under /api/v1 and
// the websocket endpoint at /ws
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AccountService)
	inventoryHandler := handler.NewInventoryHandler(cfg.InventoryService)

	authMiddleware := middleware.Auth(cfg.AccountService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no token required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/inventory", inventoryHandler.GetInventory).Methods(http.MethodGet)
	protected.HandleFunc("/creatures", inventoryHandler.GetCreatures).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint authenticates via its token query parameter,
	// not the API bearer middleware
	cfg.WSHandler.RegisterRoutes(r)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
