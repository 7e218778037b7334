package factory

import (
	"crypto/rand"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pocketworld/internal/dependencies/clock"
	"github.com/mcoot/pocketworld/internal/dependencies/random"
	"github.com/mcoot/pocketworld/internal/services/account"
	"github.com/mcoot/pocketworld/internal/services/inventory"
	"github.com/mcoot/pocketworld/internal/services/position"
	"github.com/mcoot/pocketworld/internal/services/world"
	"github.com/mcoot/pocketworld/internal/storage"
	"github.com/mcoot/pocketworld/internal/storage/memory"
	redisstorage "github.com/mcoot/pocketworld/internal/storage/redis"
	"github.com/mcoot/pocketworld/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TokenIssuer      *account.TokenIssuer
	AccountService   *account.Service
	InventoryService *inventory.Service
	PositionBridge   *position.Bridge

	// World core
	Registry       *world.Registry
	Router         *world.Router
	Authenticator  *world.Authenticator
	SessionManager *world.Manager
	WSHandler      *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds identity token settings (optional)
	// If the secret is empty, defaults to account.DefaultTokenConfig()
	TokenConfig account.TokenConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PositionQueueSize bounds the write-behind position queue (optional)
	PositionQueueSize int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	tokenCfg := cfg.TokenConfig
	if tokenCfg.TTL == 0 {
		tokenCfg.TTL = account.DefaultTokenConfig().TTL
	}
	if len(tokenCfg.Secret) == 0 {
		// Ephemeral signing key: fine for development, but tokens die with
		// the process
		tokenCfg.Secret = make([]byte, 32)
		if _, err := rand.Read(tokenCfg.Secret); err != nil {
			return nil, err
		}
	}

	return newWithDependencies(store, clk, rnd, tokenCfg, cfg.PositionQueueSize, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, tokenCfg account.TokenConfig, positionQueueSize int, logger *slog.Logger) *App {
	tokens := account.NewTokenIssuer(tokenCfg, clk)
	inventoryService := inventory.New(store, clk, rnd, logger)
	accountService := account.New(store, clk, tokens, inventoryService, logger)

	bridge := position.NewBridge(store, positionQueueSize, logger)

	registry := world.NewRegistry()
	router := world.NewRouter(logger)
	authenticator := world.NewAuthenticator(accountService, 0, logger)
	sessionManager := world.NewManager(authenticator, registry, router, bridge, clk, logger)
	wsHandler := ws.NewHandler(sessionManager, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		TokenIssuer:      tokens,
		AccountService:   accountService,
		InventoryService: inventoryService,
		PositionBridge:   bridge,
		Registry:         registry,
		Router:           router,
		Authenticator:    authenticator,
		SessionManager:   sessionManager,
		WSHandler:        wsHandler,
	}
}

// Close flushes the position queue and releases storage resources
func (a *App) Close() error {
	a.PositionBridge.Close()

	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
