package position

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
)

const (
	defaultQueueSize    = 1024
	defaultWriteTimeout = 2 * time.Second
)

type save struct {
	playerID model.PlayerID
	pos      model.Position
}

// Bridge decouples position persistence from the realtime broadcast path.
// Saves are queued and written by a background worker; a full queue drops
// the save rather than stalling a broadcast. Position data is best-effort
// by contract: losing one write costs a player at most a respawn at the
// fixed spawn point.
type Bridge struct {
	storage      storage.Storage
	queue        chan save
	writeTimeout time.Duration
	logger       *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewBridge starts the write-behind worker. queueSize <= 0 selects the
// default.
func NewBridge(store storage.Storage, queueSize int, logger *slog.Logger) *Bridge {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	b := &Bridge{
		storage:      store,
		queue:        make(chan save, queueSize),
		writeTimeout: defaultWriteTimeout,
		logger:       logger.With(slog.String("component", "position_bridge")),
	}
	b.done = make(chan struct{})
	go b.worker()
	return b
}

// LoadLastPosition reads a player's persisted position. A player with no
// stored position is not an error.
func (b *Bridge) LoadLastPosition(ctx context.Context, playerID model.PlayerID) (model.Position, bool, error) {
	pos, err := b.storage.GetPosition(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrPositionNotFound) {
			return model.Position{}, false, nil
		}
		return model.Position{}, false, err
	}
	return pos, true, nil
}

// EnqueueSave queues a position write without blocking. When the queue is
// full the save is dropped and logged; the caller never waits on storage.
func (b *Bridge) EnqueueSave(playerID model.PlayerID, pos model.Position) {
	select {
	case b.queue <- save{playerID: playerID, pos: pos}:
	default:
		b.logger.Warn("position save queue full, dropping",
			slog.String("player_id", string(playerID)))
	}
}

// Close stops accepting saves, drains what is already queued, and waits for
// the worker to exit.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		close(b.queue)
		<-b.done
	})
}

func (b *Bridge) worker() {
	defer close(b.done)
	for s := range b.queue {
		b.write(s)
	}
}

func (b *Bridge) write(s save) {
	ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
	defer cancel()

	if err := b.storage.SavePosition(ctx, s.playerID, s.pos); err != nil {
		// Storage faults are isolated here; the session that queued the
		// save has long since moved on
		b.logger.Warn("position save failed",
			slog.String("player_id", string(s.playerID)),
			slog.Any("error", err))
	}
}
