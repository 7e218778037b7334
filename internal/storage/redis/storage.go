package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Pipeline keeps the account and its lookup indexes together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.ID), 0)
	if account.Email != "" {
		pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return s.GetAccount(ctx, model.PlayerID(idStr))
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	idStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return s.GetAccount(ctx, model.PlayerID(idStr))
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialsKey(creds.PlayerID), data, 0).Err()
}

func (s *Storage) GetCredentials(ctx context.Context, playerID model.PlayerID) (*model.Credentials, error) {
	data, err := s.client.Get(ctx, credentialsKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Position operations

func (s *Storage) SavePosition(ctx context.Context, playerID model.PlayerID, pos model.Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, positionKey(playerID), data, s.cfg.PositionTTL).Err()
}

func (s *Storage) GetPosition(ctx context.Context, playerID model.PlayerID) (model.Position, error) {
	data, err := s.client.Get(ctx, positionKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Position{}, model.ErrPositionNotFound
		}
		return model.Position{}, err
	}

	var pos model.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return model.Position{}, err
	}
	return pos, nil
}

// Item catalogue operations

func (s *Storage) SaveItem(ctx context.Context, item *model.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, itemKey(item.ID), data, 0).Err()
}

func (s *Storage) GetItem(ctx context.Context, id model.ItemID) (*model.Item, error) {
	data, err := s.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrItemNotFound
		}
		return nil, err
	}

	var item model.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Species catalogue operations

func (s *Storage) SaveSpecies(ctx context.Context, species *model.Species) error {
	data, err := json.Marshal(species)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, speciesKey(species.ID), data, 0).Err()
}

func (s *Storage) GetSpecies(ctx context.Context, id model.SpeciesID) (*model.Species, error) {
	data, err := s.client.Get(ctx, speciesKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSpeciesNotFound
		}
		return nil, err
	}

	var sp model.Species
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Inventory operations

func (s *Storage) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, inventoryItemKey(item.PlayerID, item.ItemID), data, 0)
	pipe.SAdd(ctx, inventoryIndexKey(item.PlayerID), strconv.Itoa(int(item.ItemID)))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	ids, err := s.client.SMembers(ctx, inventoryIndexKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	var items []*model.InventoryItem
	for _, idStr := range ids {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		data, err := s.client.Get(ctx, inventoryItemKey(playerID, model.ItemID(id))).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Index entry outlived the item; skip it
				continue
			}
			return nil, err
		}
		var item model.InventoryItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

// Creature operations

func (s *Storage) SaveCreature(ctx context.Context, creature *model.Creature) error {
	data, err := json.Marshal(creature)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, creatureKey(creature.ID), data, 0)
	pipe.SAdd(ctx, creaturesForPlayerIndexKey(creature.PlayerID), string(creature.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCreaturesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Creature, error) {
	ids, err := s.client.SMembers(ctx, creaturesForPlayerIndexKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	var result []*model.Creature
	for _, id := range ids {
		data, err := s.client.Get(ctx, creatureKey(model.CreatureID(id))).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var c model.Creature
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, nil
}
