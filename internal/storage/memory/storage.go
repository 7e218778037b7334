package memory

import (
	"context"
	"sync"

	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.PlayerID]*model.Account
	usernameIndex map[string]model.PlayerID
	emailIndex    map[string]model.PlayerID
	credentials   map[model.PlayerID]*model.Credentials
	positions     map[model.PlayerID]model.Position
	items         map[model.ItemID]*model.Item
	species       map[model.SpeciesID]*model.Species
	inventories   map[invKey]*model.InventoryItem
	creatures     map[model.CreatureID]*model.Creature
}

type invKey struct {
	playerID model.PlayerID
	itemID   model.ItemID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.PlayerID]*model.Account),
		usernameIndex: make(map[string]model.PlayerID),
		emailIndex:    make(map[string]model.PlayerID),
		credentials:   make(map[model.PlayerID]*model.Credentials),
		positions:     make(map[model.PlayerID]model.Position),
		items:         make(map[model.ItemID]*model.Item),
		species:       make(map[model.SpeciesID]*model.Species),
		inventories:   make(map[invKey]*model.InventoryItem),
		creatures:     make(map[model.CreatureID]*model.Creature),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	s.usernameIndex[account.Username] = account.ID
	if account.Email != "" {
		s.emailIndex[account.Email] = account.ID
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.PlayerID] = creds
	return nil
}

func (s *Storage) GetCredentials(ctx context.Context, playerID model.PlayerID) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.credentials[playerID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return creds, nil
}

// Position operations

func (s *Storage) SavePosition(ctx context.Context, playerID model.PlayerID, pos model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[playerID] = pos
	return nil
}

func (s *Storage) GetPosition(ctx context.Context, playerID model.PlayerID) (model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[playerID]
	if !ok {
		return model.Position{}, model.ErrPositionNotFound
	}
	return pos, nil
}

// Item catalogue operations

func (s *Storage) SaveItem(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *Storage) GetItem(ctx context.Context, id model.ItemID) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	return item, nil
}

// Species catalogue operations

func (s *Storage) SaveSpecies(ctx context.Context, species *model.Species) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.species[species.ID] = species
	return nil
}

func (s *Storage) GetSpecies(ctx context.Context, id model.SpeciesID) (*model.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.species[id]
	if !ok {
		return nil, model.ErrSpeciesNotFound
	}
	return sp, nil
}

// Inventory operations

func (s *Storage) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventories[invKey{item.PlayerID, item.ItemID}] = item
	return nil
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*model.InventoryItem
	for key, item := range s.inventories {
		if key.playerID == playerID {
			items = append(items, item)
		}
	}
	return items, nil
}

// Creature operations

func (s *Storage) SaveCreature(ctx context.Context, creature *model.Creature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creatures[creature.ID] = creature
	return nil
}

func (s *Storage) GetCreaturesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Creature
	for _, c := range s.creatures {
		if c.PlayerID == playerID {
			result = append(result, c)
		}
	}
	return result, nil
}
