package storage

import (
	"context"

	"github.com/mcoot/pocketworld/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentials(ctx context.Context, playerID model.PlayerID) (*model.Credentials, error)

	// Last-known position (write-behind sink for the world core)
	SavePosition(ctx context.Context, playerID model.PlayerID, pos model.Position) error
	GetPosition(ctx context.Context, playerID model.PlayerID) (model.Position, error)

	// Item catalogue operations
	SaveItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id model.ItemID) (*model.Item, error)

	// Species catalogue operations
	SaveSpecies(ctx context.Context, species *model.Species) error
	GetSpecies(ctx context.Context, id model.SpeciesID) (*model.Species, error)

	// Inventory operations
	SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error
	GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error)

	// Creature operations
	SaveCreature(ctx context.Context, creature *model.Creature) error
	GetCreaturesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Creature, error)
}
