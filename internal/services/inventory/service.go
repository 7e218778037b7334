package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/pocketworld/internal/dependencies/clock"
	"github.com/mcoot/pocketworld/internal/dependencies/random"
	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
)

// Catalogue definitions seeded at startup. IDs are stable; clients key off
// them.
var (
	catalogueItems = []model.Item{
		{ID: 1, Name: "Poke Ball", Description: "A device for catching wild creatures"},
		{ID: 2, Name: "Potion", Description: "Restores 20 HP to one creature"},
		{ID: 3, Name: "Antidote", Description: "Cures a poisoned creature"},
	}

	catalogueSpecies = []model.Species{
		{ID: 1, Name: "Bulbasaur", BaseHP: 45},
		{ID: 4, Name: "Charmander", BaseHP: 39},
		{ID: 7, Name: "Squirtle", BaseHP: 44},
	}
)

// starterSpecies are the species a new account may be granted
var starterSpecies = []model.SpeciesID{1, 4, 7}

const starterLevel = 5

// Service manages player inventories and owned creatures
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates an inventory Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "inventory")),
	}
}

// EnsureCatalogue seeds the static item and species definitions. Safe to
// call on every startup; existing definitions are overwritten with the
// current catalogue.
func (s *Service) EnsureCatalogue(ctx context.Context) error {
	for _, item := range catalogueItems {
		if err := s.storage.SaveItem(ctx, &item); err != nil {
			return fmt.Errorf("seeding item %d: %w", item.ID, err)
		}
	}
	for _, species := range catalogueSpecies {
		if err := s.storage.SaveSpecies(ctx, &species); err != nil {
			return fmt.Errorf("seeding species %d: %w", species.ID, err)
		}
	}
	return nil
}

// GrantStarter gives a newly registered player their starting kit: one
// ball, one potion, and a single level-5 creature of a randomly chosen
// starter species.
func (s *Service) GrantStarter(ctx context.Context, playerID model.PlayerID) error {
	for _, itemID := range []model.ItemID{1, 2} {
		err := s.storage.SaveInventoryItem(ctx, &model.InventoryItem{
			PlayerID: playerID,
			ItemID:   itemID,
			Quantity: 1,
		})
		if err != nil {
			return fmt.Errorf("granting starter item %d: %w", itemID, err)
		}
	}

	speciesID := starterSpecies[s.random.Intn(len(starterSpecies))]
	species, err := s.storage.GetSpecies(ctx, speciesID)
	if err != nil {
		return fmt.Errorf("looking up starter species %d: %w", speciesID, err)
	}

	creature := model.Creature{
		ID:        model.CreatureID("cr_" + uuid.NewString()),
		PlayerID:  playerID,
		SpeciesID: speciesID,
		Level:     starterLevel,
		CurrentHP: species.BaseHP,
		CaughtAt:  s.clock.Now(),
	}
	if err := s.storage.SaveCreature(ctx, &creature); err != nil {
		return fmt.Errorf("granting starter creature: %w", err)
	}

	s.logger.Info("starter granted",
		slog.String("player_id", string(playerID)),
		slog.Int("species_id", int(speciesID)))
	return nil
}

// GetInventory returns a player's item stacks. A player with nothing has an
// empty inventory, not an error.
func (s *Service) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	return s.storage.GetInventory(ctx, playerID)
}

// GetCreatures returns a player's owned creatures
func (s *Service) GetCreatures(ctx context.Context, playerID model.PlayerID) ([]*model.Creature, error) {
	return s.storage.GetCreaturesForPlayer(ctx, playerID)
}

// GetItem looks up an item definition from the catalogue
func (s *Service) GetItem(ctx context.Context, itemID model.ItemID) (*model.Item, error) {
	return s.storage.GetItem(ctx, itemID)
}

// GetSpecies looks up a species definition from the catalogue
func (s *Service) GetSpecies(ctx context.Context, speciesID model.SpeciesID) (*model.Species, error) {
	return s.storage.GetSpecies(ctx, speciesID)
}
