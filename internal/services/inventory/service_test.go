package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pocketworld/internal/dependencies/mocks"
	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage/memory"
	"github.com/mcoot/pocketworld/internal/testutil"
)

type InventorySuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
}

func TestInventorySuite(t *testing.T) {
	suite.Run(t, new(InventorySuite))
}

func (s *InventorySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = &mocks.MockClock{CurrentTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())

	s.Require().NoError(s.service.EnsureCatalogue(context.Background()))
}

func (s *InventorySuite) TestEnsureCatalogueSeedsDefinitions() {
	item, err := s.service.GetItem(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal("Poke Ball", item.Name)

	species, err := s.service.GetSpecies(context.Background(), 4)
	s.Require().NoError(err)
	s.Equal("Charmander", species.Name)
	s.Equal(39, species.BaseHP)
}

func (s *InventorySuite) TestEnsureCatalogueIsIdempotent() {
	s.Require().NoError(s.service.EnsureCatalogue(context.Background()))

	item, err := s.service.GetItem(context.Background(), 2)
	s.Require().NoError(err)
	s.Equal("Potion", item.Name)
}

func (s *InventorySuite) TestGrantStarterItems() {
	s.Require().NoError(s.service.GrantStarter(context.Background(), "p-1"))

	inv, err := s.service.GetInventory(context.Background(), "p-1")
	s.Require().NoError(err)
	s.Require().Len(inv, 2)

	quantities := map[model.ItemID]int{}
	for _, stack := range inv {
		quantities[stack.ItemID] = stack.Quantity
	}
	s.Equal(1, quantities[1])
	s.Equal(1, quantities[2])
}

func (s *InventorySuite) TestGrantStarterCreature() {
	// Index 2 selects Squirtle (species 7)
	s.random.QueueIntn(2)

	s.Require().NoError(s.service.GrantStarter(context.Background(), "p-1"))

	creatures, err := s.service.GetCreatures(context.Background(), "p-1")
	s.Require().NoError(err)
	s.Require().Len(creatures, 1)

	starter := creatures[0]
	s.Equal(model.SpeciesID(7), starter.SpeciesID)
	s.Equal(5, starter.Level)
	s.Equal(44, starter.CurrentHP)
	s.Equal(model.PlayerID("p-1"), starter.PlayerID)
	s.Equal(s.clock.CurrentTime, starter.CaughtAt)
	s.NotEmpty(starter.ID)
}

func (s *InventorySuite) TestGrantStarterDefaultsToFirstSpecies() {
	// MockRandom returns 0 with nothing queued, so the grant picks index 0
	s.Require().NoError(s.service.GrantStarter(context.Background(), "p-1"))

	creatures, err := s.service.GetCreatures(context.Background(), "p-1")
	s.Require().NoError(err)
	s.Require().Len(creatures, 1)
	s.Equal(model.SpeciesID(1), creatures[0].SpeciesID)
	s.Equal(45, creatures[0].CurrentHP)
}

func (s *InventorySuite) TestEmptyInventoryIsNotAnError() {
	inv, err := s.service.GetInventory(context.Background(), "p-nobody")
	s.Require().NoError(err)
	s.Empty(inv)

	creatures, err := s.service.GetCreatures(context.Background(), "p-nobody")
	s.Require().NoError(err)
	s.Empty(creatures)
}

func (s *InventorySuite) TestGrantStarterWithoutCatalogueFails() {
	bare := New(memory.New(), s.clock, s.random, testutil.NopLogger())
	err := bare.GrantStarter(context.Background(), "p-1")
	s.ErrorIs(err, model.ErrSpeciesNotFound)
}
