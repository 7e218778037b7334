package response

import (
	"time"

	"github.com/mcoot/pocketworld/internal/model"
)

// Account represents an account in API responses. Password hashes never
// leave the storage layer.
type Account struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        string(a.Role),
		CreatedAt:   a.CreatedAt,
	}
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// InventoryItem represents one item stack in API responses
type InventoryItem struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// InventoryResponse is the response for the inventory listing
type InventoryResponse struct {
	Items []InventoryItem `json:"items"`
}

// InventoryFromModel converts a player's item stacks
func InventoryFromModel(items []*model.InventoryItem) InventoryResponse {
	out := make([]InventoryItem, len(items))
	for i, item := range items {
		out[i] = InventoryItem{
			ItemID:   int(item.ItemID),
			Quantity: item.Quantity,
		}
	}
	return InventoryResponse{Items: out}
}

// Creature represents one owned creature in API responses
type Creature struct {
	ID        string    `json:"id"`
	SpeciesID int       `json:"species_id"`
	Level     int       `json:"level"`
	CurrentHP int       `json:"current_hp"`
	CaughtAt  time.Time `json:"caught_at"`
}

// CreaturesResponse is the response for the creature listing
type CreaturesResponse struct {
	Creatures []Creature `json:"creatures"`
}

// CreaturesFromModel converts a player's owned creatures
func CreaturesFromModel(creatures []*model.Creature) CreaturesResponse {
	out := make([]Creature, len(creatures))
	for i, c := range creatures {
		out[i] = Creature{
			ID:        string(c.ID),
			SpeciesID: int(c.SpeciesID),
			Level:     c.Level,
			CurrentHP: c.CurrentHP,
			CaughtAt:  c.CaughtAt,
		}
	}
	return CreaturesResponse{Creatures: out}
}
