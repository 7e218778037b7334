package model

import "time"

// ItemID identifies an item definition
type ItemID int

// Item is a static item definition from the catalogue
type Item struct {
	ID          ItemID
	Name        string
	Description string
}

// InventoryItem is one stack of an item owned by a player
type InventoryItem struct {
	PlayerID PlayerID
	ItemID   ItemID
	Quantity int
}

// SpeciesID identifies a creature species definition
type SpeciesID int

// Species is a static creature species definition
type Species struct {
	ID     SpeciesID
	Name   string
	BaseHP int
}

// CreatureID identifies one owned creature instance
type CreatureID string

// Creature is a creature instance owned by a player
type Creature struct {
	ID        CreatureID
	PlayerID  PlayerID
	SpeciesID SpeciesID
	Level     int
	CurrentHP int
	CaughtAt  time.Time
}
