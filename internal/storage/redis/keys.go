package redis

import (
	"fmt"

	"github.com/mcoot/pocketworld/internal/model"
)

// Key prefix for all pocketworld data
const keyPrefix = "pworld"

func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

func credentialsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, playerID)
}

func positionKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:position:%s", keyPrefix, playerID)
}

func itemKey(id model.ItemID) string {
	return fmt.Sprintf("%s:item:%d", keyPrefix, id)
}

func speciesKey(id model.SpeciesID) string {
	return fmt.Sprintf("%s:species:%d", keyPrefix, id)
}

func inventoryItemKey(playerID model.PlayerID, itemID model.ItemID) string {
	return fmt.Sprintf("%s:inventory:%s:%d", keyPrefix, playerID, itemID)
}

// inventoryIndexKey is the SET of item ids a player owns
func inventoryIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:inventory:%s", keyPrefix, playerID)
}

func creatureKey(id model.CreatureID) string {
	return fmt.Sprintf("%s:creature:%s", keyPrefix, id)
}

// creaturesForPlayerIndexKey is the SET of creature ids a player owns
func creaturesForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:creatures_for_player:%s", keyPrefix, playerID)
}
