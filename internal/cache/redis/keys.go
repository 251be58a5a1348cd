package redis

import (
	"fmt"

	"github.com/indusnetwork/bridge/internal/model"
)

// Key prefix for all bridge data
const keyPrefix = "indusbridge"

// accountKey returns the Redis key for a player's account snapshot.
func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// accountIndexKey returns the Redis key for the SET of cached player ids.
func accountIndexKey() string {
	return fmt.Sprintf("%s:idx:accounts", keyPrefix)
}
