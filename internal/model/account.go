package model

import "github.com/google/uuid"

// PlayerID uniquely identifies a player across the system.
// It is the stable UUID assigned by the host server, shared with the
// remote web service.
type PlayerID string

// ParsePlayerID validates that the given string is a well-formed UUID
// and returns it as a PlayerID.
func ParsePlayerID(s string) (PlayerID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return PlayerID(id.String()), nil
}

// AccountSnapshot is the engine's last-known view of a player's remote
// account. Snapshots are immutable once constructed; the cache replaces
// them wholesale on each successful fetch.
type AccountSnapshot struct {
	PlayerID PlayerID `json:"player_id"`
	Username string   `json:"username"`
	Rank     string   `json:"rank"`
	Coins    int      `json:"coins"`
	Verified bool     `json:"verified"`
}

// WithCoins returns a copy of the snapshot with the coin balance replaced.
func (a AccountSnapshot) WithCoins(coins int) AccountSnapshot {
	a.Coins = coins
	return a
}

// WithRank returns a copy of the snapshot with the rank replaced.
func (a AccountSnapshot) WithRank(rank string) AccountSnapshot {
	a.Rank = rank
	return a
}
