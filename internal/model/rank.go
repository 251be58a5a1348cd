package model

// DefaultRank is the rank attributed to players the grouping service
// does not know about, and the rank new accounts are bootstrapped with.
const DefaultRank = "default"

// Rank describes a purchasable rank tier. The rank table is loaded once
// from static configuration and is read-only for the process lifetime.
type Rank struct {
	ID              string
	DisplayName     string
	PermissionGroup string
	CoinsMultiplier float64
}
