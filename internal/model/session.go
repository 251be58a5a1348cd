package model

// OnlinePlayer is one entry of the live online-player set.
type OnlinePlayer struct {
	ID       PlayerID
	Username string
}
