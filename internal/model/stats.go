package model

import "fmt"

// StatsSnapshot holds the gameplay statistics pushed to the remote
// service. The host simulation supplies the numbers; this engine only
// tracks and forwards them.
type StatsSnapshot struct {
	Kills           int   `json:"kills"`
	Deaths          int   `json:"deaths"`
	BlocksBroken    int   `json:"blocks_broken"`
	BlocksPlaced    int   `json:"blocks_placed"`
	DistanceWalked  int64 `json:"distance_walked"`
	PlaytimeMinutes int64 `json:"playtime"`
}

// KDRatio returns kills per death, or the raw kill count when the player
// has never died.
func (s StatsSnapshot) KDRatio() float64 {
	if s.Deaths > 0 {
		return float64(s.Kills) / float64(s.Deaths)
	}
	return float64(s.Kills)
}

// FormattedPlaytime renders the playtime as "Xh Ym".
func (s StatsSnapshot) FormattedPlaytime() string {
	return fmt.Sprintf("%dh %dm", s.PlaytimeMinutes/60, s.PlaytimeMinutes%60)
}
