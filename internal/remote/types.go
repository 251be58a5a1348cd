package remote

import (
	"encoding/json"

	"github.com/indusnetwork/bridge/internal/model"
)

// apiResponse is the envelope every remote endpoint responds with.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// accountPayload is the account shape nested under "data" in the
// GET /api/players/{id} response.
type accountPayload struct {
	Username string `json:"username"`
	Rank     string `json:"rank"`
	Coins    int    `json:"coins"`
	Verified bool   `json:"verified"`
}

type verifyRequest struct {
	PlayerID         string `json:"player_id"`
	VerificationCode string `json:"verification_code"`
}

type statusRequest struct {
	PlayerID  string `json:"player_id"`
	Online    bool   `json:"online"`
	Timestamp int64  `json:"timestamp"`
}

type rankRequest struct {
	Rank string `json:"rank"`
}

type coinsRequest struct {
	Coins int `json:"coins"`
}

type statsRequest struct {
	Kills          int   `json:"kills"`
	Deaths         int   `json:"deaths"`
	Playtime       int64 `json:"playtime"`
	BlocksBroken   int   `json:"blocks_broken"`
	BlocksPlaced   int   `json:"blocks_placed"`
	DistanceWalked int64 `json:"distance_walked"`
	LastSeen       int64 `json:"last_seen"`
}

type completeDeliveryRequest struct {
	Status      string `json:"status"`
	CompletedAt int64  `json:"completed_at"`
}

// FetchStatus distinguishes the three outcomes of an account fetch.
// The remote's "player unknown" and "service unreachable" cases must not
// be conflated: only a definite NotFound may trigger new-account
// bootstrapping, otherwise a transient outage could reset an existing
// player's data.
type FetchStatus int

const (
	// FetchFound means the remote returned the account.
	FetchFound FetchStatus = iota
	// FetchNotFound means the remote definitively does not know the player.
	FetchNotFound
	// FetchUnavailable means the remote could not be reached or returned
	// an unusable response; the account may or may not exist.
	FetchUnavailable
)

// FetchResult is the outcome of Client.FetchAccount. Account is only
// meaningful when Status is FetchFound.
type FetchResult struct {
	Status  FetchStatus
	Account model.AccountSnapshot
}
