package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/indusnetwork/bridge/internal/model"
)

// userAgent identifies the bridge to the remote service.
const userAgent = "indusnetwork-bridge/1.0"

// Config holds the remote web service endpoint and credential.
type Config struct {
	// BaseURL is the web service base, e.g. https://indusnetwork.highms.pro
	BaseURL string
	// APIKey is the static bearer credential sent on every request.
	APIKey string
	// Timeout bounds each request end to end.
	Timeout time.Duration
}

// DefaultConfig returns sensible client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// Client is a stateless request/response wrapper around the remote HTTP
// API. It performs no caching and no retries; transport and parse
// failures are converted into failure results rather than panics.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a remote API client.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultConfig().Timeout
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeout}, logger)
}

// NewWithHTTPClient creates a client with an explicit http.Client
// (useful for testing).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// VerifyPlayer links a player to their website account using the
// verification code issued by the website. True only when the remote
// responds success.
func (c *Client) VerifyPlayer(ctx context.Context, id model.PlayerID, code string) bool {
	req := verifyRequest{PlayerID: string(id), VerificationCode: code}

	resp, _, err := c.do(ctx, http.MethodPost, "/api/auth/verify-minecraft", req)
	if err != nil {
		c.logger.Warn("verify request failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return false
	}
	return resp.Success
}

// FetchAccount retrieves the authoritative account snapshot for a player.
func (c *Client) FetchAccount(ctx context.Context, id model.PlayerID) FetchResult {
	resp, status, err := c.do(ctx, http.MethodGet, "/api/players/"+string(id), nil)
	if err != nil {
		if status == http.StatusNotFound {
			return FetchResult{Status: FetchNotFound}
		}
		c.logger.Warn("account fetch failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return FetchResult{Status: FetchUnavailable}
	}
	if !resp.Success {
		return FetchResult{Status: FetchNotFound}
	}

	var payload accountPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		c.logger.Warn("account response malformed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return FetchResult{Status: FetchUnavailable}
	}

	return FetchResult{
		Status: FetchFound,
		Account: model.AccountSnapshot{
			PlayerID: id,
			Username: payload.Username,
			Rank:     payload.Rank,
			Coins:    payload.Coins,
			Verified: payload.Verified,
		},
	}
}

// UpdateRank patches the player's rank on the remote service.
func (c *Client) UpdateRank(ctx context.Context, id model.PlayerID, rankID string) bool {
	return c.patch(ctx, id, "/api/players/"+string(id)+"/rank", rankRequest{Rank: rankID})
}

// UpdateCoins patches the player's coin balance on the remote service.
func (c *Client) UpdateCoins(ctx context.Context, id model.PlayerID, coins int) bool {
	return c.patch(ctx, id, "/api/players/"+string(id)+"/coins", coinsRequest{Coins: coins})
}

// PushStatus reports the player's online/offline state.
func (c *Client) PushStatus(ctx context.Context, id model.PlayerID, online bool) bool {
	req := statusRequest{
		PlayerID:  string(id),
		Online:    online,
		Timestamp: time.Now().UnixMilli(),
	}

	resp, _, err := c.do(ctx, http.MethodPost, "/api/players/status", req)
	if err != nil {
		c.logger.Warn("status push failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return false
	}
	return resp.Success
}

// PushStats uploads the player's gameplay statistics.
func (c *Client) PushStats(ctx context.Context, id model.PlayerID, stats model.StatsSnapshot) bool {
	req := statsRequest{
		Kills:          stats.Kills,
		Deaths:         stats.Deaths,
		Playtime:       stats.PlaytimeMinutes,
		BlocksBroken:   stats.BlocksBroken,
		BlocksPlaced:   stats.BlocksPlaced,
		DistanceWalked: stats.DistanceWalked,
		LastSeen:       time.Now().UnixMilli(),
	}

	resp, _, err := c.do(ctx, http.MethodPost, "/api/players/"+string(id)+"/stats", req)
	if err != nil {
		c.logger.Warn("stats push failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return false
	}
	return resp.Success
}

// PendingDeliveries fetches the player's pending store deliveries in
// remote order. Any failure yields an empty slice; the remote offers no
// way to distinguish "no deliveries" from an errored fetch, so the next
// sweep is the retry.
func (c *Client) PendingDeliveries(ctx context.Context, id model.PlayerID) []model.DeliveryItem {
	resp, _, err := c.do(ctx, http.MethodGet, "/api/store/delivery/pending/"+string(id), nil)
	if err != nil {
		c.logger.Warn("delivery fetch failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return nil
	}
	if !resp.Success {
		return nil
	}

	var items []model.DeliveryItem
	if err := json.Unmarshal(resp.Data, &items); err != nil {
		c.logger.Warn("delivery response malformed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return nil
	}
	return items
}

// CompleteDelivery acknowledges a delivery as executed. The item only
// leaves the pending queue remotely when this returns true.
func (c *Client) CompleteDelivery(ctx context.Context, deliveryID string) bool {
	req := completeDeliveryRequest{
		Status:      "completed",
		CompletedAt: time.Now().UnixMilli(),
	}

	resp, _, err := c.do(ctx, http.MethodPost, "/api/store/delivery/"+deliveryID+"/complete", req)
	if err != nil {
		c.logger.Warn("delivery completion failed",
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()))
		return false
	}
	return resp.Success
}

func (c *Client) patch(ctx context.Context, id model.PlayerID, path string, body any) bool {
	resp, _, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		c.logger.Warn("patch request failed",
			slog.String("player_id", string(id)),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return false
	}
	return resp.Success
}

// do performs a request and decodes the standard response envelope. The
// returned int is the HTTP status code, zero when the request never
// reached the server.
func (c *Client) do(ctx context.Context, method, path string, body any) (*apiResponse, int, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return &envelope, resp.StatusCode, nil
}
