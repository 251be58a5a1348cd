package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/remote"
	"github.com/indusnetwork/bridge/internal/services/coins"
	"github.com/indusnetwork/bridge/internal/services/delivery"
	"github.com/indusnetwork/bridge/internal/services/rank"
	"github.com/indusnetwork/bridge/internal/services/stats"
)

// Remote is the slice of the remote API the session service needs.
type Remote interface {
	VerifyPlayer(ctx context.Context, id model.PlayerID, code string) bool
	FetchAccount(ctx context.Context, id model.PlayerID) remote.FetchResult
	PushStatus(ctx context.Context, id model.PlayerID, online bool) bool
}

// Service handles the session-lifecycle entry points into the engine:
// player join, player leave, and account verification. All methods
// perform network I/O and must be called from a background goroutine,
// never from the mutation point.
type Service struct {
	registry      *Registry
	cache         cache.Cache
	remote        Remote
	ledger        *coins.Ledger
	ranks         *rank.Resolver
	deliveries    *delivery.Processor
	stats         *stats.Tracker
	startingCoins int
	logger        *slog.Logger
}

// New creates a session service.
func New(
	registry *Registry,
	accounts cache.Cache,
	remoteClient Remote,
	ledger *coins.Ledger,
	ranks *rank.Resolver,
	deliveries *delivery.Processor,
	tracker *stats.Tracker,
	startingCoins int,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:      registry,
		cache:         accounts,
		remote:        remoteClient,
		ledger:        ledger,
		ranks:         ranks,
		deliveries:    deliveries,
		stats:         tracker,
		startingCoins: startingCoins,
		logger:        logger,
	}
}

// Registry exposes the online-player set.
func (s *Service) Registry() *Registry {
	return s.registry
}

// OnJoin handles a player connecting: report them online, load their
// account into the cache, reconcile rank and coins for verified
// accounts, bootstrap brand-new accounts, then check deliveries and
// start stats tracking.
func (s *Service) OnJoin(ctx context.Context, id model.PlayerID, username string) {
	s.registry.Add(id, username)
	s.remote.PushStatus(ctx, id, true)

	result := s.remote.FetchAccount(ctx, id)
	switch result.Status {
	case remote.FetchFound:
		s.applyAccount(ctx, id, username, result.Account)
	case remote.FetchNotFound:
		s.bootstrapAccount(ctx, id, username)
	case remote.FetchUnavailable:
		// The account may exist; bootstrapping here could reset it.
		// Leave the cache alone and let the next reconciliation retry.
		s.logger.Warn("account fetch unavailable on join",
			slog.String("player_id", string(id)),
			slog.String("username", username))
	}

	s.deliveries.CheckDeliveries(ctx, id, username)
	s.stats.Track(id, username)
}

// OnLeave handles a player disconnecting: final stats push, offline
// status, and eviction of their cache entry. The registry entry goes
// first so a late response sees the player as offline.
func (s *Service) OnLeave(ctx context.Context, id model.PlayerID) {
	s.registry.Remove(id)

	s.stats.Push(ctx, id)
	s.stats.Remove(id)

	s.remote.PushStatus(ctx, id, false)

	if err := s.cache.Remove(ctx, id); err != nil {
		s.logger.Warn("failed to evict account from cache",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
	}
}

// Verify links the player to their website account with the code issued
// there, then reconciles the freshly verified account. Players whose
// cached snapshot is already verified are not re-verified.
func (s *Service) Verify(ctx context.Context, id model.PlayerID, code string) bool {
	if cache.Snapshot(ctx, s.cache, id).Verified {
		return true
	}

	if !s.remote.VerifyPlayer(ctx, id, code) {
		return false
	}

	username, ok := s.registry.Username(id)
	if !ok {
		return true // verified, but gone; nothing to reconcile locally
	}

	if result := s.remote.FetchAccount(ctx, id); result.Status == remote.FetchFound {
		s.applyAccount(ctx, id, username, result.Account)
	}
	return true
}

// SyncOnline pushes online status and current stats for every connected
// player, and retries the join-time account fetch for players whose
// snapshot never made it into the cache. Invoked periodically by the
// reconciliation scheduler.
func (s *Service) SyncOnline(ctx context.Context) {
	for _, player := range s.registry.OnlinePlayers() {
		s.remote.PushStatus(ctx, player.ID, true)
		s.stats.Push(ctx, player.ID)
		s.refetchIfMissing(ctx, player.ID, player.Username)
	}
}

// refetchIfMissing repairs the cache for players who joined while the
// remote was unavailable. Without the retry such a player keeps a
// zero-value view for the whole session, and any local earn would then
// push an absolute balance built on that empty view over the remote
// truth once the outage ends.
func (s *Service) refetchIfMissing(ctx context.Context, id model.PlayerID, username string) {
	if _, err := s.cache.Get(ctx, id); !errors.Is(err, model.ErrAccountNotFound) {
		return
	}

	switch result := s.remote.FetchAccount(ctx, id); result.Status {
	case remote.FetchFound:
		s.applyAccount(ctx, id, username, result.Account)
	case remote.FetchNotFound:
		s.bootstrapAccount(ctx, id, username)
	case remote.FetchUnavailable:
		// Still down; the next sweep retries.
	}
}

// applyAccount overwrites the cached snapshot with the remote truth and,
// for verified accounts, re-aligns the local permission group with the
// remote rank.
func (s *Service) applyAccount(ctx context.Context, id model.PlayerID, username string, account model.AccountSnapshot) {
	account.PlayerID = id
	if account.Username == "" {
		account.Username = username
	}

	if err := s.cache.Put(ctx, id, account); err != nil {
		s.logger.Warn("failed to cache account",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return
	}

	if !account.Verified {
		s.logger.Info("account not verified",
			slog.String("player_id", string(id)),
			slog.String("username", username))
		return
	}

	current := s.ranks.CurrentRank(ctx, id)
	if !strings.EqualFold(current, account.Rank) && s.ranks.Exists(account.Rank) {
		if err := s.ranks.UpdateRank(ctx, id, account.Rank); err != nil {
			s.logger.Warn("failed to apply remote rank",
				slog.String("player_id", string(id)),
				slog.String("rank", account.Rank),
				slog.String("error", err.Error()))
		}
	}
}

// bootstrapAccount initializes a never-before-seen player with the
// default rank and the configured starting balance, and pushes the
// balance so the website learns about the new account.
func (s *Service) bootstrapAccount(ctx context.Context, id model.PlayerID, username string) {
	seed := model.AccountSnapshot{
		PlayerID: id,
		Username: username,
		Rank:     model.DefaultRank,
	}
	if err := s.cache.Put(ctx, id, seed); err != nil {
		s.logger.Warn("failed to seed new account",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
		return
	}

	if err := s.ledger.Set(ctx, id, s.startingCoins); err != nil {
		s.logger.Warn("failed to grant starting coins",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
	}

	s.logger.Info("new account bootstrapped",
		slog.String("player_id", string(id)),
		slog.String("username", username),
		slog.Int("starting_coins", s.startingCoins))
}
