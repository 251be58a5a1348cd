package coins

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/services/rank"
)

// propagateTimeout bounds the fire-and-forget remote patch.
const propagateTimeout = 15 * time.Second

// Remote is the slice of the remote API the ledger propagates to.
type Remote interface {
	UpdateCoins(ctx context.Context, id model.PlayerID, coins int) bool
}

// TransferError reports a transfer whose debit leg succeeded but whose
// credit leg failed. The two legs are not atomic; when this error is
// returned the sender has already been debited and the amount has not
// been credited anywhere. Callers decide how to compensate.
type TransferError struct {
	From   model.PlayerID
	To     model.PlayerID
	Amount int
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %d coins debited %s but failed to credit %s: %v",
		e.Amount, e.From, e.To, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Ledger owns coin-balance mutation. Balances live in the account cache
// and are mutated synchronously; remote propagation is fire-and-forget,
// so the local balance is authoritative until the next full fetch
// overwrites it. The one invariant: a balance is never negative.
type Ledger struct {
	cache      cache.Cache
	remote     Remote
	ranks      *rank.Resolver
	dailyBonus int
	logger     *slog.Logger
}

// New creates a coin ledger. dailyBonus is the configured base amount
// for GrantDailyBonus, before the rank multiplier.
func New(accounts cache.Cache, remote Remote, ranks *rank.Resolver, dailyBonus int, logger *slog.Logger) *Ledger {
	return &Ledger{
		cache:      accounts,
		remote:     remote,
		ranks:      ranks,
		dailyBonus: dailyBonus,
		logger:     logger,
	}
}

// Balance returns the player's cached coin balance, defaulting to 0.
func (l *Ledger) Balance(ctx context.Context, id model.PlayerID) int {
	return cache.Snapshot(ctx, l.cache, id).Coins
}

// Set stores the balance, clamped at zero, and schedules a remote patch.
func (l *Ledger) Set(ctx context.Context, id model.PlayerID, coins int) error {
	if coins < 0 {
		coins = 0
	}

	snapshot := cache.Snapshot(ctx, l.cache, id).WithCoins(coins)
	if err := l.cache.Put(ctx, id, snapshot); err != nil {
		return fmt.Errorf("failed to store balance: %w", err)
	}

	l.propagate(id, coins)
	return nil
}

// Add credits the player. Amounts that are not positive are rejected
// without mutating anything.
func (l *Ledger) Add(ctx context.Context, id model.PlayerID, amount int) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	return l.Set(ctx, id, l.Balance(ctx, id)+amount)
}

// Remove debits the player. Fails without mutation when the amount is
// not positive or exceeds the current balance; an underflow is a
// reported failure, never a silent clamp.
func (l *Ledger) Remove(ctx context.Context, id model.PlayerID, amount int) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	current := l.Balance(ctx, id)
	if current < amount {
		return fmt.Errorf("%w: have %d, need %d", model.ErrInsufficientCoins, current, amount)
	}
	return l.Set(ctx, id, current-amount)
}

// Transfer moves coins between players as a debit followed by a credit.
// The two legs are not atomic: a credit failure after a successful debit
// is surfaced as *TransferError rather than silently repaired.
func (l *Ledger) Transfer(ctx context.Context, from, to model.PlayerID, amount int) error {
	if err := l.Remove(ctx, from, amount); err != nil {
		return err
	}
	if err := l.Add(ctx, to, amount); err != nil {
		return &TransferError{From: from, To: to, Amount: amount, Err: err}
	}
	return nil
}

// ApplyRankMultiplier scales a base earning by the player's current rank
// multiplier, rounding up. Unresolvable players or ranks earn at 1.0.
func (l *Ledger) ApplyRankMultiplier(ctx context.Context, id model.PlayerID, baseAmount int) int {
	multiplier := l.ranks.CoinsMultiplier(l.ranks.CurrentRank(ctx, id))
	return int(math.Ceil(float64(baseAmount) * multiplier))
}

// GrantDailyBonus credits the configured daily bonus scaled by the
// player's rank multiplier and returns the granted amount.
func (l *Ledger) GrantDailyBonus(ctx context.Context, id model.PlayerID) (int, error) {
	granted := l.ApplyRankMultiplier(ctx, id, l.dailyBonus)
	if err := l.Add(ctx, id, granted); err != nil {
		return 0, err
	}
	return granted, nil
}

// FlushAll pushes every cached balance to the remote service. Used on
// shutdown and by the periodic stats flush.
func (l *Ledger) FlushAll(ctx context.Context) {
	accounts, err := l.cache.All(ctx)
	if err != nil {
		l.logger.Warn("failed to enumerate cached accounts", slog.String("error", err.Error()))
		return
	}
	for id, snapshot := range accounts {
		if !l.remote.UpdateCoins(ctx, id, snapshot.Coins) {
			l.logger.Warn("failed to flush balance",
				slog.String("player_id", string(id)))
		}
	}
}

// propagate schedules the fire-and-forget remote PATCH. Failure is
// logged and otherwise ignored; the next reconciliation fetch resolves
// any drift.
func (l *Ledger) propagate(id model.PlayerID, coins int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), propagateTimeout)
		defer cancel()
		if !l.remote.UpdateCoins(ctx, id, coins) {
			l.logger.Warn("failed to sync coins with website",
				slog.String("player_id", string(id)),
				slog.Int("coins", coins))
		}
	}()
}
