package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/model"
)

// propagateTimeout bounds the fire-and-forget remote patch.
const propagateTimeout = 15 * time.Second

// Groups is the port to the external permission grouping service. The
// grouping service is the authority for which permission group a player
// currently inherits; this engine only reads the primary group and
// replaces memberships wholesale on rank changes.
type Groups interface {
	PrimaryGroup(ctx context.Context, id model.PlayerID) (string, error)
	ClearGroups(ctx context.Context, id model.PlayerID) error
	AddGroup(ctx context.Context, id model.PlayerID, group string) error
	Save(ctx context.Context, id model.PlayerID) error
}

// Remote is the slice of the remote API the resolver propagates to.
type Remote interface {
	UpdateRank(ctx context.Context, id model.PlayerID, rankID string) bool
}

// Resolver owns rank lookup and update. The rank table is loaded once
// from static configuration and read-only afterwards; persistence of the
// actual permission grouping is delegated to the Groups port.
type Resolver struct {
	table       map[string]model.Rank
	groupToRank map[string]string
	groups      Groups
	remote      Remote
	cache       cache.Cache
	logger      *slog.Logger
}

// New creates a Resolver over the given rank table. Table keys are
// normalized to lowercase; rank id lookups are case-insensitive.
func New(table map[string]model.Rank, groups Groups, remote Remote, accounts cache.Cache, logger *slog.Logger) *Resolver {
	normalized := make(map[string]model.Rank, len(table))
	groupToRank := make(map[string]string, len(table))
	for id, r := range table {
		key := strings.ToLower(id)
		normalized[key] = r
		groupToRank[strings.ToLower(r.PermissionGroup)] = key
	}
	return &Resolver{
		table:       normalized,
		groupToRank: groupToRank,
		groups:      groups,
		remote:      remote,
		cache:       accounts,
		logger:      logger,
	}
}

// CurrentRank returns the player's rank per the grouping service, or the
// default rank when the service errors or does not know the player. The
// primary group is mapped back to its rank id; an unrecognized group is
// returned as-is so callers can still display it.
func (r *Resolver) CurrentRank(ctx context.Context, id model.PlayerID) string {
	group, err := r.groups.PrimaryGroup(ctx, id)
	if err != nil || group == "" {
		return model.DefaultRank
	}
	if rankID, ok := r.groupToRank[strings.ToLower(group)]; ok {
		return rankID
	}
	return group
}

// UpdateRank replaces the player's rank. The grouping-service write is
// all-or-nothing at the local boundary: on any grouping failure neither
// the remote account nor the cache is touched. Remote propagation is
// best-effort and asynchronous.
func (r *Resolver) UpdateRank(ctx context.Context, id model.PlayerID, rankID string) error {
	def, ok := r.lookup(rankID)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownRank, rankID)
	}

	// Replace group membership wholesale: clear every inheritance edge,
	// add exactly one for the new rank's permission group.
	if err := r.groups.ClearGroups(ctx, id); err != nil {
		return fmt.Errorf("failed to clear groups: %w", err)
	}
	if err := r.groups.AddGroup(ctx, id, def.PermissionGroup); err != nil {
		return fmt.Errorf("failed to add group: %w", err)
	}
	if err := r.groups.Save(ctx, id); err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}

	snapshot := cache.Snapshot(ctx, r.cache, id).WithRank(def.ID)
	if err := r.cache.Put(ctx, id, snapshot); err != nil {
		r.logger.Warn("failed to cache rank update",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()))
	}

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), propagateTimeout)
		defer cancel()
		if !r.remote.UpdateRank(pctx, id, def.ID) {
			r.logger.Warn("failed to sync rank with website",
				slog.String("player_id", string(id)),
				slog.String("rank", def.ID))
		}
	}()

	r.logger.Info("rank updated",
		slog.String("player_id", string(id)),
		slog.String("rank", def.ID))
	return nil
}

// DisplayName returns the rank's display name, or the raw id for ranks
// missing from the table.
func (r *Resolver) DisplayName(rankID string) string {
	if def, ok := r.lookup(rankID); ok {
		return def.DisplayName
	}
	return rankID
}

// CoinsMultiplier returns the rank's coin earning multiplier, defaulting
// to 1.0 for unknown ranks.
func (r *Resolver) CoinsMultiplier(rankID string) float64 {
	if def, ok := r.lookup(rankID); ok {
		return def.CoinsMultiplier
	}
	return 1.0
}

// Exists reports whether the rank id is in the static table.
func (r *Resolver) Exists(rankID string) bool {
	_, ok := r.lookup(rankID)
	return ok
}

// All returns the rank table sorted by id.
func (r *Resolver) All() []model.Rank {
	out := make([]model.Rank, 0, len(r.table))
	for _, def := range r.table {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Resolver) lookup(rankID string) (model.Rank, bool) {
	def, ok := r.table[strings.ToLower(rankID)]
	return def, ok
}
