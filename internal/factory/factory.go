package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/cache/memory"
	rediscache "github.com/indusnetwork/bridge/internal/cache/redis"
	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/dependencies/clock"
	"github.com/indusnetwork/bridge/internal/dependencies/random"
	"github.com/indusnetwork/bridge/internal/dispatch"
	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/remote"
	"github.com/indusnetwork/bridge/internal/scheduler"
	"github.com/indusnetwork/bridge/internal/services/coins"
	"github.com/indusnetwork/bridge/internal/services/delivery"
	"github.com/indusnetwork/bridge/internal/services/rank"
	"github.com/indusnetwork/bridge/internal/services/session"
	"github.com/indusnetwork/bridge/internal/services/stats"
)

// Cache type constants
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// remoteAPI is the full remote surface the services slice up between them.
type remoteAPI interface {
	session.Remote
	rank.Remote
	coins.Remote
	delivery.Remote
	stats.Remote
}

// App contains all wired application components
type App struct {
	// Account cache
	Cache cache.Cache

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Engine components
	Dispatcher *dispatch.Dispatcher
	Registry   *session.Registry
	Ranks      *rank.Resolver
	Coins      *coins.Ledger
	Delivery   *delivery.Processor
	Stats      *stats.Tracker
	Session    *session.Service
	Scheduler  *scheduler.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// Config is the loaded bridge configuration (required)
	Config *config.Config
	// Groups is the host's permission grouping backend (optional)
	// If nil, an in-process grouping table is used
	Groups rank.Groups
	// Sink executes delivery commands on the host (optional)
	// If nil, commands are logged instead of executed
	Sink delivery.CommandSink
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// CacheType selects the account cache backend ("memory" or "redis")
	// If empty, defaults to "memory"
	CacheType string
	// RedisConfig holds Redis connection settings (required if CacheType is "redis")
	RedisConfig *rediscache.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.Config == nil {
		return nil, errors.New("Config is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var accounts cache.Cache
	cacheType := cfg.CacheType
	if cacheType == "" {
		cacheType = CacheTypeMemory
	}

	switch cacheType {
	case CacheTypeMemory:
		accounts = memory.New()
	case CacheTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when CacheType is redis")
		}
		redisCache, err := rediscache.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		accounts = redisCache
	default:
		return nil, errors.New("invalid CacheType: must be 'memory' or 'redis'")
	}

	groups := cfg.Groups
	if groups == nil {
		groups = newLocalGroups()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = &logSink{logger: logger}
	}

	client := remote.New(remote.Config{
		BaseURL: cfg.Config.Website.URL,
		APIKey:  cfg.Config.Website.APIKey,
	}, logger)

	return newWithDependencies(cfg.Config, accounts, client, groups, sink, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cfg *config.Config,
	accounts cache.Cache,
	client remoteAPI,
	groups rank.Groups,
	sink delivery.CommandSink,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	dispatcher := dispatch.New(0, logger)
	registry := session.NewRegistry()

	ranks := rank.New(cfg.RankTable(), groups, client, accounts, logger)
	ledger := coins.New(accounts, client, ranks, cfg.Settings.DailyBonus, logger)
	processor := delivery.New(client, dispatcher, sink, registry, logger)
	tracker := stats.New(client, clk, logger)
	sessions := session.New(registry, accounts, client, ledger, ranks, processor, tracker,
		cfg.Settings.StartingCoins, logger)
	sched := scheduler.New(cfg.Intervals, sessions, processor, rnd, logger, tracker, ledger)

	return &App{
		Cache:      accounts,
		Clock:      clk,
		Random:     rnd,
		Dispatcher: dispatcher,
		Registry:   registry,
		Ranks:      ranks,
		Coins:      ledger,
		Delivery:   processor,
		Stats:      tracker,
		Session:    sessions,
		Scheduler:  sched,
	}
}

// Shutdown stops the scheduler, flushes outstanding state, drains the
// mutation point, and closes the cache.
func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	a.Coins.FlushAll(ctx)
	a.Stats.FlushAll(ctx)
	a.Dispatcher.Close()
	return a.Cache.Close()
}

// localGroups is the fallback grouping backend when the host does not
// provide one: a plain in-process table with no persistence.
type localGroups struct {
	mu      sync.RWMutex
	primary map[model.PlayerID]string
}

func newLocalGroups() *localGroups {
	return &localGroups{primary: make(map[model.PlayerID]string)}
}

func (g *localGroups) PrimaryGroup(ctx context.Context, id model.PlayerID) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.primary[id], nil
}

func (g *localGroups) ClearGroups(ctx context.Context, id model.PlayerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.primary, id)
	return nil
}

func (g *localGroups) AddGroup(ctx context.Context, id model.PlayerID, group string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.primary[id] = group
	return nil
}

func (g *localGroups) Save(ctx context.Context, id model.PlayerID) error {
	return nil
}

// logSink is the fallback command sink when the host does not provide
// one: it records the command in the log instead of executing it.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) Dispatch(command string) error {
	s.logger.Info("delivery command", slog.String("command", command))
	return nil
}
