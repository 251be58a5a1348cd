package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	rediscache "github.com/indusnetwork/bridge/internal/cache/redis"
	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/factory"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		cacheType  string
		redisURL   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bridge daemon",
		Long: `Run the bridge daemon: loads the configuration file, wires the engine,
and starts the reconciliation scheduler. Stops cleanly on SIGINT/SIGTERM,
flushing outstanding balances and stats before exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			slog.SetDefault(logger)

			var (
				bridgeCfg *config.Config
				err       error
			)
			if cmd.Flags().Changed("config") {
				bridgeCfg, err = config.Load(configPath)
			} else {
				bridgeCfg, err = config.LoadOrDefault(configPath)
			}
			if err != nil {
				return err
			}

			factoryCfg := factory.Config{
				Config:    bridgeCfg,
				Logger:    logger,
				CacheType: cacheType,
			}
			if cacheType == factory.CacheTypeRedis {
				if redisURL == "" {
					redisURL = os.Getenv("REDIS_URL")
				}
				if redisURL == "" {
					return fmt.Errorf("--redis-url or REDIS_URL required when --cache=redis")
				}
				redisCfg := rediscache.DefaultConfig()
				redisCfg.URL = redisURL
				factoryCfg.RedisConfig = &redisCfg
			}

			app, err := factory.New(factoryCfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Scheduler.Start(ctx)
			logger.Info("bridge started",
				slog.String("website", bridgeCfg.Website.URL),
				slog.String("cache", factoryCfg.CacheType))

			<-ctx.Done()
			logger.Info("shutdown signal received")

			if err := app.Shutdown(context.Background()); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			logger.Info("bridge stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yml", "Path to the bridge config file")
	cmd.Flags().StringVar(&cacheType, "cache", factory.CacheTypeMemory, "Account cache backend: memory, redis")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL (env: REDIS_URL)")

	return cmd
}
