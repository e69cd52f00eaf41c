package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"roomreviews/internal/adapters/airbnb"
	"roomreviews/internal/adapters/observability"
	redisad "roomreviews/internal/adapters/redis"
	"roomreviews/internal/app"
	"roomreviews/internal/domain"
	"roomreviews/internal/shared"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "roomreviews",
	Short:         "roomreviews collects room review feeds and exports them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging wires the global logger: sink by environment, level by flag.
func setupLogging(cfg shared.Config) {
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetVerbose(verbose)
}

// buildFeed assembles the feed client from config: proxy-aware HTTP
// pool, rate limiter and retries, with the Redis page cache on top
// when REDIS_ADDR is set. An unreachable Redis only disables the
// cache; it never blocks a scrape.
func buildFeed(ctx context.Context, cfg shared.Config) (domain.FeedClient, error) {
	mode, err := airbnb.ParseProxyMode(cfg.ProxyMode)
	if err != nil {
		return nil, err
	}
	client, err := airbnb.New(airbnb.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.FeedTimeout.Std(),
		RetryMax:  cfg.FeedRetryMax,
		RPS:       cfg.FeedRPS,
		PageSize:  cfg.FeedPageSize,
		ProxyMode: mode,
		ProxyURLs: cfg.ProxyURLs,
	})
	if err != nil {
		return nil, err
	}
	if cfg.RedisAddr == "" {
		return client, nil
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, page cache disabled")
		return client, nil
	}
	return app.NewCachedFeed(client, cache, cfg.CacheTTL.Std()), nil
}
