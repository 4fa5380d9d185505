package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tweetfeed/internal/adapters/cache"
	"tweetfeed/internal/adapters/render"
	"tweetfeed/internal/adapters/settings"
	"tweetfeed/internal/adapters/twitter"
	"tweetfeed/internal/adapters/web"
	"tweetfeed/internal/config"
	"tweetfeed/internal/usecases"
	"tweetfeed/internal/warmer"
	"tweetfeed/pkg/log"
	"tweetfeed/pkg/log/transporters"
)

const shutdownTimeout = 10 * time.Second

// optionSource is what the stored settings provide to the pipeline.
type optionSource interface {
	usecases.DefaultsProvider
	warmer.WarmSource
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tweetfeed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	log.SetDefault(logger)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	options, err := loadOptions(cfg)
	if err != nil {
		return err
	}
	if f, ok := options.(*settings.File); ok {
		defer f.Close()
	}

	// Initialize adapters
	gateway := cache.NewGateway(store, cfg.CacheNamespace)
	fetcher := twitter.NewFetcher(twitter.NewOAuthClient(nil), cfg.APIBaseURL)

	// Initialize use cases
	renderFeed := usecases.NewRenderFeedUseCase(
		usecases.NewConfigResolver(options, cfg.CacheNamespace),
		gateway,
		fetcher,
		twitter.NewNormalizer(),
		render.NewRenderer(),
	)

	// Setup Fiber
	app := web.NewApp()
	web.SetupRoutes(app, web.NewHandlers(renderFeed), web.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute), staticDir(cfg))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.GlobalInfo("starting tweetfeed", "port", cfg.Port, "cache_driver", cfg.CacheDriver)
		return app.Listen(":" + cfg.Port)
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.GlobalInfo("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	eg.Go(func() error {
		return warmer.New(renderFeed, options).Run(ctx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.GlobalError("server stopped", "error", err)
		return err
	}
	return nil
}

func newLogger(cfg config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	var t log.Transporter = transporters.NewStdout()
	if cfg.LogFormat == "console" {
		t = transporters.NewConsole()
	}
	logger := log.New(level, t).With("service", "tweetfeed")
	if err != nil {
		logger.Warn("unknown LOG_LEVEL, using info", "value", cfg.LogLevel)
	}
	return logger
}

// openStore returns the configured cache store and a func releasing it.
func openStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	switch cfg.CacheDriver {
	case config.DriverSQLite:
		s, err := cache.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if n, err := s.Purge(ctx); err != nil {
			log.GlobalWarn("purge expired cache rows failed", "error", err)
		} else if n > 0 {
			log.GlobalInfo("purged expired cache rows", "count", n)
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverValkey:
		s, err := cache.NewValkeyStore(ctx, cache.ValkeyOptions{Address: cfg.ValkeyAddress, Password: cfg.ValkeyPassword})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s := cache.NewMemoryStore(5 * time.Minute)
		return s, func() { _ = s.Close() }, nil
	}
}

func loadOptions(cfg config.Config) (optionSource, error) {
	if cfg.SettingsPath == "" {
		log.GlobalInfo("no settings file, using built-in defaults")
		return settings.Static{}, nil
	}
	f, err := settings.Load(cfg.SettingsPath, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", cfg.SettingsPath, err)
	}
	return f, nil
}

func staticDir(cfg config.Config) string {
	if _, err := os.Stat(cfg.StaticDir); err != nil {
		return ""
	}
	return cfg.StaticDir
}
