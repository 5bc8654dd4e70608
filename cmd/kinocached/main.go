// Command kinocached runs the kinocache HTTP daemon: a local Kodi scraper
// endpoint backed by the Douban catalog and a persistent response cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"kinocache/internal/config"
	"kinocache/internal/douban"
	"kinocache/internal/logging"
	"kinocache/internal/metrics"
	"kinocache/internal/querycache"
	"kinocache/internal/scraper"
	"kinocache/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	// One daemon per cache database.
	lock := flock.New(cfg.Paths.CacheDB + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another kinocached instance already uses %s", cfg.Paths.CacheDB)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release daemon lock failed", logging.Error(err))
		}
	}()

	recorder := metrics.NewRecorder(nil)

	store, err := querycache.Open(cfg.Paths.CacheDB, logger, querycache.WithRecorder(recorder))
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer store.Close()

	client, err := douban.New(
		cfg.Douban.BaseURL,
		cfg.Douban.UserAgent,
		time.Duration(cfg.Douban.TimeoutSeconds)*time.Second,
		douban.WithRecorder(recorder),
	)
	if err != nil {
		return fmt.Errorf("init douban client: %w", err)
	}

	service := scraper.NewService(store, client, logger)
	srv := server.New(cfg, service, store, recorder, logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	srv.Stop()
	logger.Info("shutdown complete")
	return nil
}
