package main

import (
	"strings"
	"sync"
	"time"

	"kinocache/internal/config"
	"kinocache/internal/douban"
	"kinocache/internal/logging"
	"kinocache/internal/querycache"
	"kinocache/internal/scraper"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the cache store named by the config, runs fn, and closes
// it again. CLI commands share the daemon's database; SQLite's WAL mode and
// busy timeout make short-lived concurrent access safe.
func (c *commandContext) withStore(fn func(*querycache.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := querycache.Open(cfg.Paths.CacheDB, logging.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// newService builds a scraper service backed by the supplied store.
func (c *commandContext) newService(store *querycache.Store) (*scraper.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := douban.New(
		cfg.Douban.BaseURL,
		cfg.Douban.UserAgent,
		time.Duration(cfg.Douban.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, err
	}
	return scraper.NewService(store, client, logging.NewNop()), nil
}
