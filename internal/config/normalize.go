package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.CacheDB, err = ExpandPath(c.Paths.CacheDB); err != nil {
		return fmt.Errorf("paths.cache_db: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Bind = strings.TrimSpace(c.Paths.Bind)
	c.Paths.Webroot = strings.TrimRight(strings.TrimSpace(c.Paths.Webroot), "/")
	c.Douban.BaseURL = strings.TrimRight(strings.TrimSpace(c.Douban.BaseURL), "/")
	c.Douban.UserAgent = strings.TrimSpace(c.Douban.UserAgent)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
