package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDouban(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.CacheDB == "" {
		return errors.New("paths.cache_db must be set")
	}
	if c.Paths.Bind == "" {
		return errors.New("paths.bind must be set")
	}
	if c.Paths.Webroot != "" {
		parsed, err := url.Parse(c.Paths.Webroot)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("paths.webroot %q must be an absolute URL", c.Paths.Webroot)
		}
	}
	return nil
}

func (c *Config) validateDouban() error {
	if c.Douban.BaseURL == "" {
		return errors.New("douban.base_url must be set")
	}
	parsed, err := url.Parse(c.Douban.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("douban.base_url %q must be an absolute URL", c.Douban.BaseURL)
	}
	if c.Douban.TimeoutSeconds <= 0 {
		return errors.New("douban.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}
	return nil
}
