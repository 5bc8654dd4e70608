package config

const (
	defaultCacheDB       = "~/.local/share/kinocache/cache.db"
	defaultLogDir        = "~/.local/share/kinocache/logs"
	defaultBind          = "127.0.0.1:21958"
	defaultDoubanBaseURL = "https://api.douban.com/v2"
	defaultDoubanTimeout = 15
	defaultUserAgent     = "kinocache/dev"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDB: defaultCacheDB,
			LogDir:  defaultLogDir,
			Bind:    defaultBind,
		},
		Douban: Douban{
			BaseURL:        defaultDoubanBaseURL,
			TimeoutSeconds: defaultDoubanTimeout,
			UserAgent:      defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
