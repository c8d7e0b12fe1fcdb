package config

import (
	"fmt"
	"time"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

type Config struct {
	Environment   string              `yaml:"environment"`
	Forum         ForumConfig         `yaml:"forum"`
	HTTP          HttpConfig          `yaml:"http"`
	ResponseCache ResponseCacheConfig `yaml:"response_cache"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Rod           RodConfig           `yaml:"rod"`
	SelectorsFile string              `yaml:"selectors_file"`
	Storage       StorageConfig       `yaml:"storage"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ForumConfig struct {
	BaseURL string `yaml:"base_url"`
}

type HttpConfig struct {
	// UserAgent "random" picks a fresh browser UA per request.
	UserAgent                 string `yaml:"user_agent"`
	AttemptTimeoutMS          int    `yaml:"attempt_timeout_ms"`
	MaxAttempts               int    `yaml:"max_attempts"`
	RetryBaseDelayMS          int    `yaml:"retry_base_delay_ms"`
	JitterPct                 int    `yaml:"jitter_pct"`
	MaxIdleConnections        int    `yaml:"max_idle_connections"`
	MaxIdleConnectionsPerHost int    `yaml:"max_idle_connections_per_host"`
	IdleConnectionTimeoutS    int    `yaml:"idle_connection_timeout_s"`
	AcceptLanguage            string `yaml:"accept_language"`
}

type ResponseCacheConfig struct {
	TTLMS      int `yaml:"ttl_ms"`
	MaxEntries int `yaml:"max_entries"`
}

type RateLimitConfig struct {
	MaxConcurrentPerHost int `yaml:"max_concurrent_per_host"`
	RPM                  int `yaml:"rpm"`
}

type RodConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ChromePath       string `yaml:"chrome_path"`
	ControlURL       string `yaml:"control_url"`
	PageTimeoutS     int    `yaml:"page_timeout_s"`
	WaitLoadTimeoutS int    `yaml:"wait_load_timeout_s"`
}

type StorageConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	SSL              bool   `yaml:"ssl"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
	ThreadCacheTTLS  int    `yaml:"thread_cache_ttl_s"`
}

type SchedulerConfig struct {
	Mode        string   `yaml:"mode"`
	IntervalS   int      `yaml:"interval_s"`
	CronExpr    string   `yaml:"cron_expr"`
	Threads     []string `yaml:"threads"`
	Categories  []string `yaml:"categories"`
	MaxPages    int      `yaml:"max_pages"`
	Concurrency int      `yaml:"concurrency"`
}

type ObservabilityConfig struct {
	LogPath       string `yaml:"log_path"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
}

// Default returns a configuration usable without any file.
func Default() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Forum: ForumConfig{
			BaseURL: "https://www.pathofexile.com",
		},
		HTTP: HttpConfig{
			UserAgent:                 "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			AttemptTimeoutMS:          10000,
			MaxAttempts:               3,
			RetryBaseDelayMS:          300,
			MaxIdleConnections:        100,
			MaxIdleConnectionsPerHost: 10,
			IdleConnectionTimeoutS:    90,
			AcceptLanguage:            "en-US,en;q=0.9",
		},
		ResponseCache: ResponseCacheConfig{
			TTLMS:      30000,
			MaxEntries: 500,
		},
		RateLimit: RateLimitConfig{
			MaxConcurrentPerHost: 4,
			RPM:                  120,
		},
		Rod: RodConfig{
			PageTimeoutS:     30,
			WaitLoadTimeoutS: 15,
		},
		Storage: StorageConfig{
			Driver:           "postgres",
			CommandTimeoutMS: 5000,
			ThreadCacheTTLS:  300,
		},
		Scheduler: SchedulerConfig{
			Mode:        "oneshot",
			IntervalS:   600,
			MaxPages:    5,
			Concurrency: 2,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogMaxSizeMB:  50,
			LogMaxBackups: 3,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvProduction, EnvDevelopment, EnvTest:
	default:
		return fmt.Errorf("environment must be 'production', 'development' or 'test'")
	}
	if c.Forum.BaseURL == "" {
		return fmt.Errorf("forum.base_url is required")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.AttemptTimeoutMS <= 0 {
		return fmt.Errorf("http.attempt_timeout_ms must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.HTTP.RetryBaseDelayMS < 0 {
		return fmt.Errorf("http.retry_base_delay_ms must be >= 0")
	}
	if c.HTTP.JitterPct < 0 || c.HTTP.JitterPct > 100 {
		return fmt.Errorf("http.jitter_pct must be between 0 and 100")
	}
	if c.ResponseCache.TTLMS < 0 {
		return fmt.Errorf("response_cache.ttl_ms must be >= 0")
	}
	if c.ResponseCache.MaxEntries < 0 {
		return fmt.Errorf("response_cache.max_entries must be >= 0")
	}
	if c.RateLimit.MaxConcurrentPerHost < 0 {
		return fmt.Errorf("rate_limit.max_concurrent_per_host must be >= 0")
	}
	if c.RateLimit.RPM < 0 {
		return fmt.Errorf("rate_limit.rpm must be >= 0")
	}
	if c.Rod.Enabled {
		if c.Rod.PageTimeoutS <= 0 {
			return fmt.Errorf("rod.page_timeout_s must be > 0")
		}
		if c.Rod.WaitLoadTimeoutS <= 0 {
			return fmt.Errorf("rod.wait_load_timeout_s must be > 0")
		}
	}
	if c.Storage.Enabled {
		switch c.Storage.Driver {
		case "postgres", "mssql", "sqlite":
		default:
			return fmt.Errorf("storage.driver must be 'postgres', 'mssql' or 'sqlite'")
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0")
		}
	}
	if c.Storage.ThreadCacheTTLS < 0 {
		return fmt.Errorf("storage.thread_cache_ttl_s must be >= 0")
	}
	switch c.Scheduler.Mode {
	case "oneshot":
	case "interval":
		if c.Scheduler.IntervalS <= 0 {
			return fmt.Errorf("scheduler.interval_s must be > 0 when mode is 'interval'")
		}
	case "cron":
		if c.Scheduler.CronExpr == "" {
			return fmt.Errorf("scheduler.cron_expr must be set when mode is 'cron'")
		}
	default:
		return fmt.Errorf("scheduler.mode must be 'interval', 'cron' or 'oneshot'")
	}
	if c.Scheduler.MaxPages <= 0 {
		return fmt.Errorf("scheduler.max_pages must be > 0")
	}
	if c.Scheduler.Concurrency <= 0 {
		return fmt.Errorf("scheduler.concurrency must be > 0")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// ResponseCacheEnabled is false in test runs and when TTL or capacity is zero.
func (c *Config) ResponseCacheEnabled() bool {
	return c.Environment != EnvTest && c.ResponseCache.TTLMS > 0 && c.ResponseCache.MaxEntries > 0
}

// Getters
func (c *Config) GetAttemptTimeout() time.Duration {
	return time.Duration(c.HTTP.AttemptTimeoutMS) * time.Millisecond
}

func (c *Config) GetRetryBaseDelay() time.Duration {
	return time.Duration(c.HTTP.RetryBaseDelayMS) * time.Millisecond
}

func (c *Config) GetIdleConnectionTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnectionTimeoutS) * time.Second
}

func (c *Config) GetResponseCacheTTL() time.Duration {
	return time.Duration(c.ResponseCache.TTLMS) * time.Millisecond
}

func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.Storage.CommandTimeoutMS) * time.Millisecond
}

func (c *Config) GetThreadCacheTTL() time.Duration {
	return time.Duration(c.Storage.ThreadCacheTTLS) * time.Second
}

func (c *Config) GetSchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalS) * time.Second
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) GetRodWaitLoadTimeout() time.Duration {
	return time.Duration(c.Rod.WaitLoadTimeoutS) * time.Second
}
