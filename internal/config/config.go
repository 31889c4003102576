package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/mensa/internal/fetcher"
)

type Config struct {
	//===============
	// Fetch
	//===============
	// Root of the canteen site; per-canteen menu pages hang off it
	baseURL string
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Cache
	//===============
	// Maximum number of cached menus before least-recently-used eviction
	cacheCapacity int
	// How long a cached menu is served without refetching
	freshnessWindow time.Duration
	// How long a request waits for the store lock before fetching uncached
	cacheAcquireWait time.Duration
}

type configDTO struct {
	BaseURL          string        `json:"baseUrl,omitempty"`
	Timeout          time.Duration `json:"timeout,omitempty"`
	UserAgent        string        `json:"userAgent,omitempty"`
	CacheCapacity    int           `json:"cacheCapacity,omitempty"`
	FreshnessWindow  time.Duration `json:"freshnessWindow,omitempty"`
	CacheAcquireWait time.Duration `json:"cacheAcquireWait,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	// Only override fields the file actually sets
	if dto.BaseURL != "" {
		cfg.baseURL = dto.BaseURL
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.CacheCapacity != 0 {
		cfg.cacheCapacity = dto.CacheCapacity
	}
	if dto.FreshnessWindow != 0 {
		cfg.freshnessWindow = dto.FreshnessWindow
	}
	if dto.CacheAcquireWait != 0 {
		cfg.cacheAcquireWait = dto.CacheAcquireWait
	}

	return (&cfg).Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		baseURL:          fetcher.DefaultBaseURL,
		timeout:          time.Second * 10,
		userAgent:        "mensa/1.0",
		cacheCapacity:    16,
		freshnessWindow:  10 * time.Minute,
		cacheAcquireWait: 250 * time.Millisecond,
	}
	return &defaultConfig
}

func (c *Config) WithBaseURL(baseURL string) *Config {
	c.baseURL = baseURL
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithCacheCapacity(capacity int) *Config {
	c.cacheCapacity = capacity
	return c
}

func (c *Config) WithFreshnessWindow(window time.Duration) *Config {
	c.freshnessWindow = window
	return c
}

func (c *Config) WithCacheAcquireWait(wait time.Duration) *Config {
	c.cacheAcquireWait = wait
	return c
}

func (c *Config) Build() (Config, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("%w: baseUrl must be an absolute URL, got %q", ErrInvalidConfig, c.baseURL)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.timeout)
	}
	if c.cacheCapacity <= 0 {
		return Config{}, fmt.Errorf("%w: cacheCapacity must be positive, got %d", ErrInvalidConfig, c.cacheCapacity)
	}
	if c.freshnessWindow <= 0 {
		return Config{}, fmt.Errorf("%w: freshnessWindow must be positive, got %s", ErrInvalidConfig, c.freshnessWindow)
	}
	if c.cacheAcquireWait <= 0 {
		return Config{}, fmt.Errorf("%w: cacheAcquireWait must be positive, got %s", ErrInvalidConfig, c.cacheAcquireWait)
	}

	return *c, nil
}

func (c Config) BaseURL() string {
	return c.baseURL
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) CacheCapacity() int {
	return c.cacheCapacity
}

func (c Config) FreshnessWindow() time.Duration {
	return c.freshnessWindow
}

func (c Config) CacheAcquireWait() time.Duration {
	return c.cacheAcquireWait
}
