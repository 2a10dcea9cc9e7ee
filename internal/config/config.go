// Package config loads the service configuration from config/<env>.yaml.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the search service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	Sources    SourcesConfig    `yaml:"sources"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// Cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverSQLite = "sqlite"
)

// CacheConfig selects the durable tier behind the in-process LRU.
type CacheConfig struct {
	Driver          string        `yaml:"driver"` // memory, redis, sqlite (default: memory)
	TTL             time.Duration `yaml:"ttl"`
	MemorySize      int           `yaml:"memory_size"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
	Redis           RedisConfig   `yaml:"redis"`
	SQLite          SQLiteConfig  `yaml:"sqlite"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// SQLiteConfig holds the SQLite cache database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds aggregation limits.
type SearchConfig struct {
	MaxResults     int `yaml:"max_results"`
	MinQueryLength int `yaml:"min_query_length"`
	MaxConcurrency int `yaml:"max_concurrency"`
}

// SourcesConfig holds one block per upstream provider.
type SourcesConfig struct {
	PokemonTCG          SourceConfig `yaml:"pokemon_tcg"`
	PokemonPriceTracker SourceConfig `yaml:"pokemon_price_tracker"`
	Scryfall            SourceConfig `yaml:"scryfall"`
	WebSearch           SourceConfig `yaml:"web_search"`
}

// SourceConfig holds credentials and limits for one provider.
type SourceConfig struct {
	Disabled      bool          `yaml:"disabled"`
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout"`
	LongTimeout   time.Duration `yaml:"long_timeout"` // number lookups, graded slab lookups
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	DailyLimit    int           `yaml:"daily_limit"` // 0 = unlimited
}

// SummarizerConfig configures the OpenAI-compatible answer synthesizer.
// Leaving APIKey empty disables it.
type SummarizerConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", configPath)
	}
	return Parse(data)
}

// Parse expands environment references in data, decodes it and applies defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 30
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverMemory
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 6 * time.Hour
	}
	if c.Cache.MemorySize <= 0 {
		c.Cache.MemorySize = 1024
	}
	if c.Cache.JanitorInterval <= 0 {
		c.Cache.JanitorInterval = 30 * time.Minute
	}
	if c.Cache.Redis.KeyPrefix == "" {
		c.Cache.Redis.KeyPrefix = "cardledger:search:"
	}
	if c.Cache.SQLite.Path == "" {
		c.Cache.SQLite.Path = "./cardledger_cache.db"
	}

	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 50
	}
	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = 2
	}
	if c.Search.MaxConcurrency <= 0 {
		c.Search.MaxConcurrency = 8
	}

	applySourceDefaults(&c.Sources.PokemonTCG, "https://api.pokemontcg.io/v2", 5*time.Second, 20*time.Second)
	applySourceDefaults(&c.Sources.PokemonPriceTracker, "https://www.pokemonpricetracker.com/api/v2", 3*time.Second, 0)
	applySourceDefaults(&c.Sources.Scryfall, "https://api.scryfall.com", 5*time.Second, 0)
	applySourceDefaults(&c.Sources.WebSearch, "https://api.tavily.com", 8*time.Second, 10*time.Second)
	if c.Sources.Scryfall.RatePerSecond == 0 {
		c.Sources.Scryfall.RatePerSecond = 10
	}

	if c.Summarizer.BaseURL == "" {
		c.Summarizer.BaseURL = "https://api.openai.com/v1"
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gpt-4o-mini"
	}
	if c.Summarizer.Timeout <= 0 {
		c.Summarizer.Timeout = 4 * time.Second
	}
}

func applySourceDefaults(s *SourceConfig, baseURL string, timeout, longTimeout time.Duration) {
	if s.BaseURL == "" {
		s.BaseURL = baseURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Timeout <= 0 {
		s.Timeout = timeout
	}
	if s.LongTimeout <= 0 {
		s.LongTimeout = longTimeout
	}
	if s.LongTimeout < s.Timeout {
		s.LongTimeout = s.Timeout
	}
	if s.Burst <= 0 {
		s.Burst = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.Newf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverSQLite:
	case CacheDriverRedis:
		if len(c.Cache.Redis.Addrs) == 0 {
			return errors.New("cache.redis.addrs is required for the redis driver")
		}
	default:
		return errors.Newf("cache.driver must be memory, redis or sqlite, got %q", c.Cache.Driver)
	}
	for name, s := range map[string]SourceConfig{
		"pokemon_tcg":           c.Sources.PokemonTCG,
		"pokemon_price_tracker": c.Sources.PokemonPriceTracker,
		"scryfall":              c.Sources.Scryfall,
		"web_search":            c.Sources.WebSearch,
	} {
		if s.RatePerSecond < 0 {
			return errors.Newf("sources.%s.rate_per_second must not be negative", name)
		}
		if s.DailyLimit < 0 {
			return errors.Newf("sources.%s.daily_limit must not be negative", name)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := env + ".yaml"

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
