package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/synth"
)

// Cache backends selectable with cache.backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the user configuration, read from the config file and the
// environment. Command-line flags override it per invocation.
type Config struct {
	Model           string       `mapstructure:"model"`
	MaxTokens       int          `mapstructure:"max_tokens"`
	AnthropicAPIKey string       `mapstructure:"anthropic_api_key"`
	AnthropicURL    string       `mapstructure:"anthropic_base_url"`
	GitHubToken     string       `mapstructure:"github_token"`
	Cache           CacheConfig  `mapstructure:"cache"`
	Theme           layout.Theme `mapstructure:"theme"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	Prefix    string        `mapstructure:"prefix"`
}

// newViper returns a viper instance with defaults and environment bindings.
// Settings come from SKILLWEAVE_* variables; the API key and GitHub token
// also honor their conventional unprefixed names.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("model", synth.DefaultModel)
	v.SetDefault("max_tokens", synth.DefaultMaxTokens)
	v.SetDefault("cache.backend", backendFile)
	v.SetDefault("cache.ttl", cache.TTLSkill)
	v.SetDefault("cache.redis_addr", "localhost:6379")

	v.SetEnvPrefix("SKILLWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("anthropic_api_key", "SKILLWEAVE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("github_token", "SKILLWEAVE_GITHUB_TOKEN", "GITHUB_TOKEN")
	for _, key := range []string{"anthropic_base_url", "theme.skill", "theme.sequence", "theme.parallel", "theme.branch", "cache.dir", "cache.redis_db", "cache.prefix"} {
		_ = v.BindEnv(key)
	}
	return v
}

// loadConfig reads the config file into v and decodes the result. An
// explicit path must exist; the default location is optional.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	} else if dir, err := configDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %s (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.MaxTokens < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_tokens must not be negative")
	}
	if err := c.Theme.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config")
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/skillweave/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/skillweave/).
func (c *Config) cacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/skillweave/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
