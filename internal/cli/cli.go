// Package cli implements the skillweave command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/skillweave/pkg/buildinfo"
	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/httputil"
	"github.com/matzehuels/skillweave/pkg/pipeline"
	"github.com/matzehuels/skillweave/pkg/source"
	"github.com/matzehuels/skillweave/pkg/synth"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "skillweave"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Err receives progress indicators.
	Out io.Writer
	Err io.Writer

	viper      *viper.Viper
	configFile string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
		viper:  newViper(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Skillweave composes agent skills into workflows",
		Long:         `Skillweave builds composition trees of agent skills (sequences, parallel groups, branches, and configured sub-trees), describes and draws them, and synthesizes a single skill document from a composition.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/skillweave/config.yaml)")

	root.AddCommand(c.describeCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	cfg, err := loadConfig(c.viper, c.configFile)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// cfg returns the loaded configuration, or the defaults when commands run
// without the root's pre-run hook.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		if err := c.loadConfig(); err != nil {
			c.Logger.Warn("config ignored", "err", err)
			c.config = &Config{
				Model:     synth.DefaultModel,
				MaxTokens: synth.DefaultMaxTokens,
				Cache:     CacheConfig{Backend: backendNone},
			}
		}
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts tune newRunner for one command.
type runnerOpts struct {
	refresh bool
	noCache bool
	model   string
}

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, error) {
	cfg := c.cfg()
	store, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()

	resolver := source.NewResolver(source.Options{
		GitHubToken: cfg.GitHubToken,
		Cache:       store,
		Keyer:       keyer,
		TTL:         cfg.Cache.TTL,
		HTTPCache:   httputil.NewCache(store, keyer, cache.TTLHTTP),
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	})

	model := cfg.Model
	if opts.model != "" {
		model = opts.model
	}
	synthesizer := synth.NewAnthropicSynthesizer(synth.AnthropicOptions{
		APIKey:    cfg.AnthropicAPIKey,
		BaseURL:   cfg.AnthropicURL,
		Model:     model,
		MaxTokens: cfg.MaxTokens,
		Logger:    c.Logger,
	})

	return pipeline.NewRunner(resolver, synthesizer, store, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg()
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.Cache.RedisAddr,
			DB:     cfg.Cache.RedisDB,
			Prefix: cfg.Cache.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Cache.RedisAddr)
		}
		return rc, nil
	}
	dir, err := cfg.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// loadComposition creates a runner and loads path with it.
func (c *CLI) loadComposition(ctx context.Context, path string, opts runnerOpts) (*pipeline.Runner, *pipeline.Composition, error) {
	runner, err := c.newRunner(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	prog := newProgress(c.Logger)
	comp, err := runner.Load(ctx, path)
	if err != nil {
		runner.Close()
		return nil, nil, err
	}
	prog.done("Loaded " + comp.Name())
	return runner, comp, nil
}
