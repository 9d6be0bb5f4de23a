// Package cli implements the depalyze command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depalyze/internal/config"
	"github.com/matzehuels/depalyze/pkg/buildinfo"
	"github.com/matzehuels/depalyze/pkg/cache"
	"github.com/matzehuels/depalyze/pkg/heuristics"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "depalyze"

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
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Depalyze explores how an ecosystem's dependencies evolved",
		Long: `Depalyze loads the release and dependency history of a package ecosystem
from a snapshot file and answers questions about it: when did a package move
to a new version of its dependency, who depends on it, and which packages sit
between busy upstream and downstream maintainers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/depalyze/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the report cache")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.spansCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.interestingCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// analyzer returns a heuristics analyzer using the configured thresholds.
func (c *CLI) analyzer(ld *loaded) *heuristics.Analyzer {
	return heuristics.New(ld.store, c.Config.Heuristics)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the report cache selected by the config. A Redis address
// takes precedence over the file cache; failures to reach Redis fall back to
// the file cache with a warning.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Config.Cache
	if c.noCache || cc.Disabled {
		return cache.NewNullCache(), nil
	}
	if cc.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cc.RedisAddr})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", cc.RedisAddr, "err", err)
	}
	dir := cc.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depalyze/).
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
