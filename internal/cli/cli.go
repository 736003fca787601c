package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jedrzejginter/toolkit/pkg/buildinfo"
	"github.com/jedrzejginter/toolkit/pkg/cache"
	"github.com/jedrzejginter/toolkit/pkg/deps"
	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/integrations/npm"
	"github.com/jedrzejginter/toolkit/pkg/integrations/npmcli"
	"github.com/jedrzejginter/toolkit/pkg/observability"
	"github.com/jedrzejginter/toolkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "toolkit"

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

	v          *viper.Viper
	configFile string
	settings   Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
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
		Short: "Scaffold JavaScript projects with pinned, compatible dependencies",
		Long: `toolkit turns a set of selected features (React, Next.js, Tailwind, Jest, ...)
into the scripts, dependencies and config files a project needs, and pins
every package to an exact version the npm registry actually publishes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(c.v, c.configFile)
			if err != nil {
				return err
			}
			c.settings = s
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ~/.config/toolkit/config.toml)")
	bindSettingsFlags(c.v, root.PersistentFlags())

	root.AddCommand(c.initCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// registryOptions selects how the registry client caches.
type registryOptions struct {
	noCache bool
	refresh bool
	hooks   observability.RegistryHooks
}

// newRegistry builds the registry backend named in the settings. The returned
// cache must be closed by the caller.
func (c *CLI) newRegistry(ctx context.Context, opts registryOptions) (deps.Registry, cache.Cache, error) {
	s := c.settings
	switch s.Registry {
	case registryCLI:
		var npmOpts []npmcli.Option
		if opts.hooks != nil {
			npmOpts = append(npmOpts, npmcli.WithHooks(opts.hooks))
		}
		return npmcli.New(npmOpts...), cache.NewNullCache(), nil
	case registryHTTP:
		ch, err := newCache(ctx, s, opts.noCache)
		if err != nil {
			return nil, nil, err
		}
		return npm.NewClient(npm.Options{
			BaseURL:  s.RegistryURL,
			Cache:    ch,
			CacheTTL: s.CacheTTL,
			Refresh:  opts.refresh,
			Hooks:    opts.hooks,
		}), ch, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown registry backend %q (want %s or %s)", s.Registry, registryHTTP, registryCLI)
	}
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(reg deps.Registry, hooks observability.PipelineHooks) *pipeline.Runner {
	return pipeline.NewRunner(reg, c.Logger, hooks)
}

// pipelineOptions maps settings onto run options.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Concurrency:  c.settings.Concurrency,
		QueryTimeout: c.settings.QueryTimeout,
		OwnVersion:   c.settings.OwnVersion,
	}
}

func newCache(ctx context.Context, s Settings, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if s.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, s.RedisURL, appName+":")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to redis cache")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/toolkit/).
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

// configDir returns ~/.config/toolkit, honouring XDG_CONFIG_HOME.
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

// parseFormat normalises an output format flag.
func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want table, json or yaml)", s)
	}
}
