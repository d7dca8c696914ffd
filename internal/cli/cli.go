// Package cli implements the fractalplane command-line interface.
//
// # Commands
//
//   - render: compute a frame and write it to a .fpz file
//   - inspect: summarize a .fpz file
//   - orbit: trace a single pixel and print its orbit
//   - families: list the fractal families and their defaults
//   - serve: run the HTTP API
//   - cache: manage the local frame cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/buildinfo"
	"github.com/matzehuels/fractalplane/pkg/cache"
	"github.com/matzehuels/fractalplane/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "fractalplane"

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
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
		Short:        "Fractalplane computes escape-time and root-finding fractals in parallel",
		Long:         `Fractalplane computes per-pixel statistics for divergent, Newton, magnet and Lyapunov fractals, splitting each frame into blocks that are iterated concurrently.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.orbitCommand())
	root.AddCommand(c.familiesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the local file cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// remoteCacheOpts selects a shared cache for the server.
type remoteCacheOpts struct {
	redisURL  string
	mongoURI  string
	mongoDB   string
	keyPrefix string
	noCache   bool
}

// newServerCache picks Redis, then MongoDB, then the local file cache.
func newServerCache(ctx context.Context, opts remoteCacheOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisURL != "":
		return cache.NewRedisCache(ctx, opts.redisURL)
	case opts.mongoURI != "":
		return cache.NewMongoCache(ctx, cache.MongoOptions{URI: opts.mongoURI, Database: opts.mongoDB})
	}
	return newCache(false)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fractalplane/).
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
