package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/cache"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/pipeline"
	"github.com/matzehuels/fractalplane/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		remote remoteCacheOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Frames are cached in Redis (--redis), MongoDB (--mongo) or the local cache
directory, in that order of preference. Only one batch runs at a time; a
render that misses the cache while another is running gets 409 Conflict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, remote)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&remote.redisURL, "redis", "", "redis URL, e.g. redis://localhost:6379/0")
	cmd.Flags().StringVar(&remote.mongoURI, "mongo", "", "mongodb URI, e.g. mongodb://localhost:27017")
	cmd.Flags().StringVar(&remote.mongoDB, "mongo-db", "", "mongodb database (default fractalplane)")
	cmd.Flags().StringVar(&remote.keyPrefix, "key-prefix", "", "namespace for cache keys when several deployments share a backend")
	cmd.Flags().BoolVar(&remote.noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts remoteCacheOpts) error {
	fc, err := newServerCache(ctx, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "initialize cache")
	}
	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.keyPrefix)
	}
	runner := pipeline.NewRunner(fc, keyer, c.Logger)
	defer runner.Close()

	return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
}
