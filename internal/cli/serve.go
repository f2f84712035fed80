package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/internal/api"
	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string // empty keeps cards and sheets in process memory
	redisPassword string
	redisDB       int
	keyPrefix     string // namespaces cache keys in a shared Redis
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve card rendering and page tiling over HTTP",
		Long: `Serve card rendering and page tiling over HTTP.

Cards use the fonts, images and card geometry of the configuration; page
geometry can be overridden per request. Rendered cards and generated sheets
are kept in memory, or in Redis with --redis so that several instances can
share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address (host:port) for the shared cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", "", "prefix for cache keys (e.g. staging:)")

	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	f, err := c.loadConfig()
	if err != nil {
		return err
	}
	composer, err := newComposer(f)
	if err != nil {
		return err
	}

	store, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	runner.Workers = c.workers
	defer runner.Close()

	srv := &http.Server{
		Addr: opts.addr,
		Handler: api.NewServer(api.Options{
			Runner:   runner,
			Composer: composer,
			Page:     f.Page,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", opts.addr, "redis", opts.redisAddr != "")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// serveCache returns the Redis cache when configured, otherwise an
// in-memory cache. Sheets live in this cache, so --no-cache does not apply.
func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisAddr == "" {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(ctx, opts.redisAddr, opts.redisPassword, opts.redisDB)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", opts.redisAddr, err)
	}
	return rc, nil
}
