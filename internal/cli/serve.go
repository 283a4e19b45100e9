package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/cache"
	"github.com/matzehuels/texatlas/pkg/config"
	"github.com/matzehuels/texatlas/pkg/pipeline"
	"github.com/matzehuels/texatlas/pkg/server"
	"github.com/matzehuels/texatlas/pkg/store"
)

// memoryStoreLimit caps the layouts kept by the in-memory store.
const memoryStoreLimit = 10000

// serveCommand creates the serve command for the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		mongoURI   string
		maxSprites int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve runs an HTTP service that packs sizes posted as JSON and keeps the
resulting layouts for later retrieval.

Layouts are kept in memory unless a MongoDB URI is configured.

Endpoints:
  POST /v1/layouts        pack sizes, returns the stored layout
  GET  /v1/layouts        list recent layouts
  GET  /v1/layouts/{id}   fetch one layout
  GET  /healthz           liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if mongoURI != "" {
				cfg.Server.MongoURI = mongoURI
			}
			return c.runServe(cmd.Context(), cfg, maxSprites, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for layout storage (default: in memory)")
	cmd.Flags().IntVar(&maxSprites, "max-sprites", server.DefaultMaxSprites, "maximum sizes per request")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, maxSprites int, noCache bool) error {
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

	srv := server.New(runner, st, c.Logger,
		server.WithDefaults(pipeline.FromConfig(cfg)),
		server.WithMaxSprites(maxSprites),
	)

	printInfo("Serving on %s", StyleLink.Render(cfg.Server.Addr))
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// newStore returns a MongoDB store when a URI is configured, else an
// in-memory store.
func (c *CLI) newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Server.MongoURI == "" {
		c.Logger.Debug("using in-memory layout store")
		return store.NewMemoryStore(memoryStoreLimit), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:      cfg.Server.MongoURI,
		Database: cfg.Server.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	c.Logger.Debug("using mongodb layout store", "database", cfg.Server.MongoDatabase)
	return st, nil
}
