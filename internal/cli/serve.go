package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomhaller/depview/internal/server"
	"github.com/tomhaller/depview/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		inMemory bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the depview HTTP API",
		Long: `Run the depview HTTP API.

The server stores projects as named graphs and serves computed layouts and
rendered SVGs for them. Graphs persist in MongoDB by default; --in-memory
keeps them in process for local development.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, inMemory, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "store graphs in memory instead of MongoDB")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout and artifact caching")

	return cmd
}

// runServe builds the store and runner from configuration and serves until
// the context is canceled.
func (c *CLI) runServe(ctx context.Context, addr string, inMemory, noCache bool) error {
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	var store server.Store
	if inMemory {
		store = server.NewMemoryStore()
	} else {
		ms, err := server.NewMongoStore(ctx, c.Config.Server.MongoURI, c.Config.Server.MongoDB)
		if err != nil {
			return fmt.Errorf("connect to mongodb at %s: %w", c.Config.Server.MongoURI, err)
		}
		store = ms
	}
	defer func() { _ = store.Close(context.Background()) }()

	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(store, runner, c.Logger)
	return srv.Serve(ctx, addr)
}
