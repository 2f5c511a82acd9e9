package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/internal/server"
	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/dataset"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/session"
	"github.com/matzehuels/canopy/pkg/tree"
)

type serveOpts struct {
	addr     string
	store    string
	storeDir string
	redisURL string
	watch    bool
	allowAll bool
	frames   int
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file|sample]",
		Short: "Serve an interactive tree page over HTTP",
		Long: `Serve hosts the tree on a local web page. Each browser tab gets its own
session; clicks, pans and zooms are saved to the session store so a
restarted server picks up where it left off. With --watch, edits to the
dataset file reload connected pages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, &opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "session store: memory, file, redis")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "directory for the file store")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis URL for the redis store")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload pages when the dataset file changes")
	cmd.Flags().BoolVar(&opts.allowAll, "cors-all", false, "allow all CORS origins")
	cmd.Flags().IntVar(&opts.frames, "frames", 12, "frames per toggle animation sent to the page")
	return cmd
}

// applyServeFlags lets explicitly set flags override the config file.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, opts *serveOpts) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("store") {
		cfg.Server.Store = opts.store
	}
	if flags.Changed("store-dir") {
		cfg.Server.StoreDir = opts.storeDir
	}
	if flags.Changed("redis-url") {
		cfg.Server.RedisURL = opts.redisURL
	}
	if flags.Changed("watch") {
		cfg.Server.Watch = opts.watch
	}
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, args []string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	items, name, err := c.loadItems(args)
	if err != nil {
		return err
	}
	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}
	store, err := session.Open(ctx, session.Options{
		Backend:  cfg.Server.Store,
		Dir:      cfg.Server.StoreDir,
		RedisURL: cfg.Server.RedisURL,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	wopts := cfg.WidgetOptions()
	wopts.Logger = logger
	hub := server.NewHub(items, store, wopts, ttl)

	var reloader *server.Reloader
	if cfg.Server.Watch {
		if len(args) == 0 || args[0] == sampleArg {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "--watch needs a dataset file")
		}
		path := args[0]
		load := func() ([]tree.Item, error) { return dataset.Load(path) }
		if reloader, err = server.NewReloader(path, load, hub, logger); err != nil {
			return err
		}
	}

	srv := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		Title:    name,
		Frames:   opts.frames,
		AllowAll: opts.allowAll,
	}, hub, reloader, logger)

	go c.cleanupLoop(ctx, store, time.Hour)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// cleanupLoop drops expired sessions periodically.
func (c *CLI) cleanupLoop(ctx context.Context, store session.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				c.Logger.Warn("session cleanup", "error", err)
			}
		}
	}
}
