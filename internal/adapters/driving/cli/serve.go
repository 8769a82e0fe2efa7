package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/adapters/driven/watch"
	"github.com/custodia-labs/docchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docchat/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API. With ingest.watch_dir configured it also
watches that directory and ingests documents dropped into it.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureServices(ctx); err != nil {
		return err
	}

	server := httpapi.NewServer(
		ingestionService,
		queryService,
		documentService,
		cfg.Server.Addr,
		cfg.Server.APIToken,
		httpapi.WithTopK(cfg.Ingest.TopK),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(ctx)
	})

	if dir := cfg.Ingest.WatchDir; dir != "" {
		watcher := watch.NewWatcher(ingestionService, watchExtensions)
		g.Go(func() error {
			logger.Info("Watching %s for new documents", dir)
			return watcher.Run(ctx, dir)
		})
	}

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		// Shutdown by signal is a clean exit.
		return nil
	}
	return err
}
