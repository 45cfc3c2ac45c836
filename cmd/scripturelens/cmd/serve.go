package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/logging"
	"github.com/scripturelens/scripturelens/internal/mcp"
	"github.com/scripturelens/scripturelens/internal/watcher"
	"github.com/scripturelens/scripturelens/internal/wordstudy"
)

func newServeCmd() *cobra.Command {
	var transport string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server over stdio.

The server discovers alignment project databases in the data directory,
builds in-memory snapshots, and answers interlinear, concordance,
completion, drilldown, and word study queries from AI clients.

With auto-sync enabled the data directory is watched and changed
projects are rebuilt in the background.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), transport, noWatch)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "Transport to use (stdio)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable data directory watching")

	return cmd
}

func runServe(ctx context.Context, transport string, noWatch bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Stdout belongs to the MCP protocol; logs go to the server log file
	// and stderr only.
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Server.LogLevel
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	if transport == "" {
		transport = cfg.Server.Transport
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, reg, err := openRegistryWith(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Data.AutoSync && !noWatch {
		w, err := watcher.New(cfg.Data.Dir, cfg.WatchDebounce(), reg, logger)
		if err != nil {
			logger.Warn("watcher_unavailable", slog.String("error", err.Error()))
		} else {
			go w.Run(ctx)
			defer w.Stop()
		}
	}

	study, err := wordstudy.NewService(cfg, logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(reg, study, cfg, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx, transport, "")
}
