// Package cmd provides the CLI commands for ScriptureLens.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/registry"
	"github.com/scripturelens/scripturelens/internal/ui"
	"github.com/scripturelens/scripturelens/pkg/version"
)

// Persistent flags shared by every command.
var (
	configPath string
	dataDir    string
	noColor    bool
)

// NewRootCmd creates the root command for the scripturelens CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripturelens",
		Short: "Word alignment explorer for Bible translations",
		Long: `ScriptureLens serves and queries word-level alignment data between
original-language Bible texts and their translations, as produced by
the Clear Aligner tool.

It answers interlinear, concordance, completion, and drilldown queries
over project databases, and exposes the same queries to AI clients over
the Model Context Protocol.

Run 'scripturelens serve' to start the MCP server, or use the query
commands directly against a data directory.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("scripturelens version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to scripturelens.yaml")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the project data directory")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConcordanceCmd())
	cmd.AddCommand(newInterlinearCmd())
	cmd.AddCommand(newDrilldownCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	return cfg, nil
}

// openRegistry loads config and builds snapshots for every discovered
// project. Query commands call this once and then read from the snapshots.
func openRegistry(ctx context.Context, logger *slog.Logger) (*config.Config, *registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return openRegistryWith(ctx, cfg, logger)
}

func openRegistryWith(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*config.Config, *registry.Registry, error) {
	reg, err := registry.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := reg.Open(ctx); err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

// styles picks the output styles for a command, honoring --no-color.
func styles(cmd *cobra.Command) ui.Styles {
	if noColor || ui.DetectNoColor() {
		return ui.NoColorStyles()
	}
	return ui.StylesFor(cmd.OutOrStdout())
}

// quietLogger returns a logger for one-shot query commands, which keep
// stdout for results and log at warn and above to stderr.
func quietLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

func outf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func outln(cmd *cobra.Command, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), args...)
}
