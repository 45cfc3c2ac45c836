package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/export"
)

func newExportCmd() *cobra.Command {
	var outDir string
	var projects []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alignment data as a JSON tree",
		Long: `Export project snapshots as a JSON file tree: per-book source and
target word files, per-project alignment files, and a merged index.json
manifest. The export directory is locked while writing, so concurrent
exports do not interleave.

Examples:
  scripturelens export
  scripturelens export --out app_data --project ylt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, outDir, projects)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Export directory (default from config)")
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "Project to export (repeatable, default all)")

	return cmd
}

func runExport(cmd *cobra.Command, outDir string, projects []string) error {
	logger := quietLogger(cmd)
	cfg, reg, err := openRegistry(cmd.Context(), logger)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	if len(projects) == 0 {
		for _, st := range reg.ListProjects() {
			projects = append(projects, st.ID)
		}
	}

	s := styles(cmd)
	exporter := export.New(outDir, logger)
	for _, id := range projects {
		ps, err := reg.Snapshot(id)
		if err != nil {
			return err
		}
		if err := exporter.Export(ps.Info, ps.Snap); err != nil {
			return err
		}
		outf(cmd, "%s %s\n", s.Success.Render("exported"), id)
	}
	outf(cmd, "%s\n", s.Label.Render("wrote "+outDir))
	return nil
}
