package cmd

import (
	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	var projects []string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild project snapshots from their databases",
		Long: `Rebuild the in-memory snapshot for one or more projects and report the
outcome. Useful after replacing a project database while debugging;
the running server refreshes automatically when auto-sync is enabled.

Examples:
  scripturelens refresh
  scripturelens refresh -p ylt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd, projects)
		},
	}

	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "Project to rebuild (repeatable, default all)")

	return cmd
}

func runRefresh(cmd *cobra.Command, projects []string) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		for _, st := range reg.ListProjects() {
			projects = append(projects, st.ID)
		}
	}

	s := styles(cmd)
	failed := 0
	for _, id := range projects {
		if err := reg.Rebuild(cmd.Context(), id); err != nil {
			failed++
			outf(cmd, "%s %s: %v\n", s.Error.Render("failed"), id, err)
			continue
		}
		ps, err := reg.Snapshot(id)
		if err != nil {
			return err
		}
		outf(cmd, "%s %s %s\n", s.Success.Render("rebuilt"), id,
			s.Label.Render("("+formatCount(ps.Snap.NumLinks())+" links)"))
	}
	if failed > 0 {
		outf(cmd, "%s\n", s.Warning.Render(formatCount(failed)+" project(s) failed"))
	}
	return nil
}
