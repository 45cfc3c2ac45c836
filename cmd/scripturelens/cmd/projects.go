package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the discovered alignment projects",
		Long: `List every alignment project database found in the data directory,
with build status and corpus statistics.

Examples:
  scripturelens projects
  scripturelens projects --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjects(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runProjects(cmd *cobra.Command, jsonOutput bool) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	statuses := reg.ListProjects()
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	s := styles(cmd)
	if len(statuses) == 0 {
		outln(cmd, s.Dim.Render("No projects found. Put clear-aligner-*.sqlite files in the data directory."))
		return nil
	}

	outln(cmd, s.Header.Render("Projects"))
	for _, st := range statuses {
		marker := s.Success.Render("ok")
		if st.Stale {
			marker = s.Warning.Render("stale")
		}
		if !st.HasData {
			marker = s.Error.Render("failed")
		}
		outf(cmd, "  %-12s %-40s %s\n", st.ID, st.Name, marker)

		if ps, err := reg.Snapshot(st.ID); err == nil {
			outf(cmd, "  %s\n", s.Label.Render(
				formatKPIs(ps.KPIs.SourceOT, ps.KPIs.SourceNT, ps.KPIs.TargetWords, ps.KPIs.Links)))
		} else if st.LastError != "" {
			outf(cmd, "  %s\n", s.Error.Render(st.LastError))
		}
	}
	return nil
}

func formatKPIs(sourceOT, sourceNT, target, links int) string {
	return "  " +
		"hebrew: " + formatCount(sourceOT) +
		"  greek: " + formatCount(sourceNT) +
		"  target: " + formatCount(target) +
		"  links: " + formatCount(links)
}
