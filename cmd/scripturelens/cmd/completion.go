package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/completion"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/registry"
)

type completionOptions struct {
	project    string
	scope      string
	testament  string
	book       int
	jsonOutput bool
}

func newCompletionCmd() *cobra.Command {
	var opts completionOptions

	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Show alignment completion percentages",
		Long: `Show how much of a translation has been aligned, at testament, book,
or chapter scope. A scope counts as complete when its links are approved
or created and no required source words are left unaligned.

Examples:
  scripturelens completion -p ylt
  scripturelens completion -p ylt --scope book --testament NT
  scripturelens completion -p ylt --scope chapter --book 43`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompletion(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "Project identifier (required)")
	cmd.Flags().StringVar(&opts.scope, "scope", "testament", "Aggregation scope: testament, book, chapter")
	cmd.Flags().StringVar(&opts.testament, "testament", "", "Restrict book scope to OT or NT")
	cmd.Flags().IntVar(&opts.book, "book", 0, "Book id 1-66 (required for chapter scope)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func runCompletion(cmd *cobra.Command, opts completionOptions) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	var testament *canon.Testament
	if opts.testament != "" {
		t, ok := canon.ParseTestament(opts.testament)
		if !ok {
			return errors.InvalidFilterError("testament", "testament must be OT or NT")
		}
		testament = &t
	}

	stats, err := reg.Completion(opts.project, registry.CompletionScope(opts.scope), testament, opts.book)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	s := styles(cmd)
	outln(cmd, s.Header.Render("Completion: "+opts.project))
	for _, st := range stats {
		if !st.HasData {
			outf(cmd, "  %-20s %s\n", st.Ref, s.Dim.Render("no data"))
			continue
		}
		outf(cmd, "  %-20s %s %6.1f%%  %s\n",
			st.Ref,
			s.PercentBar(st.Percent, 20),
			st.Percent,
			s.Label.Render(formatStatusCounts(st)))
	}
	return nil
}

func formatStatusCounts(st completion.Stat) string {
	return "approved " + formatCount(st.Approved) +
		"  created " + formatCount(st.Created) +
		"  review " + formatCount(st.NeedsReview) +
		"  rejected " + formatCount(st.Rejected) +
		"  missing " + formatCount(st.Missing)
}
