package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/drilldown"
)

type drilldownOptions struct {
	project    string
	testament  string
	book       int
	chapter    int
	status     string
	search     string
	offset     int
	limit      int
	summary    bool
	jsonOutput bool
}

func newDrilldownCmd() *cobra.Command {
	var opts drilldownOptions

	cmd := &cobra.Command{
		Use:   "drilldown",
		Short: "Query individual alignment links",
		Long: `Run a filtered, paginated query over alignment links. Filters combine
conjunctively; the search term matches source and target text
case-insensitively.

Examples:
  scripturelens drilldown -p ylt --book 43 --chapter 1
  scripturelens drilldown -p ylt --status needsReview --limit 10
  scripturelens drilldown -p ylt --search "word" --testament NT
  scripturelens drilldown -p ylt --summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrilldown(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "Project identifier (required)")
	cmd.Flags().StringVar(&opts.testament, "testament", "", "Filter by testament: OT or NT")
	cmd.Flags().IntVar(&opts.book, "book", 0, "Filter by book id 1-66")
	cmd.Flags().IntVar(&opts.chapter, "chapter", 0, "Filter by chapter (requires --book)")
	cmd.Flags().StringVar(&opts.status, "status", "", "Filter by status: approved, created, needsReview, rejected")
	cmd.Flags().StringVar(&opts.search, "search", "", "Case-insensitive text search")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Pagination offset")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Page size (default from config)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Show status tallies instead of items")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func runDrilldown(cmd *cobra.Command, opts drilldownOptions) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	filter := drilldown.Filter{
		Testament: canon.Testament(opts.testament),
		Book:      opts.book,
		Chapter:   opts.chapter,
		Status:    align.Status(opts.status),
		Search:    opts.search,
	}

	s := styles(cmd)
	if opts.summary {
		summary, err := reg.Summarize(opts.project, filter)
		if err != nil {
			return err
		}
		if opts.jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		outln(cmd, s.Header.Render("Links: "+opts.project))
		outf(cmd, "  total       %s\n", formatCount(summary.Total))
		outf(cmd, "  %s    %s\n", s.Approved.Render("approved"), formatCount(summary.Approved))
		outf(cmd, "  %s     %s\n", s.Created.Render("created"), formatCount(summary.Created))
		outf(cmd, "  %s %s\n", s.NeedsReview.Render("needsReview"), formatCount(summary.NeedsReview))
		outf(cmd, "  %s    %s\n", s.Rejected.Render("rejected"), formatCount(summary.Rejected))
		outf(cmd, "  cross-verse %s\n", formatCount(summary.CrossVerse))
		return nil
	}

	page, err := reg.Drilldown(opts.project, filter, opts.offset, opts.limit)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	outf(cmd, "%s\n", s.Header.Render("Links: "+opts.project))
	if len(page.Items) == 0 {
		outln(cmd, s.Dim.Render("  no matching links"))
		return nil
	}
	for _, item := range page.Items {
		status := s.StatusStyle(item.Status).Render(string(item.Status))
		outf(cmd, "  %-14s %-12s %-28s -> %s\n",
			s.Ref.Render(item.RefText),
			status,
			truncate(item.SourceText, 28),
			truncate(item.TargetText, 36))
	}
	outf(cmd, "%s\n", s.Label.Render(
		"showing "+formatCount(len(page.Items))+" of "+formatCount(page.TotalMatches)+
			" matches (offset "+formatCount(page.Offset)+")"))
	return nil
}
