package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/interlinear"
	"github.com/scripturelens/scripturelens/internal/ui"
)

type interlinearOptions struct {
	project    string
	book       int
	chapter    int
	direction  string
	jsonOutput bool
}

func newInterlinearCmd() *cobra.Command {
	var opts interlinearOptions

	cmd := &cobra.Command{
		Use:   "interlinear",
		Short: "Show the interlinear view of one chapter",
		Long: `Show one chapter word by word: each word paired with the words its
alignment link maps it to on the other side, in source or target order.

Examples:
  scripturelens interlinear -p ylt --book 43 --chapter 1
  scripturelens interlinear -p ylt --book 1 --chapter 1 --direction target-order`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInterlinear(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "Project identifier (required)")
	cmd.Flags().IntVar(&opts.book, "book", 0, "Book id 1-66 (required)")
	cmd.Flags().IntVar(&opts.chapter, "chapter", 0, "Chapter number (required)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "Word order: source-order (default) or target-order")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

func runInterlinear(cmd *cobra.Command, opts interlinearOptions) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	direction, ok := interlinear.ParseDirection(opts.direction)
	if !ok {
		return errors.InvalidFilterError("direction", "direction must be source-order or target-order")
	}

	chapter, err := reg.Interlinear(opts.project, opts.book, opts.chapter, direction)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chapter)
	}

	s := styles(cmd)
	outln(cmd, s.Header.Render(chapter.Ref.String()+" ("+string(chapter.Direction)+")"))
	for _, verse := range chapter.Verses {
		outln(cmd, s.Ref.Render(verse.Ref.String()))
		for _, unit := range verse.Units {
			printUnit(cmd, s, unit)
		}
		for _, cl := range verse.CrossLinks {
			outf(cmd, "    %s\n", s.Dim.Render(
				"cross-verse link "+cl.LinkID+" continues in "+cl.OtherRef.String()))
		}
	}
	return nil
}

func printUnit(cmd *cobra.Command, s ui.Styles, unit interlinear.Unit) {
	word := s.Lemma.Render(unit.Word.Text)
	switch {
	case unit.Unaligned && unit.Required:
		outf(cmd, "    %-28s %s\n", word, s.Missing.Render("MISSING"))
	case unit.Unaligned:
		outf(cmd, "    %-28s %s\n", word, s.Dim.Render("unaligned"))
	default:
		linked := joinLinkedTexts(unit.Linked)
		status := s.StatusStyle(unit.Status).Render(string(unit.Status))
		if unit.CrossVerse {
			status += " " + s.Dim.Render("(cross-verse)")
		}
		outf(cmd, "    %-28s %-24s %s\n", word, linked, status)
	}
}

func joinLinkedTexts(words []*align.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
