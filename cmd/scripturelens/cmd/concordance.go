package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/registry"
)

type concordanceOptions struct {
	project    string
	testament  string
	lemma      string
	rendering  string
	width      int
	limit      int
	jsonOutput bool
}

func newConcordanceCmd() *cobra.Command {
	var opts concordanceOptions

	cmd := &cobra.Command{
		Use:   "concordance",
		Short: "List aligned lemmas and their target renderings",
		Long: `List source-language lemmas ranked by how often they are aligned,
with the distinct target renderings each receives.

With --lemma, show key-word-in-context windows for that lemma's
occurrences instead.

Examples:
  scripturelens concordance -p ylt --testament NT --limit 20
  scripturelens concordance -p ylt --lemma "λόγος"
  scripturelens concordance -p ylt --lemma "λόγος" --rendering "word" --width 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConcordance(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "Project identifier (required)")
	cmd.Flags().StringVar(&opts.testament, "testament", "", "Restrict to OT or NT")
	cmd.Flags().StringVar(&opts.lemma, "lemma", "", "Show contexts for one lemma")
	cmd.Flags().StringVar(&opts.rendering, "rendering", "", "Restrict contexts to one rendering")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Context words on each side of the keyword")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 25, "Maximum number of lemmas to list")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func runConcordance(cmd *cobra.Command, opts concordanceOptions) error {
	_, reg, err := openRegistry(cmd.Context(), quietLogger(cmd))
	if err != nil {
		return err
	}

	if opts.lemma != "" {
		return runConcordanceContext(cmd, reg, opts)
	}

	var testament *canon.Testament
	if opts.testament != "" {
		t, ok := canon.ParseTestament(opts.testament)
		if !ok {
			return errors.InvalidFilterError("testament", "testament must be OT or NT")
		}
		testament = &t
	}

	entries, err := reg.Concordance(opts.project, testament)
	if err != nil {
		return err
	}
	if opts.limit > 0 && len(entries) > opts.limit {
		entries = entries[:opts.limit]
	}

	if opts.jsonOutput {
		type jsonRendering struct {
			Text      string `json:"text"`
			Frequency int    `json:"frequency"`
		}
		type jsonEntry struct {
			Lemma      string          `json:"lemma"`
			Gloss      string          `json:"gloss,omitempty"`
			Frequency  int             `json:"frequency"`
			Renderings []jsonRendering `json:"renderings"`
		}
		out := make([]jsonEntry, 0, len(entries))
		for _, e := range entries {
			je := jsonEntry{Lemma: e.Lemma, Gloss: e.Gloss, Frequency: e.TotalFrequency}
			for _, r := range e.Renderings {
				je.Renderings = append(je.Renderings, jsonRendering{Text: r.Text, Frequency: r.Frequency})
			}
			out = append(out, je)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	s := styles(cmd)
	outln(cmd, s.Header.Render("Concordance: "+opts.project))
	for _, e := range entries {
		outf(cmd, "  %s", s.Lemma.Render(e.Lemma))
		if e.Gloss != "" {
			outf(cmd, " %s", s.Dim.Render("("+e.Gloss+")"))
		}
		outf(cmd, "  %s\n", s.Label.Render("x"+formatCount(e.TotalFrequency)))
		for _, r := range e.Renderings {
			outf(cmd, "      %-30s %s\n", truncate(r.Text, 30), s.Label.Render(formatCount(r.Frequency)))
		}
	}
	return nil
}

func runConcordanceContext(cmd *cobra.Command, reg *registry.Registry, opts concordanceOptions) error {
	windows, err := reg.ConcordanceContext(opts.project, opts.lemma, opts.rendering, opts.width)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(windows)
	}

	s := styles(cmd)
	header := "Contexts: " + opts.lemma
	if opts.rendering != "" {
		header += " as \"" + opts.rendering + "\""
	}
	outln(cmd, s.Header.Render(header))
	for _, w := range windows {
		outf(cmd, "  %-14s %s %s %s\n",
			s.Ref.Render(w.RefText),
			w.Before,
			s.Lemma.Render(w.Keyword),
			w.After)
	}
	return nil
}
