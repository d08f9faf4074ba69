package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"clipgrep/internal/search"
)

// searchFlags is the flag set shared by the search and export commands.
type searchFlags struct {
	queries      []string
	searchType   string
	exactMatch   bool
	threshold    float64
	reindex      bool
	preferredExt string
	seed         int64
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.queries, "query", "q", nil, "Search term (repeatable; terms are OR'd)")
	cmd.Flags().StringVarP(&f.searchType, "search-type", "t", "sentence", "Search strategy: sentence, fragment, mash, or semantic")
	cmd.Flags().BoolVar(&f.exactMatch, "exact-match", false, "Match whole words only")
	cmd.Flags().Float64Var(&f.threshold, "threshold", -1, "Minimum similarity for semantic matches (config default when unset)")
	cmd.Flags().BoolVar(&f.reindex, "reindex", false, "Rebuild embedding caches before a semantic search")
	cmd.Flags().StringVar(&f.preferredExt, "preferred-ext", "", "Transcript extension to try first (e.g. .srt)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed for reproducible mash selection")
}

// run executes the search described by the flags against the positional files.
func (f *searchFlags) run(ctx *commandContext, cmd *cobra.Command, files []string) ([]search.Match, search.Summary, error) {
	searchType, err := search.ParseType(f.searchType)
	if err != nil {
		return nil, search.Summary{}, err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, search.Summary{}, err
	}

	opts := search.Options{
		ExactMatch:         f.exactMatch,
		Threshold:          f.threshold,
		Reindex:            f.reindex,
		PreferredExtension: f.preferredExt,
	}
	if opts.Threshold < 0 {
		opts.Threshold = cfg.Search.SemanticThreshold
	}
	if opts.PreferredExtension == "" {
		opts.PreferredExtension = cfg.Search.PreferredExtension
	}

	engine, err := ctx.searchEngine(f.seed)
	if err != nil {
		return nil, search.Summary{}, err
	}
	return engine.Search(cmd.Context(), files, f.queries, searchType, opts)
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	flags := &searchFlags{}
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search --query TERM [flags] FILE...",
		Short: "List transcript spans matching the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, summary, err := flags.run(ctx, cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeMatchesJSON(out, matches)
			}
			printMatches(out, matches)
			printSearchSummary(out, len(matches), summary)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit matches as JSON")
	cmd.MarkFlagRequired("query")
	return cmd
}

func writeMatchesJSON(out io.Writer, matches []search.Match) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

func printMatches(out io.Writer, matches []search.Match) {
	if len(matches) == 0 {
		return
	}

	scored := false
	for _, match := range matches {
		if match.Scored {
			scored = true
			break
		}
	}

	headers := []string{"#", "Start", "End", "File", "Content"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft}
	if scored {
		headers = append(headers, "Score")
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, 0, len(matches))
	for i, match := range matches {
		row := []string{
			fmt.Sprintf("%d", i+1),
			formatTimestamp(match.Start),
			formatTimestamp(match.End),
			filepath.Base(match.File),
			match.Content,
		}
		if scored {
			row = append(row, fmt.Sprintf("%.3f", match.Score))
		}
		rows = append(rows, row)
	}

	if writerIsTerminal(out) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
		return
	}
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row[1:], "\t"))
	}
}

func printSearchSummary(out io.Writer, matched int, summary search.Summary) {
	fmt.Fprintf(out, "%d match(es) across %d file(s)\n", matched, len(summary.Searched))
	if summary.MissingToken != "" {
		fmt.Fprintf(out, "No occurrences of %q; mash result is empty\n", summary.MissingToken)
	}
	for _, skip := range summary.Skipped {
		fmt.Fprintf(out, "Skipped %s: %v\n", skip.File, skip.Err)
	}
}

func formatTimestamp(seconds float64) string {
	return fmt.Sprintf("%.2f", seconds)
}

func writerIsTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
