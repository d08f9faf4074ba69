package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipgrep/internal/transcript"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported transcript formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptions := map[transcript.Format]string{
				transcript.FormatJSON:   "canonical structured transcript; also the transcribe output",
				transcript.FormatVTT:    "WebVTT cues, inline per-word timestamps honored",
				transcript.FormatSRT:    "SubRip cues; word timing is synthesized",
				transcript.FormatLegacy: "line-oriented word alignments from older transcription runs",
			}

			rows := make([][]string, 0, 4)
			for _, ext := range transcript.SupportedExtensions() {
				format := transcript.DetectFormat("x" + ext)
				rows = append(rows, []string{ext, format.String(), descriptions[format]})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Transcript lookup tries extensions in this order:")
			fmt.Fprintln(out, renderTable(
				[]string{"Extension", "Format", "Notes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
