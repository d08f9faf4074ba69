package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipgrep/internal/embed"
	"clipgrep/internal/services"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var preferredExt string

	cmd := &cobra.Command{
		Use:   "index [flags] FILE...",
		Short: "Build or refresh embedding caches for semantic search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := ctx.embeddingIndex()
			if index == nil {
				return services.Wrap(services.ErrCapabilityUnavailable, "index", "setup",
					"semantic search requires an embeddings api key in the configuration", nil)
			}
			store := ctx.transcriptStore()

			out := cmd.OutOrStdout()
			var failures int
			for _, file := range args {
				segments, err := store.Parse(file, preferredExt)
				if err != nil {
					fmt.Fprintf(out, "Skipped %s: %v\n", file, err)
					failures++
					continue
				}
				texts := make([]string, len(segments))
				for i, segment := range segments {
					texts[i] = segment.Content
				}
				if _, err := index.SegmentVectors(cmd.Context(), file, texts, force); err != nil {
					fmt.Fprintf(out, "Failed %s: %v\n", file, err)
					failures++
					continue
				}
				fmt.Fprintf(out, "Indexed %s (%d segments) -> %s\n", file, len(segments), embed.CachePath(file))
			}

			if failures == len(args) {
				return services.Wrap(services.ErrExternalTool, "index", "run",
					fmt.Sprintf("all %d file(s) failed to index", failures), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild caches even when present")
	cmd.Flags().StringVar(&preferredExt, "preferred-ext", "", "Transcript extension to try first (e.g. .srt)")
	return cmd
}
