package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipgrep/internal/services"
	"clipgrep/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "transcribe [flags] FILE...",
		Short: "Generate transcripts with the configured speech-to-text command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			serviceCfg := transcribe.Config{
				Command: cfg.Transcribe.Command,
				Args:    cfg.Transcribe.Args,
				Model:   cfg.Transcribe.Model,
			}
			if model != "" {
				serviceCfg.Model = model
			}
			service := transcribe.NewService(serviceCfg, logger)
			store := ctx.transcriptStore()

			out := cmd.OutOrStdout()
			var failures int
			for _, file := range args {
				result, err := service.Transcribe(cmd.Context(), file)
				// A regenerated transcript supersedes whatever the store cached.
				if result.TranscriptPath != "" {
					store.Invalidate(result.TranscriptPath)
				}
				switch {
				case err == nil:
					fmt.Fprintf(out, "Transcribed %s (%d segments) -> %s\n",
						file, len(result.Segments), result.TranscriptPath)
				case result.Partial:
					fmt.Fprintf(out, "Interrupted on %s; kept %d completed segment(s) in %s: %v\n",
						file, len(result.Segments), result.TranscriptPath, err)
					failures++
				default:
					fmt.Fprintf(out, "Failed %s: %v\n", file, err)
					failures++
				}
			}

			if failures == len(args) {
				return services.Wrap(services.ErrExternalTool, "transcribe", "run",
					fmt.Sprintf("all %d file(s) failed to transcribe", failures), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Speech-to-text model (config default when unset)")
	return cmd
}
