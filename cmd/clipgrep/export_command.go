package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"clipgrep/internal/compose"
	"clipgrep/internal/export"
	"clipgrep/internal/search"
	"clipgrep/internal/services"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	flags := &searchFlags{}
	var (
		outputPath string
		padding    float64
		resync     float64
		randomize  bool
		maxClips   int
		demoMode   string
	)

	cmd := &cobra.Command{
		Use:   "export --query TERM --output FILE [flags] FILE...",
		Short: "Compose matching spans and render them to a file",
		Long: `Compose matching spans and render them to a file.

Without --demo-mode the composition is cut and joined with ffmpeg. With
--demo-mode playlist or --demo-mode edl the composition is written as an
m3u playlist or an edit decision list instead, so the cut can be previewed
without rendering.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if demoMode != "" && demoMode != "playlist" && demoMode != "edl" {
				return services.Wrap(services.ErrValidation, "export", "input",
					fmt.Sprintf("unknown demo mode %q (playlist or edl)", demoMode), nil)
			}

			matches, summary, err := flags.run(ctx, cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				printSearchSummary(out, 0, summary)
				return services.Wrap(services.ErrValidation, "export", "input", "nothing matched; nothing to export", nil)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			searchType, err := search.ParseType(flags.searchType)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("padding") {
				padding = compose.DefaultPadding(searchType, cfg.Compose.FragmentPadding, cfg.Compose.MashPadding)
			}
			if !cmd.Flags().Changed("resync") {
				resync = cfg.Compose.Resync
			}

			composeOpts := compose.Options{
				Padding:   padding,
				Resync:    resync,
				Randomize: randomize,
				MaxClips:  maxClips,
			}
			if flags.seed != 0 {
				composeOpts.Rand = rand.New(rand.NewSource(flags.seed))
			}
			composition := compose.Build(matches, composeOpts)

			switch demoMode {
			case "playlist":
				if err := export.WriteM3U(outputPath, composition); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote playlist with %d clip(s) to %s\n", len(composition.Clips), outputPath)
				return nil
			case "edl":
				if err := export.WriteEDL(outputPath, composition); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote edit decision list with %d clip(s) to %s\n", len(composition.Clips), outputPath)
				return nil
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			planner := export.NewPlanner(
				export.FFprobeProber{Binary: cfg.Export.FFprobeBinary, Logger: logger},
				export.NewFFmpegRenderer(cfg.Export.FFmpegBinary),
				cfg.Export.BatchSize,
				cfg.Paths.TempDir,
				logger,
			)

			renderSummary, err := planner.Render(cmd.Context(), composition, outputPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Rendered %d clip(s) (%.1fs) to %s as %s\n",
				len(composition.Clips), composition.Duration(), renderSummary.Output, renderSummary.Strategy)
			if failed := len(renderSummary.Failed); failed > 0 {
				fmt.Fprintf(out, "Warning: %d of %d batch(es) failed; output is incomplete\n",
					failed, renderSummary.BatchesTotal)
				for _, batchErr := range renderSummary.Failed {
					fmt.Fprintf(out, "  batch %d: %v\n", batchErr.Batch+1, batchErr.Err)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file")
	cmd.Flags().Float64Var(&padding, "padding", 0, "Seconds added on both sides of each clip (strategy default when unset)")
	cmd.Flags().Float64Var(&resync, "resync", 0, "Seconds to shift all clips, correcting transcript drift")
	cmd.Flags().BoolVar(&randomize, "randomize", false, "Shuffle clips after merging")
	cmd.Flags().IntVar(&maxClips, "max-clips", 0, "Keep at most this many clips (0 keeps all)")
	cmd.Flags().StringVar(&demoMode, "demo-mode", "", "Write a playlist or edl instead of rendering")
	cmd.MarkFlagRequired("query")
	cmd.MarkFlagRequired("output")
	return cmd
}
