package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"clipgrep/internal/search"
)

// FFmpegRenderer implements Renderer by shelling out to ffmpeg. Each batch
// becomes one invocation: every clip is a seeked input and the concat filter
// joins them, so ffmpeg only ever holds one batch in memory.
type FFmpegRenderer struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewFFmpegRenderer creates a renderer using the given ffmpeg binary.
func NewFFmpegRenderer(binary string) *FFmpegRenderer {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegRenderer{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *FFmpegRenderer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

func (r *FFmpegRenderer) run(ctx context.Context, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.binary, args...)
	}
	cmd := exec.CommandContext(ctx, r.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", r.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// RenderBatch cuts the clips from their sources and joins them into dest.
func (r *FFmpegRenderer) RenderBatch(ctx context.Context, clips []search.Match, strategy Strategy, dest string) error {
	if len(clips) == 0 {
		return fmt.Errorf("render batch: no clips")
	}

	args := make([]string, 0, len(clips)*6+8)
	args = append(args, "-hide_banner", "-nostdin", "-y")
	for _, clip := range clips {
		args = append(args,
			"-ss", formatSeconds(clip.Start),
			"-to", formatSeconds(clip.End),
			"-i", clip.File,
		)
	}

	var filter strings.Builder
	for i := range clips {
		if strategy == StrategyVideo {
			fmt.Fprintf(&filter, "[%d:v][%d:a]", i, i)
		} else {
			fmt.Fprintf(&filter, "[%d:a]", i)
		}
	}
	if strategy == StrategyVideo {
		fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[v][a]", len(clips))
		args = append(args, "-filter_complex", filter.String(), "-map", "[v]", "-map", "[a]")
	} else {
		fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[a]", len(clips))
		args = append(args, "-filter_complex", filter.String(), "-map", "[a]")
	}
	args = append(args, dest)

	if err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("render batch: %w", err)
	}
	return nil
}

// Concat joins already-rendered intermediates into dest via the concat
// demuxer with stream copy. The list file is scratch and always removed.
func (r *FFmpegRenderer) Concat(ctx context.Context, parts []string, _ Strategy, dest string) error {
	if len(parts) == 0 {
		return fmt.Errorf("concat: no parts")
	}

	var list strings.Builder
	for _, part := range parts {
		fmt.Fprintf(&list, "file '%s'\n", strings.ReplaceAll(part, "'", `'\''`))
	}
	listFile := filepath.Join(filepath.Dir(parts[0]), "concat.txt")
	if err := os.WriteFile(listFile, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("concat: write list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-c", "copy",
		dest,
	}
	if err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
