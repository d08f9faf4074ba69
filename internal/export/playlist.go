package export

import (
	"fmt"
	"os"
	"strings"

	"clipgrep/internal/compose"
)

// WriteM3U writes the composition as an extended M3U playlist. Each clip
// becomes one entry with VLC-style start/stop options so players seek into
// the source file.
func WriteM3U(path string, composition compose.Composition) error {
	var out strings.Builder
	out.WriteString("#EXTM3U\n")
	for _, clip := range composition.Clips {
		title := strings.TrimSpace(clip.Content)
		fmt.Fprintf(&out, "#EXTINF:%.3f,%s\n", clip.End-clip.Start, title)
		fmt.Fprintf(&out, "#EXTVLCOPT:start-time=%.3f\n", clip.Start)
		fmt.Fprintf(&out, "#EXTVLCOPT:stop-time=%.3f\n", clip.End)
		out.WriteString(clip.File)
		out.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}

// WriteEDL writes the composition as a simple edit-decision list: one
// tab-separated line per clip with file, start, end, and the matched text.
func WriteEDL(path string, composition compose.Composition) error {
	var out strings.Builder
	for _, clip := range composition.Clips {
		fmt.Fprintf(&out, "%s\t%.3f\t%.3f\t%s\n", clip.File, clip.Start, clip.End, strings.TrimSpace(clip.Content))
	}
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write edl: %w", err)
	}
	return nil
}
