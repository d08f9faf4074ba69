package transcript

import (
	"path/filepath"
	"strings"
)

// Format identifies a transcript file format. The set is closed; unknown
// extensions map to FormatUnknown rather than guessing.
type Format int

const (
	FormatUnknown Format = iota
	// FormatJSON is the canonical structured format and cache schema.
	FormatJSON
	// FormatVTT is the cue-based timed-track format with optional inline
	// per-word timestamp tags.
	FormatVTT
	// FormatSRT is the plain numbered timed-track format. No word timing.
	FormatSRT
	// FormatLegacy is the line-oriented pseudo-alignment format produced by
	// older transcription runs.
	FormatLegacy
)

// String returns the format name for logging.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatVTT:
		return "vtt"
	case FormatSRT:
		return "srt"
	case FormatLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// candidateExtensions is the transcript lookup priority order.
var candidateExtensions = []string{".json", ".vtt", ".srt", ".transcript"}

// SupportedExtensions returns the transcript lookup priority order, highest
// priority first.
func SupportedExtensions() []string {
	out := make([]string, len(candidateExtensions))
	copy(out, candidateExtensions)
	return out
}

// DetectFormat maps a transcript path to its Format by extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".vtt":
		return FormatVTT
	case ".srt":
		return FormatSRT
	case ".transcript":
		return FormatLegacy
	default:
		return FormatUnknown
	}
}
