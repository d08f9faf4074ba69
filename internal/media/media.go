// Package media classifies files as video or audio for export planning.
package media

import (
	"path/filepath"
	"strings"
)

// Kind is the coarse media classification the export planner needs.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".mov": {}, ".avi": {}, ".webm": {}, ".m4v": {}, ".mpg": {}, ".mpeg": {}, ".ts": {},
}

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".flac": {}, ".m4a": {}, ".ogg": {}, ".opus": {}, ".aac": {}, ".wma": {},
}

// KindByExtension classifies a path by its extension alone. Used as the
// fallback when ffprobe is unavailable, and to classify requested output
// paths (which do not exist yet).
func KindByExtension(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	if _, ok := audioExtensions[ext]; ok {
		return KindAudio
	}
	return KindUnknown
}
