package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"clipgrep/internal/logging"
	"clipgrep/internal/services"
)

// Store resolves and parses transcripts, caching parsed segments by path and
// modification time. A Store is safe for concurrent use; construct one per
// process (or per test) and pass it to the search engine.
type Store struct {
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	segments []Segment
	mtime    time.Time
}

// NewStore creates an empty transcript store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		logger: logging.WithComponent(logger, "transcript"),
		cache:  make(map[string]cacheEntry),
	}
}

// Find locates the transcript for a media file. preferredExt, when non-empty,
// is tried before the default priority order. Resolution stops at the first
// hit: exact same-stem candidates, then sibling files whose name starts with
// the media stem and ends with a candidate extension (language-tagged names
// like video.en.srt), then a last-resort pattern allowing arbitrary middle
// segments. Returns a services.ErrNotFound-tagged error when nothing matches.
func (s *Store) Find(mediaPath, preferredExt string) (string, error) {
	exts := candidateOrder(preferredExt)
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))

	for _, ext := range exts {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	dir := filepath.Dir(mediaPath)
	base := filepath.Base(stem)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "transcript", "find", mediaPath, err)
	}

	for _, ext := range exts {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				continue
			}
			if strings.HasPrefix(name, base) && strings.HasSuffix(name, ext) {
				return filepath.Join(dir, name), nil
			}
		}
	}

	// Last resort: allow arbitrary separators between stem and extension.
	for _, ext := range exts {
		pattern, err := regexp.Compile(regexp.QuoteMeta(base) + `.*` + regexp.QuoteMeta(ext) + `$`)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if pattern.MatchString(entry.Name()) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}

	return "", services.Wrap(services.ErrNotFound, "transcript", "find", fmt.Sprintf("no transcript for %s", mediaPath), nil)
}

// Parse returns the canonical segments for a media file's transcript. Cache
// hits return the same in-memory slice; callers must not mutate it. The cache
// invalidates itself when the transcript's modification time changes.
// Malformed transcripts return a services.ErrParse-tagged error.
func (s *Store) Parse(mediaPath, preferredExt string) ([]Segment, error) {
	path, err := s.Find(mediaPath, preferredExt)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcript", "stat", path, err)
	}
	mtime := info.ModTime()

	s.mu.RLock()
	entry, ok := s.cache[path]
	s.mu.RUnlock()
	if ok && entry.mtime.Equal(mtime) {
		return entry.segments, nil
	}

	segments, err := s.parseFile(path)
	if err != nil {
		return nil, err
	}
	for i := range segments {
		segments[i].File = mediaPath
	}

	s.mu.Lock()
	s.cache[path] = cacheEntry{segments: segments, mtime: mtime}
	s.mu.Unlock()

	s.logger.Debug("parsed transcript",
		logging.String("path", path),
		logging.String("format", DetectFormat(path).String()),
		logging.Int("segments", len(segments)),
	)
	return segments, nil
}

// Invalidate drops any cached parse for the given transcript path. Callers
// that regenerate transcripts use this to force a fresh read.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	delete(s.cache, path)
	s.mu.Unlock()
}

// Clear empties the whole cache.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

func (s *Store) parseFile(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "transcript", "read", path, err)
	}

	var segments []Segment
	switch format := DetectFormat(path); format {
	case FormatJSON:
		segments, err = parseJSON(data)
	case FormatVTT:
		segments, err = parseVTT(data)
	case FormatSRT:
		segments, err = parseSRT(data)
	case FormatLegacy:
		segments, err = parseLegacy(data)
	default:
		return nil, services.Wrap(services.ErrParse, "transcript", "parse", fmt.Sprintf("unknown format for %s", path), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "transcript", "parse", path, err)
	}
	return segments, nil
}

func candidateOrder(preferredExt string) []string {
	preferredExt = strings.TrimSpace(preferredExt)
	if preferredExt == "" {
		return candidateExtensions
	}
	if !strings.HasPrefix(preferredExt, ".") {
		preferredExt = "." + preferredExt
	}
	order := make([]string, 0, len(candidateExtensions)+1)
	order = append(order, preferredExt)
	for _, ext := range candidateExtensions {
		if ext != preferredExt {
			order = append(order, ext)
		}
	}
	return order
}
