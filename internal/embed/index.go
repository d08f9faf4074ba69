package embed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"

	"github.com/gofrs/flock"

	"clipgrep/internal/logging"
)

// Index pairs a Provider with per-media vector cache files.
type Index struct {
	provider Provider
	logger   *slog.Logger
}

// NewIndex creates a vector index over the given provider.
func NewIndex(provider Provider, logger *slog.Logger) *Index {
	return &Index{
		provider: provider,
		logger:   logging.WithComponent(logger, "embed"),
	}
}

// Queries encodes query strings without caching.
func (ix *Index) Queries(ctx context.Context, queries []string) ([][]float32, error) {
	return ix.provider.Embed(ctx, queries)
}

// SegmentVectors returns one vector per text for the given media file,
// serving from the .emb cache when present. force skips the cache and
// rebuilds it. A stale cache (segment count mismatch after a transcript
// regeneration) also triggers a rebuild. Rebuilds hold a sibling .lock file
// so parallel hosts serialize on the same media.
func (ix *Index) SegmentVectors(ctx context.Context, mediaPath string, texts []string, force bool) ([][]float32, error) {
	cachePath := CachePath(mediaPath)

	if !force {
		if vectors, ok := ix.tryLoad(cachePath, len(texts)); ok {
			return vectors, nil
		}
	}

	lock := flock.New(cachePath + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock vector cache: %w", err)
	}
	defer lock.Unlock()

	// Another holder may have rebuilt the cache while we waited.
	if !force {
		if vectors, ok := ix.tryLoad(cachePath, len(texts)); ok {
			return vectors, nil
		}
	}

	vectors, err := ix.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed segments: %w", err)
	}
	if err := writeVectors(cachePath, vectors); err != nil {
		// Cache write failure is not fatal; vectors are still usable.
		ix.logger.Warn("vector cache write failed", logging.String("path", cachePath), logging.Error(err))
	} else {
		ix.logger.Debug("vector cache rebuilt",
			logging.String("path", cachePath),
			logging.Int("vectors", len(vectors)),
		)
	}
	return vectors, nil
}

func (ix *Index) tryLoad(cachePath string, want int) ([][]float32, bool) {
	vectors, err := readVectors(cachePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ix.logger.Warn("vector cache unreadable; rebuilding", logging.String("path", cachePath), logging.Error(err))
		}
		return nil, false
	}
	if len(vectors) != want {
		ix.logger.Debug("vector cache stale; rebuilding",
			logging.String("path", cachePath),
			logging.Int("cached", len(vectors)),
			logging.Int("want", want),
		)
		return nil, false
	}
	return vectors, true
}

// Cosine computes the cosine similarity of two vectors. Mismatched dimensions
// or zero-norm vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
