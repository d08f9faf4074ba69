package embed

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type stubProvider struct {
	calls   int
	vectors [][]float32
	err     error
}

func (s *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.vectors != nil {
		return s.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1, 0}
	}
	return out, nil
}

func TestCachePathReplacesExtension(t *testing.T) {
	if got := CachePath("/media/video.mp4"); got != "/media/video.emb" {
		t.Fatalf("CachePath = %q", got)
	}
}

func TestVectorCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.emb")
	vectors := [][]float32{{1, 2, 3}, {4, 5, 6}}
	if err := writeVectors(path, vectors); err != nil {
		t.Fatalf("writeVectors: %v", err)
	}
	loaded, err := readVectors(path)
	if err != nil {
		t.Fatalf("readVectors: %v", err)
	}
	if len(loaded) != 2 || len(loaded[0]) != 3 {
		t.Fatalf("unexpected shape: %+v", loaded)
	}
	for i := range vectors {
		for j := range vectors[i] {
			if loaded[i][j] != vectors[i][j] {
				t.Fatalf("value [%d][%d] = %v, want %v", i, j, loaded[i][j], vectors[i][j])
			}
		}
	}
}

func TestReadVectorsRejectsCorruptHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.emb")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readVectors(path); err == nil {
		t.Fatal("expected header error")
	}
}

func TestSegmentVectorsServesFromCache(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	provider := &stubProvider{}
	index := NewIndex(provider, nil)

	texts := []string{"first", "second"}
	first, err := index.SegmentVectors(context.Background(), media, texts, false)
	if err != nil {
		t.Fatalf("SegmentVectors: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}

	second, err := index.SegmentVectors(context.Background(), media, texts, false)
	if err != nil {
		t.Fatalf("second SegmentVectors: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected cache hit, provider called %d times", provider.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cache returned different shape: %d vs %d", len(first), len(second))
	}
}

func TestSegmentVectorsForceRebuilds(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	provider := &stubProvider{}
	index := NewIndex(provider, nil)

	texts := []string{"only"}
	if _, err := index.SegmentVectors(context.Background(), media, texts, false); err != nil {
		t.Fatalf("SegmentVectors: %v", err)
	}
	if _, err := index.SegmentVectors(context.Background(), media, texts, true); err != nil {
		t.Fatalf("forced SegmentVectors: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected force to bypass cache, provider called %d times", provider.calls)
	}
}

func TestSegmentVectorsRebuildsOnCountMismatch(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	provider := &stubProvider{}
	index := NewIndex(provider, nil)

	if _, err := index.SegmentVectors(context.Background(), media, []string{"one"}, false); err != nil {
		t.Fatalf("SegmentVectors: %v", err)
	}
	// Transcript grew; the stale single-vector cache must be rebuilt.
	if _, err := index.SegmentVectors(context.Background(), media, []string{"one", "two"}, false); err != nil {
		t.Fatalf("SegmentVectors after growth: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected stale cache rebuild, provider called %d times", provider.calls)
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors = %v, want 1", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors = %v, want 0", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Fatalf("zero vector = %v, want 0", got)
	}
	if got := Cosine([]float32{1}, []float32{1, 0}); got != 0 {
		t.Fatalf("dimension mismatch = %v, want 0", got)
	}
}
