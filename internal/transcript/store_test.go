package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipgrep/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const sampleSRT = `1
00:00:00,000 --> 00:00:04,700
Prometo ser o concerto

2
00:00:05,000 --> 00:00:07,500
que toca na cidade
`

func TestFindPrefersCanonicalJSON(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	writeFile(t, filepath.Join(dir, "video.json"), `[]`)
	writeFile(t, filepath.Join(dir, "video.srt"), sampleSRT)

	store := NewStore(nil)
	path, err := store.Find(media, "")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if filepath.Ext(path) != ".json" {
		t.Fatalf("expected canonical json to win, got %q", path)
	}
}

func TestFindHonorsPreferredExtension(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	writeFile(t, filepath.Join(dir, "video.json"), `[]`)
	writeFile(t, filepath.Join(dir, "video.srt"), sampleSRT)

	store := NewStore(nil)
	path, err := store.Find(media, "srt")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if filepath.Ext(path) != ".srt" {
		t.Fatalf("expected preferred srt to win, got %q", path)
	}
}

func TestFindMatchesLanguageTaggedSibling(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	writeFile(t, filepath.Join(dir, "video.en.srt"), sampleSRT)

	store := NewStore(nil)
	path, err := store.Find(media, "")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if filepath.Base(path) != "video.en.srt" {
		t.Fatalf("expected language-tagged sibling, got %q", path)
	}
}

func TestFindReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")

	store := NewStore(nil)
	_, err := store.Find(media, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseCachesUntilModified(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	transcriptPath := filepath.Join(dir, "video.srt")
	writeFile(t, transcriptPath, sampleSRT)

	store := NewStore(nil)
	first, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("second Parse returned error: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatal("expected cache hit to return the same in-memory segments")
	}

	// Rewriting with a future mtime must invalidate the cache.
	writeFile(t, transcriptPath, sampleSRT)
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(transcriptPath, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	third, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("third Parse returned error: %v", err)
	}
	if &first[0] == &third[0] {
		t.Fatal("expected modified transcript to be re-parsed")
	}
}

func TestParseTagsSegmentsWithMediaFile(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	writeFile(t, filepath.Join(dir, "video.srt"), sampleSRT)

	store := NewStore(nil)
	segments, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	for _, segment := range segments {
		if segment.File != media {
			t.Fatalf("expected segment tagged with media path, got %q", segment.File)
		}
	}
}

func TestParseReportsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	writeFile(t, filepath.Join(dir, "video.json"), `{not json`)

	store := NewStore(nil)
	_, err := store.Parse(media, "")
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestInvalidateForcesReparse(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "video.mp4")
	transcriptPath := filepath.Join(dir, "video.srt")
	writeFile(t, transcriptPath, sampleSRT)

	store := NewStore(nil)
	first, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	store.Invalidate(transcriptPath)
	second, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("Parse after invalidate returned error: %v", err)
	}
	if &first[0] == &second[0] {
		t.Fatal("expected invalidated path to re-parse")
	}
}

func TestParseLegacyFormat(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "audio.wav")
	legacy := "0.00 0.42 hello 0.93\n0.42 0.80 there 0.88\n\n1.10 1.55 friend 0.95\n"
	writeFile(t, filepath.Join(dir, "audio.transcript"), legacy)

	store := NewStore(nil)
	segments, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Content != "hello there" {
		t.Fatalf("expected joined sentence, got %q", segments[0].Content)
	}
	if len(segments[0].Words) != 2 || segments[0].Words[1].Conf != 0.88 {
		t.Fatalf("expected word timing with confidence, got %+v", segments[0].Words)
	}
	if segments[1].Start != 1.10 || segments[1].End != 1.55 {
		t.Fatalf("expected group bounds from word timing, got %+v", segments[1])
	}
}
