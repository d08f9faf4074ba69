package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"clipgrep/internal/services"
	"clipgrep/internal/transcript"
)

func TestTranscribeWritesCanonicalJSON(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")

	service := NewService(Config{Command: "stub", Model: "base"}, nil)
	service.WithCommandRunner(func(_ context.Context, stdout io.Writer, _ string, args ...string) error {
		fmt.Fprintln(stdout, `{"content":"hello there","start":0,"end":1.5}`)
		fmt.Fprintln(stdout, `{"content":"general greeting","start":1.5,"end":3}`)
		return nil
	})

	result, err := service.Transcribe(context.Background(), media)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Partial {
		t.Fatal("clean run must not be partial")
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.TranscriptPath != filepath.Join(dir, "talk.json") {
		t.Fatalf("unexpected transcript path %q", result.TranscriptPath)
	}

	store := transcript.NewStore(nil)
	parsed, err := store.Parse(media, "")
	if err != nil {
		t.Fatalf("persisted transcript must parse: %v", err)
	}
	if parsed[1].Content != "general greeting" {
		t.Fatalf("unexpected parsed content: %+v", parsed[1])
	}
}

func TestTranscribeKeepsPrefixOnInterruption(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")

	service := NewService(Config{Command: "stub"}, nil)
	service.WithCommandRunner(func(_ context.Context, stdout io.Writer, _ string, _ ...string) error {
		fmt.Fprintln(stdout, `{"content":"first","start":0,"end":1}`)
		fmt.Fprintln(stdout, `{"content":"second","start":1,"end":2}`)
		io.WriteString(stdout, `{"content":"trunca`)
		return fmt.Errorf("killed mid-stream")
	})

	result, err := service.Transcribe(context.Background(), media)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !result.Partial {
		t.Fatal("expected partial result flagged")
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected completed prefix of 2 segments, got %d", len(result.Segments))
	}
	if _, statErr := os.Stat(result.TranscriptPath); statErr != nil {
		t.Fatalf("prefix must be persisted: %v", statErr)
	}
}

func TestTranscribeNothingPersistedOnImmediateFailure(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")

	service := NewService(Config{Command: "stub"}, nil)
	service.WithCommandRunner(func(_ context.Context, _ io.Writer, _ string, _ ...string) error {
		return fmt.Errorf("binary missing")
	})

	result, err := service.Transcribe(context.Background(), media)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Partial || len(result.Segments) != 0 {
		t.Fatalf("expected no segments, got %+v", result)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "talk.json")); !os.IsNotExist(statErr) {
		t.Fatal("no transcript file should exist after immediate failure")
	}
}

func TestBuildArgsIncludesModelAndMedia(t *testing.T) {
	service := NewService(Config{Command: "stub", Args: []string{"--device", "cpu"}, Model: "large-v3"}, nil)
	args := service.buildArgs("in.mp4")
	joined := fmt.Sprint(args)
	for _, want := range []string{"--device", "cpu", "--model", "large-v3", "in.mp4"} {
		found := false
		for _, arg := range args {
			if arg == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %q in args, got %v", want, joined)
		}
	}
}
