package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipgrep/internal/transcript"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ntemp_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "tmp"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath}
}

// writeMediaFixture writes a transcript next to a notional media path and
// returns the media path.
func (env *cliTestEnv) writeMediaFixture(t *testing.T, stem string, segments []transcript.Segment) string {
	t.Helper()
	transcriptPath := filepath.Join(env.baseDir, stem+".json")
	if err := transcript.WriteJSON(transcriptPath, segments); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return filepath.Join(env.baseDir, stem+".mp4")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func TestCLISearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 2, Content: "hello there everyone"},
		{Start: 2, End: 4, Content: "nothing relevant here"},
	})

	out, _, err := runCLI(t, []string{"search", "--query", "hello", media}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "hello there everyone")
	requireContains(t, out, "1 match(es) across 1 file(s)")
}

func TestCLISearchSkipsFilesWithoutTranscripts(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 2, Content: "hello there"},
	})
	orphan := filepath.Join(env.baseDir, "orphan.mp4")

	out, _, err := runCLI(t, []string{"search", "--query", "hello", media, orphan}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "1 match(es) across 1 file(s)")
	requireContains(t, out, "Skipped "+orphan)
}

func TestCLISearchJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 1.5, End: 3, Content: "hello there"},
	})

	out, _, err := runCLI(t, []string{"search", "--query", "hello", "--json", media}, env.configPath)
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	requireContains(t, out, `"content": "hello there"`)
	requireContains(t, out, `"start": 1.5`)
}

func TestCLISearchRejectsUnknownType(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 1, Content: "hello"},
	})

	if _, _, err := runCLI(t, []string{"search", "--query", "hello", "--search-type", "fuzzy", media}, env.configPath); err == nil {
		t.Fatal("expected unknown search type error")
	}
}

func TestCLIExportPlaylist(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 2, Content: "hello there"},
		{Start: 5, End: 7, Content: "hello again"},
	})
	output := filepath.Join(env.baseDir, "cut.m3u")

	out, _, err := runCLI(t, []string{
		"export", "--query", "hello", "--output", output, "--demo-mode", "playlist", media,
	}, env.configPath)
	if err != nil {
		t.Fatalf("export --demo-mode playlist: %v", err)
	}
	requireContains(t, out, "Wrote playlist with 2 clip(s)")

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	requireContains(t, string(data), "#EXTM3U")
	requireContains(t, string(data), "talk.mp4")
}

func TestCLIExportEDL(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0.5, End: 2, Content: "hello there"},
	})
	output := filepath.Join(env.baseDir, "cut.edl")

	if _, _, err := runCLI(t, []string{
		"export", "--query", "hello", "--output", output, "--demo-mode", "edl", media,
	}, env.configPath); err != nil {
		t.Fatalf("export --demo-mode edl: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read edl: %v", err)
	}
	requireContains(t, string(data), "talk.mp4\t0.500\t2.000")
}

func TestCLIExportNothingMatched(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 2, Content: "nothing relevant"},
	})
	output := filepath.Join(env.baseDir, "cut.m3u")

	if _, _, err := runCLI(t, []string{
		"export", "--query", "zebra", "--output", output, "--demo-mode", "playlist", media,
	}, env.configPath); err == nil {
		t.Fatal("expected error when nothing matched")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("no output file should be written when nothing matched")
	}
}

func TestCLIExportRejectsUnknownDemoMode(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 1, Content: "hello"},
	})

	if _, _, err := runCLI(t, []string{
		"export", "--query", "hello", "--output", "cut.m3u", "--demo-mode", "screenplay", media,
	}, env.configPath); err == nil {
		t.Fatal("expected unknown demo mode error")
	}
}

func TestCLIFormatsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats"}, "")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, want := range []string{".json", ".vtt", ".srt", ".transcript"} {
		requireContains(t, out, want)
	}
}

func TestCLIIndexRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	media := env.writeMediaFixture(t, "talk", []transcript.Segment{
		{Start: 0, End: 1, Content: "hello"},
	})

	if _, _, err := runCLI(t, []string{"index", media}, env.configPath); err == nil {
		t.Fatal("expected capability error without api key")
	}
}
