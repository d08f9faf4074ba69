package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"clipgrep/internal/logging"
	"clipgrep/internal/services"
	"clipgrep/internal/transcript"
)

// Config configures the external transcription command.
type Config struct {
	Command string
	Args    []string
	Model   string
}

// Service runs the external transcriber and persists canonical transcripts.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, stdout io.Writer, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.Command == "" {
		cfg.Command = "whisperx"
	}
	return &Service{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "transcribe"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, stdout io.Writer, name string, args ...string) error) {
	s.commandRunner = runner
}

// Result reports a transcription run.
type Result struct {
	TranscriptPath string
	Segments       []transcript.Segment
	// Partial is set when the provider was interrupted and only a prefix
	// of the transcript was persisted.
	Partial bool
}

// Transcribe runs the provider against a media file and writes the canonical
// JSON transcript next to it. Segments stream as JSON lines; if the command
// fails or is cancelled mid-stream, the completed prefix is still written,
// Partial is set, and the command error is returned alongside the result.
func (s *Service) Transcribe(ctx context.Context, mediaPath string) (Result, error) {
	var result Result
	if strings.TrimSpace(mediaPath) == "" {
		return result, services.Wrap(services.ErrValidation, "transcribe", "input", "media path required", nil)
	}
	result.TranscriptPath = strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".json"

	var buf bytes.Buffer
	runErr := s.run(ctx, &buf, s.cfg.Command, s.buildArgs(mediaPath)...)

	result.Segments = decodeStream(&buf)
	if len(result.Segments) > 0 {
		if err := transcript.WriteJSON(result.TranscriptPath, result.Segments); err != nil {
			return result, services.Wrap(services.ErrExternalTool, "transcribe", "persist", result.TranscriptPath, err)
		}
	}

	if runErr != nil {
		result.Partial = len(result.Segments) > 0
		if result.Partial {
			s.logger.Warn("transcription interrupted; kept completed prefix",
				logging.String("media", mediaPath),
				logging.Int("segments", len(result.Segments)),
				logging.Error(runErr),
			)
		}
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "run", s.cfg.Command, runErr)
	}

	s.logger.Info("transcription complete",
		logging.String("media", mediaPath),
		logging.String("transcript", result.TranscriptPath),
		logging.Int("segments", len(result.Segments)),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, stdout, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (s *Service) buildArgs(mediaPath string) []string {
	args := make([]string, 0, len(s.cfg.Args)+4)
	args = append(args, s.cfg.Args...)
	if model := strings.TrimSpace(s.cfg.Model); model != "" {
		args = append(args, "--model", model)
	}
	args = append(args, "--output_format", "jsonl", mediaPath)
	return args
}

// decodeStream reads segments from a JSON-lines stream, stopping at the
// first malformed line. An interrupted provider truncates mid-line; every
// complete line before that is a valid segment.
func decodeStream(r io.Reader) []transcript.Segment {
	var segments []transcript.Segment
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var segment transcript.Segment
		if err := json.Unmarshal([]byte(line), &segment); err != nil {
			break
		}
		segments = append(segments, segment)
	}
	return segments
}
