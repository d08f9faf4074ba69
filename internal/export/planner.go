package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"clipgrep/internal/compose"
	"clipgrep/internal/logging"
	"clipgrep/internal/media"
	"clipgrep/internal/media/ffprobe"
	"clipgrep/internal/search"
	"clipgrep/internal/services"
)

// Strategy selects the render pipeline.
type Strategy int

const (
	StrategyVideo Strategy = iota
	StrategyAudio
)

func (s Strategy) String() string {
	if s == StrategyAudio {
		return "audio"
	}
	return "video"
}

// Prober classifies a source file. The production prober shells out to
// ffprobe and falls back to extension mapping; tests stub it.
type Prober interface {
	Kind(ctx context.Context, path string) media.Kind
}

// Renderer is the external render boundary. RenderBatch cuts and joins the
// given clips into dest; Concat joins already-rendered intermediates. Both
// must fully flush dest before returning, which keeps sequential batch
// processing memory-bounded.
type Renderer interface {
	RenderBatch(ctx context.Context, clips []search.Match, strategy Strategy, dest string) error
	Concat(ctx context.Context, parts []string, strategy Strategy, dest string) error
}

// BatchError records one failed batch.
type BatchError struct {
	Batch int
	Err   error
}

// Summary reports a render run. Failed is non-empty on partial failure;
// the run as a whole only errors when zero batches succeeded.
type Summary struct {
	Output       string
	Strategy     Strategy
	BatchesTotal int
	Failed       []BatchError
}

// Succeeded returns how many batches rendered.
func (s Summary) Succeeded() int {
	return s.BatchesTotal - len(s.Failed)
}

// Planner coordinates strategy selection, batching, and sequential rendering.
type Planner struct {
	prober    Prober
	renderer  Renderer
	batchSize int
	tempDir   string
	logger    *slog.Logger
}

// NewPlanner creates a planner. batchSize bounds clips per renderer
// invocation; tempDir holds scratch intermediates (empty means the system
// temp dir).
func NewPlanner(prober Prober, renderer Renderer, batchSize int, tempDir string, logger *slog.Logger) *Planner {
	if batchSize <= 0 {
		batchSize = 20
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Planner{
		prober:    prober,
		renderer:  renderer,
		batchSize: batchSize,
		tempDir:   tempDir,
		logger:    logging.WithComponent(logger, "export"),
	}
}

// Plan decides the render strategy. Any video-typed source prefers video
// unless the requested output extension is audio-only; pure-audio sources
// against a video output extension cannot work, since video cannot be
// synthesized from audio.
func (p *Planner) Plan(ctx context.Context, composition compose.Composition, outputPath string) (Strategy, error) {
	if len(composition.Clips) == 0 {
		return StrategyVideo, services.Wrap(services.ErrValidation, "export", "plan", "empty composition", nil)
	}

	anyVideo := false
	for _, file := range composition.Files() {
		if p.prober.Kind(ctx, file) == media.KindVideo {
			anyVideo = true
			break
		}
	}

	outputKind := media.KindByExtension(outputPath)
	if anyVideo {
		if outputKind == media.KindAudio {
			return StrategyAudio, nil
		}
		return StrategyVideo, nil
	}
	if outputKind == media.KindVideo {
		return StrategyVideo, services.Wrap(services.ErrValidation, "export", "plan",
			fmt.Sprintf("cannot render video output %s from audio-only sources", filepath.Base(outputPath)), nil)
	}
	return StrategyAudio, nil
}

// Chunk splits a composition into contiguous ordered batches of at most
// batchSize clips.
func Chunk(composition compose.Composition, batchSize int) [][]search.Match {
	if batchSize <= 0 {
		batchSize = len(composition.Clips)
	}
	var batches [][]search.Match
	clips := composition.Clips
	for len(clips) > 0 {
		n := batchSize
		if n > len(clips) {
			n = len(clips)
		}
		batches = append(batches, clips[:n])
		clips = clips[n:]
	}
	return batches
}

// Render plans, batches, and renders the composition to outputPath. Batches
// render strictly sequentially; each must complete before the next starts.
// Per-batch failures are recorded and the run continues; only zero rendered
// batches fail the operation. Scratch intermediates are removed regardless
// of outcome.
func (p *Planner) Render(ctx context.Context, composition compose.Composition, outputPath string) (Summary, error) {
	strategy, err := p.Plan(ctx, composition, outputPath)
	if err != nil {
		return Summary{}, err
	}

	batches := Chunk(composition, p.batchSize)
	summary := Summary{Output: outputPath, Strategy: strategy, BatchesTotal: len(batches)}

	if len(batches) == 1 {
		if err := p.renderer.RenderBatch(ctx, batches[0], strategy, outputPath); err != nil {
			summary.Failed = append(summary.Failed, BatchError{Batch: 0, Err: err})
			return summary, services.Wrap(services.ErrExternalTool, "export", "render", "no batches rendered", err)
		}
		p.logger.Info("render complete",
			logging.String("output", outputPath),
			logging.String("strategy", strategy.String()),
			logging.Int("clips", len(composition.Clips)),
		)
		return summary, nil
	}

	scratch, err := os.MkdirTemp(p.tempDir, "clipgrep-render-")
	if err != nil {
		return summary, services.Wrap(services.ErrExternalTool, "export", "render", "create scratch dir", err)
	}
	defer os.RemoveAll(scratch)

	ext := filepath.Ext(outputPath)
	var parts []string
	for i, batch := range batches {
		dest := filepath.Join(scratch, uuid.NewString()+ext)
		if err := p.renderer.RenderBatch(ctx, batch, strategy, dest); err != nil {
			p.logger.Error("batch render failed",
				logging.Int("batch", i),
				logging.Int("clips", len(batch)),
				logging.Error(err),
			)
			summary.Failed = append(summary.Failed, BatchError{Batch: i, Err: err})
			continue
		}
		parts = append(parts, dest)
	}

	if len(parts) == 0 {
		return summary, services.Wrap(services.ErrExternalTool, "export", "render",
			fmt.Sprintf("all %d batches failed", len(batches)), nil)
	}

	if err := p.renderer.Concat(ctx, parts, strategy, outputPath); err != nil {
		return summary, services.Wrap(services.ErrExternalTool, "export", "concat", outputPath, err)
	}

	if failed := len(summary.Failed); failed > 0 {
		p.logger.Warn("render finished with partial failures",
			logging.String("output", outputPath),
			logging.Int("succeeded", summary.Succeeded()),
			logging.Int("failed", failed),
			logging.String("fraction", fmt.Sprintf("%d/%d", summary.Succeeded(), summary.BatchesTotal)),
		)
	} else {
		p.logger.Info("render complete",
			logging.String("output", outputPath),
			logging.String("strategy", strategy.String()),
			logging.Int("batches", summary.BatchesTotal),
		)
	}
	return summary, nil
}

// FFprobeProber classifies sources with ffprobe, falling back to extension
// mapping when the probe fails.
type FFprobeProber struct {
	Binary string
	Logger *slog.Logger
}

// Kind implements Prober.
func (f FFprobeProber) Kind(ctx context.Context, path string) media.Kind {
	result, err := ffprobe.Inspect(ctx, f.Binary, path)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Debug("ffprobe failed; falling back to extension typing",
				logging.String("file", path),
				logging.Error(err),
			)
		}
		return media.KindByExtension(path)
	}
	if kind := result.Kind(); kind != media.KindUnknown {
		return kind
	}
	return media.KindByExtension(path)
}
