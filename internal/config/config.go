package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TempDir string `toml:"temp_dir"`
	LogFile string `toml:"log_file"`
}

// Search contains default knobs for the search engine.
type Search struct {
	// PreferredExtension is tried first when locating transcripts (e.g. ".srt").
	PreferredExtension string `toml:"preferred_extension"`
	// SemanticThreshold is the minimum cosine similarity for semantic matches.
	SemanticThreshold float64 `toml:"semantic_threshold"`
}

// Compose contains default composition-builder parameters, in seconds.
type Compose struct {
	FragmentPadding float64 `toml:"fragment_padding"`
	MashPadding     float64 `toml:"mash_padding"`
	Resync          float64 `toml:"resync"`
}

// Export contains external-renderer configuration.
type Export struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	BatchSize     int    `toml:"batch_size"`
}

// Embeddings contains the external embedding provider settings.
type Embeddings struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Transcribe contains the external transcription provider settings.
type Transcribe struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Model   string   `toml:"model"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipgrep.
//
// Configuration sections by subsystem:
//   - Paths: scratch and log locations
//   - Search: transcript lookup and semantic threshold defaults
//   - Compose: padding/resync defaults fed to the composition builder
//   - Export: ffmpeg/ffprobe binaries and render batch size
//   - Embeddings: external embedding provider for semantic search
//   - Transcribe: external speech-to-text command
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Search     Search     `toml:"search"`
	Compose    Compose    `toml:"compose"`
	Export     Export     `toml:"export"`
	Embeddings Embeddings `toml:"embeddings"`
	Transcribe Transcribe `toml:"transcribe"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipgrep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Missing files are not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipgrep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		if c.Paths.LogFile, err = expandPath(c.Paths.LogFile); err != nil {
			return fmt.Errorf("paths.log_file: %w", err)
		}
	}
	if strings.TrimSpace(c.Export.FFmpegBinary) == "" {
		c.Export.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Export.FFprobeBinary) == "" {
		c.Export.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Export.BatchSize <= 0 {
		c.Export.BatchSize = defaultExportBatchSize
	}
	if strings.TrimSpace(c.Embeddings.BaseURL) == "" {
		c.Embeddings.BaseURL = defaultEmbeddingsBaseURL
	}
	if strings.TrimSpace(c.Embeddings.Model) == "" {
		c.Embeddings.Model = defaultEmbeddingsModel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if ext := strings.TrimSpace(c.Search.PreferredExtension); ext != "" && !strings.HasPrefix(ext, ".") {
		c.Search.PreferredExtension = "." + ext
	}
	return nil
}

// EnsureDirectories creates the scratch directory render batches write into.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.TempDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.TempDir, err)
	}
	return nil
}

// ExpandPath resolves ~ and returns an absolute cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
