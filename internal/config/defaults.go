package config

const (
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultExportBatchSize   = 20
	defaultEmbeddingsBaseURL = "https://api.openai.com/v1"
	defaultEmbeddingsModel   = "text-embedding-3-small"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultSemanticThreshold = 0.35
	defaultFragmentPadding   = 0.15
	defaultMashPadding       = 0.05
	defaultTranscribeCommand = "whisperx"
	defaultTranscribeModel   = "base"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Search: Search{
			SemanticThreshold: defaultSemanticThreshold,
		},
		Compose: Compose{
			FragmentPadding: defaultFragmentPadding,
			MashPadding:     defaultMashPadding,
		},
		Export: Export{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			BatchSize:     defaultExportBatchSize,
		},
		Embeddings: Embeddings{
			BaseURL: defaultEmbeddingsBaseURL,
			Model:   defaultEmbeddingsModel,
		},
		Transcribe: Transcribe{
			Command: defaultTranscribeCommand,
			Model:   defaultTranscribeModel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
