package ffprobe

import (
	"encoding/json"
	"testing"

	"clipgrep/internal/media"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"}
  ],
  "format": {"filename": "in.mp4", "nb_streams": 2, "duration": "12.480", "format_name": "mov,mp4"}
}`

func TestResultStreamTyping(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		t.Fatalf("decode probe json: %v", err)
	}
	if !result.HasVideo() || !result.HasAudio() {
		t.Fatalf("expected both stream kinds, got %+v", result.Streams)
	}
	if result.Kind() != media.KindVideo {
		t.Fatalf("video stream must dominate classification, got %v", result.Kind())
	}
	if result.DurationSeconds() != 12.48 {
		t.Fatalf("DurationSeconds = %v", result.DurationSeconds())
	}
}

func TestResultAudioOnly(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if result.Kind() != media.KindAudio {
		t.Fatalf("expected audio kind, got %v", result.Kind())
	}
}
