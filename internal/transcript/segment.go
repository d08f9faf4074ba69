package transcript

import (
	"encoding/json"
	"fmt"
	"os"
)

// Word is a sub-segment timing unit with its own start/end and confidence.
// File is filled in during search when words from several sources mix.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
	File  string  `json:"file,omitempty"`
}

// Segment is one transcript line: a time range and its text, optionally with
// word-level timing. End is always greater than Start for parsed segments.
type Segment struct {
	File    string  `json:"file,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Content string  `json:"content"`
	Words   []Word  `json:"words,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// HasWords reports whether the segment carries real word-level timing.
func (s Segment) HasWords() bool {
	return len(s.Words) > 0
}

// parseJSON decodes the canonical structured format: a top-level array of
// segments. This is also the cache/interchange schema written by the
// transcribe service.
func parseJSON(data []byte) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("decode canonical transcript: %w", err)
	}
	return segments, nil
}

// WriteJSON persists segments in the canonical structured format.
func WriteJSON(path string, segments []Segment) error {
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
