package transcript

import (
	"regexp"
	"strings"
)

// inlineStampPattern matches inline per-word timestamp tags such as
// <00:00:01.020> inside a cue's text.
var inlineStampPattern = regexp.MustCompile(`<(\d{1,2}:)?\d{1,2}:\d{2}[.,]\d{1,3}>`)

// stylingTagPattern matches styling tags (<c>, </c>, <c.colorE5E5E5>, <i>, ...).
var stylingTagPattern = regexp.MustCompile(`<[^>]*>`)

// metadataLinePattern matches VTT header and metadata lines.
var metadataLinePattern = regexp.MustCompile(`^(WEBVTT|Kind:|Language:|NOTE|STYLE|REGION)`)

// parseVTT decodes the cue-based timed-track format. Styling tags are
// stripped. Inline per-word timestamp tags assign exact word timing; words
// between two consecutive stamps share the span evenly. Cues without inline
// stamps distribute the cue duration evenly across their words.
func parseVTT(data []byte) ([]Segment, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")

	var segments []Segment
	var previousContent string
	for _, block := range blocks {
		lines := splitCueLines(block)
		if len(lines) == 0 {
			continue
		}
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 || timingIdx == len(lines)-1 {
			continue
		}
		start, end, err := parseTimingLine(lines[timingIdx])
		if err != nil {
			return nil, err
		}

		raw := strings.Join(lines[timingIdx+1:], " ")
		words := cueWords(raw, start, end)
		if len(words) == 0 {
			continue
		}
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Word
		}
		content := strings.Join(texts, " ")
		// Auto-generated tracks repeat rolling caption text across cues.
		if content == previousContent {
			continue
		}
		previousContent = content

		segments = append(segments, Segment{
			Start:   start,
			End:     end,
			Content: content,
			Words:   words,
		})
	}
	return segments, nil
}

// cueWords assigns word-level timing from inline stamps, falling back to even
// distribution between consecutive stamps (and the cue bounds at the edges).
func cueWords(raw string, cueStart, cueEnd float64) []Word {
	type run struct {
		start float64
		end   float64
		text  string
	}

	stamps := inlineStampPattern.FindAllStringIndex(raw, -1)
	var runs []run
	if len(stamps) == 0 {
		runs = []run{{start: cueStart, end: cueEnd, text: raw}}
	} else {
		prevTime := cueStart
		prevEnd := 0
		for _, loc := range stamps {
			stampTime, err := parseClockTimestamp(strings.Trim(raw[loc[0]:loc[1]], "<>"))
			if err != nil {
				stampTime = prevTime
			}
			if text := raw[prevEnd:loc[0]]; strings.TrimSpace(stripStyling(text)) != "" {
				runs = append(runs, run{start: prevTime, end: stampTime, text: text})
			}
			prevTime = stampTime
			prevEnd = loc[1]
		}
		if text := raw[prevEnd:]; strings.TrimSpace(stripStyling(text)) != "" {
			runs = append(runs, run{start: prevTime, end: cueEnd, text: text})
		}
	}

	var words []Word
	for _, r := range runs {
		tokens := strings.Fields(stripStyling(r.text))
		if len(tokens) == 0 {
			continue
		}
		span := (r.end - r.start) / float64(len(tokens))
		for i, token := range tokens {
			words = append(words, Word{
				Word:  token,
				Start: r.start + float64(i)*span,
				End:   r.start + float64(i+1)*span,
				Conf:  1,
			})
		}
	}
	return words
}

func stripStyling(text string) string {
	return stylingTagPattern.ReplaceAllString(text, "")
}

func splitCueLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || metadataLinePattern.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
