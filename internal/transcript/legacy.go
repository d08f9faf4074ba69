package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLegacy decodes the line-oriented pseudo-alignment format produced by
// older transcription runs: one word per line as "start end word [conf]",
// with blank lines separating sentences. Each sentence group becomes one
// segment whose words carry the per-line timing.
func parseLegacy(data []byte) ([]Segment, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	groups := strings.Split(strings.TrimSpace(content), "\n\n")

	var segments []Segment
	for _, group := range groups {
		var words []Word
		for _, line := range strings.Split(group, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("legacy alignment line %q: want start end word", line)
			}
			start, errS := strconv.ParseFloat(fields[0], 64)
			end, errE := strconv.ParseFloat(fields[1], 64)
			if errS != nil || errE != nil {
				return nil, fmt.Errorf("legacy alignment line %q: bad timestamps", line)
			}
			conf := 1.0
			if len(fields) >= 4 {
				if parsed, err := strconv.ParseFloat(fields[3], 64); err == nil {
					conf = parsed
				}
			}
			words = append(words, Word{
				Word:  fields[2],
				Start: start,
				End:   end,
				Conf:  conf,
			})
		}
		if len(words) == 0 {
			continue
		}
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Word
		}
		segments = append(segments, Segment{
			Start:   words[0].Start,
			End:     words[len(words)-1].End,
			Content: strings.Join(texts, " "),
			Words:   words,
		})
	}
	return segments, nil
}
