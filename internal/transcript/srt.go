package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSRT decodes the plain numbered timed-track format. Each block is
// index / start --> end / text lines; multi-line text is concatenated with a
// single space. SRT carries no word-level timing.
func parseSRT(data []byte) ([]Segment, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")

	var segments []Segment
	for _, block := range blocks {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		// The index line is optional in the wild; find the timing line.
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
		text := strings.Join(lines[timingIdx+1:], " ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, Segment{
			Start:   start,
			End:     end,
			Content: strings.TrimSpace(text),
		})
	}
	return segments, nil
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseClockTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// VTT timing lines may carry cue settings after the end timestamp.
	endText := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endText) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := parseClockTimestamp(endText[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseClockTimestamp converts HH:MM:SS,mmm (SRT) or [HH:]MM:SS.mmm (VTT)
// into seconds. Comma and period millisecond separators are both accepted.
func parseClockTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ",", ".")
	timeParts := strings.Split(value, ".")
	if len(timeParts) > 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var millis int
	if len(timeParts) == 2 {
		parsed, err := strconv.Atoi(padMillis(timeParts[1]))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		millis = parsed
	}
	clock := strings.Split(timeParts[0], ":")
	var hours, minutes, seconds int
	var errH, errM, errS error
	switch len(clock) {
	case 3:
		hours, errH = strconv.Atoi(clock[0])
		minutes, errM = strconv.Atoi(clock[1])
		seconds, errS = strconv.Atoi(clock[2])
	case 2:
		minutes, errM = strconv.Atoi(clock[0])
		seconds, errS = strconv.Atoi(clock[1])
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func padMillis(value string) string {
	for len(value) < 3 {
		value += "0"
	}
	return value[:3]
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
