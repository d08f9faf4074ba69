package transcript

import "strings"

// Words flattens segments into a single word sequence, tagging each word with
// the segment's file. Segments that already carry word timing contribute their
// words unchanged. Segments without word timing get synthesized words: the
// content splits on whitespace and the segment duration distributes evenly
// across the tokens, so word i of n spans [start+i*dur/n, start+(i+1)*dur/n).
// Synthesized timing is an approximation and is only used when no real word
// timing exists.
func Words(segments []Segment) []Word {
	var words []Word
	for _, segment := range segments {
		if segment.HasWords() {
			for _, word := range segment.Words {
				if word.File == "" {
					word.File = segment.File
				}
				words = append(words, word)
			}
			continue
		}
		words = append(words, synthesize(segment)...)
	}
	return words
}

func synthesize(segment Segment) []Word {
	tokens := strings.Fields(segment.Content)
	if len(tokens) == 0 {
		return nil
	}
	span := segment.Duration() / float64(len(tokens))
	words := make([]Word, 0, len(tokens))
	for i, token := range tokens {
		words = append(words, Word{
			Word:  token,
			Start: segment.Start + float64(i)*span,
			End:   segment.Start + float64(i+1)*span,
			Conf:  1,
			File:  segment.File,
		})
	}
	return words
}
