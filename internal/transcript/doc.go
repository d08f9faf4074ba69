// Package transcript locates and parses transcript files into canonical
// segments.
//
// The Store resolves a transcript path for a media file (exact stem, then
// language-tagged fuzzy names, then a last-resort pattern match), dispatches
// to a format parser over a closed Format enum, and caches parsed segments
// keyed by path and modification time. The canonical interchange schema is a
// JSON array of {content, start, end, words:[{word, start, end, conf}]}.
//
// Word-level timing is synthesized by even duration distribution when a
// source format (SRT) cannot provide it.
package transcript
