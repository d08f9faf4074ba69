// Package search implements the four transcript search strategies.
//
// sentence matches whole segments by case-insensitive regex; fragment sweeps
// a token window across word-level timing to find contiguous phrases; mash
// picks one random occurrence per query token to build intentionally
// non-contiguous audio; semantic scores segments against query embeddings by
// cosine similarity.
//
// Per-file failures (missing or malformed transcripts) are logged, recorded
// in the Summary, and skipped; only an unknown search type or a missing
// embedding provider fail the whole call.
package search
