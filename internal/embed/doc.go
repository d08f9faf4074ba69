// Package embed provides the external text-embedding boundary for semantic
// search.
//
// A Provider computes vectors over HTTP; the Index pairs a Provider with a
// per-media binary cache file so repeated searches do not re-encode
// transcripts. Cache files sit next to the media with a .emb suffix and are
// invalidated only by an explicit force flag, never by modification time.
// Rebuilds take a file lock so concurrent hosts do not clobber each other.
package embed
