// Package export plans and drives the external render of a composition.
//
// The planner picks a video or audio strategy from the composition's source
// files and the requested output extension, splits large compositions into
// contiguous batches so peak renderer memory stays bounded, and renders the
// batches strictly sequentially through a Renderer. Individual batch
// failures are logged and recorded; the run only fails when no batch
// succeeds. Scratch intermediates are always removed.
//
// Playlist and EDL writers cover callers that want an edit list instead of
// a rendered file; both need nothing beyond file, start, end, and content.
package export
