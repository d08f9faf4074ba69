// Package transcribe drives the external speech-to-text provider.
//
// The provider is a black box: an executable that emits canonical transcript
// segments as JSON lines on stdout. The service collects the stream and
// persists whatever valid prefix arrived, even when the command is
// interrupted mid-stream, so a partial transcript survives for later search.
package transcribe
