// Package ffprobe wraps ffprobe execution for stream-level media typing.
package ffprobe
