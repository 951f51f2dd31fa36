// Package gifcore implements the decoding core of an animated GIF reader:
// given a complete or partially complete GIF87a/GIF89a byte slice already
// resident in memory, it walks the block structure and LZW-decompresses
// each image descriptor's pixel data, delivering frames and application
// metadata to a caller-supplied frame.Sink.
//
// This package does not composite frames onto a canvas, does not convert
// palette indices to RGB, does not deinterlace, and does not touch a file
// or network — those are the caller's job, using the rectangle, disposal,
// and timing data each frame carries.
//
// Decode tolerates truncated and malformed input at frame granularity:
// frames successfully decoded before a failure are still delivered, and
// the last frame delivered has its TotalFrames field negated so a Sink
// that only inspects that field can detect the incomplete decode, in
// addition to the error Decode itself returns.
package gifcore

import "gifcore/internal/bufpool"

// Options configures a Decode call.
type Options struct {
	// Skip is the number of already-processed frames to swallow silently,
	// for resuming a decode over a larger buffer without re-delivering
	// frames a caller already has. Parsing still advances through skipped
	// frames; only the OnFrame callback is suppressed.
	Skip int

	// Allocator supplies the working buffers (palette, pixel scratch, LZW
	// dictionary) a decode needs. Nil uses a package-level pooled default.
	Allocator bufpool.Allocator
}
