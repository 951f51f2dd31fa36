// Package bufpool is the decoder's allocator hook: every working buffer a
// decode session needs (the palette, the pixel-index scratch buffer, the
// LZW dictionary) is obtained through an Allocator rather than a bare
// make(). The default Allocator delegates to bucketed sync.Pool instances,
// the same size-class strategy the teacher package used for its (much
// larger) image-plane buffers, scaled down to GIF's small, bounded needs.
package bufpool

// Allocator is the capability a decode session uses to acquire and release
// its working memory. A nil Allocator passed to Decode falls back to the
// package-level Default instance.
type Allocator interface {
	// Acquire returns a byte slice of length size. The returned slice's
	// contents are unspecified (not zeroed) — callers that need a clean
	// buffer must clear it themselves.
	Acquire(size int) []byte
	// Release returns a slice previously obtained from Acquire. Passing a
	// slice not obtained from this Allocator is undefined.
	Release(b []byte)
}
