// Package block implements the GIF block-level state machine: header,
// logical screen descriptor, optional global color table, and the block
// loop (graphic control / comment / plain text / application extensions,
// image descriptors, trailer). It owns per-frame parsing state and hands
// decoded frames and metadata to a Sink, mirroring the container package's
// single-pass chunk walk this is grounded on.
package block

import (
	"errors"

	"gifcore/internal/bufpool"
)

// Sentinel errors, one per spec error kind. UnexpectedIntroducer is folded
// into ErrTruncated per the error-handling design: a byte that is not a
// recognized block introducer means the stream cannot be interpreted any
// further, which is the same observable outcome as running out of bytes.
var (
	ErrBadMagic   = errors.New("block: not a GIF87a/GIF89a file")
	ErrTruncated  = errors.New("block: truncated input")
	ErrLZWCorrupt = errors.New("block: corrupt LZW stream")
	ErrAlloc      = errors.New("block: allocator returned nil")
)

// Disposal is the next-frame disposal mode decoded from a graphic control
// extension's packed flags (bits 2-4).
type Disposal int

const (
	DisposalNone             Disposal = iota // 0 or 1: leave frame as-is
	DisposalBackground                       // 2: restore background color
	DisposalRestorePrevious                  // 3: restore previous frame
	DisposalUnspecified                      // other values: no blending hint
)

func disposalFromBits(v int) Disposal {
	switch v {
	case 0, 1:
		return DisposalNone
	case 2:
		return DisposalBackground
	case 3:
		return DisposalRestorePrevious
	default:
		return DisposalUnspecified
	}
}

// RGB is one palette entry, padded to 4 bytes for alignment convenience
// as spec.md's data model describes.
type RGB struct {
	R, G, B, _ byte
}

// FrameInfo is everything the block parser knows about one decoded frame.
type FrameInfo struct {
	ScreenWidth, ScreenHeight int
	BackgroundIndex           int
	Palette                   []RGB
	PaletteCount              int
	TransparentIndex          int // -1 if transparency is disabled
	Delay                     int // 10ms units
	Disposal                  Disposal
	FrameX, FrameY            int
	FrameWidth, FrameHeight   int
	Interlace                 bool
	Index                     int // 0-based
	// Pix is valid only for the duration of the Sink.OnFrame call: the
	// parser returns it to the allocator as soon as OnFrame returns, so a
	// Sink that needs the pixels afterward must copy them.
	Pix []byte
}

// MetaInfo carries an application extension's raw bytes to the metadata
// sink: the 11-byte identifier+auth-code header followed by the
// still-length-prefixed sub-block chain, terminator included.
type MetaInfo struct {
	Header []byte // 11 bytes
	Chain  []byte // raw sub-block chain, including length prefixes and terminator
}

// Sink receives frames and metadata as the block parser walks the stream.
type Sink interface {
	OnFrame(FrameInfo)
	OnMetadata(MetaInfo)
}

// Options configures a Parser.
type Options struct {
	Skip      int
	Allocator bufpool.Allocator
}
