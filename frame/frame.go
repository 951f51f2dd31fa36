// Package frame defines the public shapes a GIF decode session delivers to
// its caller — a decoded frame, application metadata, and the disposal
// enum — plus the Sink capability a caller implements to receive them.
//
// Image and canvas reconstruction (blending frames onto a persistent
// canvas, honoring disposal between frames) is deliberately not part of
// this package: gifcore hands the caller palette indices and instructions,
// never a composited image.
package frame

// Disposal is the next-frame disposal mode carried on a frame, describing
// what the compositor should do to the canvas before the frame AFTER this
// one is drawn.
type Disposal int

const (
	DisposalNone             Disposal = iota // leave the canvas as rendered
	DisposalBackground                       // restore the background color
	DisposalRestorePrevious                  // restore the canvas to its state before this frame
	DisposalUnspecified                      // disposal value 4-7: not a defined mode
)

// RGB is one palette entry. The trailing byte pads the struct to 4 bytes;
// it carries no data.
type RGB struct {
	R, G, B, _ byte
}

// Info is everything a decoded frame carries. Pix and Palette are copies
// made for this frame: they do not alias the decoder's working buffers,
// which are reused for later frames.
type Info struct {
	ScreenWidth, ScreenHeight int
	BackgroundIndex           int
	Palette                   []RGB
	PaletteCount              int
	TransparentIndex          int // -1 if transparency is disabled for this frame
	Delay                     int // 10ms units
	Disposal                  Disposal
	FrameX, FrameY            int
	FrameWidth, FrameHeight   int
	Interlace                 bool
	Index                     int // 0-based, strictly monotonic across a decode
	// TotalFrames is the count of frames decoded up to and including this
	// one, positive while the decode is progressing normally. It is
	// negated on the last frame ever delivered by a decode that halted
	// before reaching the trailer, signaling truncation or corruption to
	// a caller that only inspects this field.
	TotalFrames int
	Pix         []byte
}

// Meta carries an application extension's bytes to the caller. Chain is
// valid only for the duration of the OnMetadata call.
type Meta struct {
	Header []byte // 11 bytes: 8-byte application identifier + 3-byte auth code
	Chain  []byte // raw sub-block chain: length prefixes, data, and terminator
	// NetscapeLoopCount is the parsed Netscape 2.0 loop count (0 means
	// loop forever), or -1 if Header/Chain do not match that extension's
	// shape. It is derived from Chain, not an independent parse.
	NetscapeLoopCount int
}

// Sink receives frames and metadata as a decode progresses.
type Sink interface {
	OnFrame(Info)
	OnMetadata(Meta)
}

// NopMetadata is embeddable by a Sink implementation that only cares about
// frames, so it does not have to write an empty OnMetadata method itself.
type NopMetadata struct{}

// OnMetadata discards the metadata.
func (NopMetadata) OnMetadata(Meta) {}
