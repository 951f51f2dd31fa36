package frame

import "gifcore/internal/block"

// Dispatcher adapts a public Sink to the block package's Sink interface,
// implementing the one-frame lookahead needed to set Info.TotalFrames'
// sign correctly: a frame's total-frame count cannot be known to be final
// until either another frame arrives (proving this one was not last) or
// the parse ends (trailer reached, or halted with an error).
//
// This mirrors the way the block parser itself defers a graphic control
// extension's effect to the image descriptor that follows it — state
// collected now, applied once the next event resolves what it means.
type Dispatcher struct {
	sink    Sink
	pending *Info
}

// NewDispatcher returns a Dispatcher that forwards confirmed frames and
// metadata to sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// OnFrame implements block.Sink. It is called once per frame already past
// the skip threshold, in GIF source order.
func (d *Dispatcher) OnFrame(bi block.FrameInfo) {
	d.flush(true)
	info := toInfo(bi)
	d.pending = &info
}

// OnMetadata implements block.Sink, passing the application extension
// straight through; metadata is never held back by the lookahead buffer.
func (d *Dispatcher) OnMetadata(mi block.MetaInfo) {
	d.sink.OnMetadata(toMeta(mi))
}

// Finish flushes the last buffered frame, if any, negating its
// TotalFrames when ok is false. Call this once after the block parse
// returns, whether it succeeded or failed.
func (d *Dispatcher) Finish(ok bool) {
	d.flush(ok)
}

func (d *Dispatcher) flush(ok bool) {
	if d.pending == nil {
		return
	}
	info := *d.pending
	d.pending = nil
	info.TotalFrames = info.Index + 1
	if !ok {
		info.TotalFrames = -info.TotalFrames
	}
	d.sink.OnFrame(info)
}

// toInfo copies Palette and Pix rather than aliasing them. bi.Pix points
// into the block parser's allocator-owned pixel buffer, which is released
// back to the allocator as soon as OnFrame returns — and Dispatcher holds
// this Info as pending past that point, so it cannot borrow that slice.
// bi.Palette is copied too, so the Info shares no memory with the parser.
func toInfo(bi block.FrameInfo) Info {
	palette := make([]RGB, len(bi.Palette))
	for i, c := range bi.Palette {
		palette[i] = RGB{R: c.R, G: c.G, B: c.B}
	}
	pix := make([]byte, len(bi.Pix))
	copy(pix, bi.Pix)
	return Info{
		ScreenWidth:      bi.ScreenWidth,
		ScreenHeight:     bi.ScreenHeight,
		BackgroundIndex:  bi.BackgroundIndex,
		Palette:          palette,
		PaletteCount:     bi.PaletteCount,
		TransparentIndex: bi.TransparentIndex,
		Delay:            bi.Delay,
		Disposal:         toDisposal(bi.Disposal),
		FrameX:           bi.FrameX,
		FrameY:           bi.FrameY,
		FrameWidth:       bi.FrameWidth,
		FrameHeight:      bi.FrameHeight,
		Interlace:        bi.Interlace,
		Index:            bi.Index,
		Pix:              pix,
	}
}

func toDisposal(d block.Disposal) Disposal {
	switch d {
	case block.DisposalNone:
		return DisposalNone
	case block.DisposalBackground:
		return DisposalBackground
	case block.DisposalRestorePrevious:
		return DisposalRestorePrevious
	default:
		return DisposalUnspecified
	}
}

func toMeta(mi block.MetaInfo) Meta {
	return Meta{
		Header:            mi.Header,
		Chain:             mi.Chain,
		NetscapeLoopCount: netscapeLoopCount(mi.Header, mi.Chain),
	}
}

// netscapeLoopCount parses the Netscape 2.0 application extension's
// sub-block chain: a 3-byte sub-block {0x01, loop-count u16 LE}. Returns
// -1 if the header is not NETSCAPE2.0 or the chain does not start with
// that sub-block; bytes after the first sub-block are not checked.
func netscapeLoopCount(header, chain []byte) int {
	if string(header) != "NETSCAPE2.0" {
		return -1
	}
	if len(chain) < 4 || chain[0] != 3 || chain[1] != 0x01 {
		return -1
	}
	return int(chain[2]) | int(chain[3])<<8
}
