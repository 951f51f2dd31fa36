package block

import (
	"fmt"

	"gifcore/internal/bufpool"
	"gifcore/internal/cursor"
	"gifcore/internal/lzw"
	"gifcore/internal/subblock"
)

const (
	introExtension = 0x21
	introImage     = 0x2C
	introTrailer   = 0x3B

	extGraphicControl = 0xF9
	extComment        = 0xFE
	extPlainText      = 0x01
	extApplication    = 0xFF

	applicationHeaderSize = 11 // 8-byte identifier + 3-byte auth code
)

// Parser walks a GIF byte stream once, dispatching decoded frames and
// metadata to a Sink as it goes. It carries forward the graphic control
// extension state a later image descriptor consumes, and the LZW
// dictionary and pixel scratch buffers it borrows from the allocator for
// the lifetime of the parse.
type Parser struct {
	sink  Sink
	alloc bufpool.Allocator
	skip  int

	screenWidth, screenHeight int
	backgroundIndex           int
	globalPalette             []RGB
	globalPaletteCount        int

	// pending graphic control state, consumed by the next image descriptor
	// and reset to its defaults once consumed (the spec's "applies to the
	// single following graphic rendering block" rule).
	pendingDelay       int
	pendingDisposal    Disposal
	pendingTransparent int // -1 if disabled

	dict  []byte // LZW dictionary scratch, acquired once and reused per frame
	index int
}

// Parse runs the block-level state machine over data, calling sink.OnFrame
// and sink.OnMetadata as blocks decode. It returns nil once the trailer is
// reached, and otherwise one of the sentinel errors in this package
// wrapped with %w and a short description of what was being read, the way
// the teacher wraps its own chunk-reading errors.
func Parse(data []byte, sink Sink, opts Options) error {
	alloc := opts.Allocator
	if alloc == nil {
		alloc = bufpool.Default
	}

	p := &Parser{
		sink:               sink,
		alloc:              alloc,
		skip:               opts.Skip,
		pendingTransparent: -1,
	}
	defer p.releaseDict()

	c := cursor.New(data)

	if err := p.readHeader(c); err != nil {
		return err
	}
	if err := p.readLogicalScreenDescriptor(c); err != nil {
		return err
	}

	for {
		intro, err := c.ReadU8()
		if err != nil {
			return fmt.Errorf("block: reading block introducer: %w", ErrTruncated)
		}
		switch intro {
		case introExtension:
			if err := p.readExtension(c); err != nil {
				return err
			}
		case introImage:
			if err := p.readImage(c); err != nil {
				return err
			}
		case introTrailer:
			return nil
		default:
			return fmt.Errorf("block: reading block introducer: unrecognized byte 0x%02X: %w", intro, ErrTruncated)
		}
	}
}

func (p *Parser) releaseDict() {
	if p.dict != nil {
		p.alloc.Release(p.dict)
		p.dict = nil
	}
}

func (p *Parser) readHeader(c *cursor.Cursor) error {
	magic, err := c.Slice(6)
	if err != nil {
		return fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}
	if string(magic[:3]) != "GIF" {
		return fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}
	version := string(magic[3:6])
	if version != "87a" && version != "89a" {
		return fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}
	return nil
}

func (p *Parser) readLogicalScreenDescriptor(c *cursor.Cursor) error {
	width, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	height, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	packed, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	background, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	// Pixel aspect ratio: nothing downstream of a decoded frame needs it,
	// so it is read only to advance past it.
	if _, err := c.ReadU8(); err != nil {
		return fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}

	p.screenWidth = int(width)
	p.screenHeight = int(height)
	p.backgroundIndex = int(background)

	if packed&0x80 != 0 {
		size := 2 << (packed & 0x07)
		pal, n, err := readColorTable(c, p.alloc, size)
		if err != nil {
			return err
		}
		p.globalPalette = pal
		p.globalPaletteCount = n
	}
	return nil
}

// readColorTable reads n RGB triples from the cursor. It round-trips a
// same-sized buffer through the allocator so color-table memory pressure
// is visible to the allocator hook exactly like pixel and dictionary
// memory, then decodes into a plain []RGB the caller keeps for the life
// of the parse (color tables are small and few, unlike pixel buffers,
// so there is no per-table Release to track).
func readColorTable(c *cursor.Cursor, alloc bufpool.Allocator, n int) ([]RGB, int, error) {
	raw, err := c.Slice(n * 3)
	if err != nil {
		return nil, 0, fmt.Errorf("block: reading color table: %w", ErrTruncated)
	}
	scratch := alloc.Acquire(n * 3)
	if scratch == nil {
		return nil, 0, fmt.Errorf("block: reading color table: %w", ErrAlloc)
	}
	copy(scratch, raw)
	out := make([]RGB, n)
	for i := 0; i < n; i++ {
		out[i] = RGB{R: scratch[i*3], G: scratch[i*3+1], B: scratch[i*3+2]}
	}
	alloc.Release(scratch)
	return out, n, nil
}

func (p *Parser) readExtension(c *cursor.Cursor) error {
	label, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading extension label: %w", ErrTruncated)
	}
	switch label {
	case extGraphicControl:
		return p.readGraphicControl(c)
	case extApplication:
		return p.readApplication(c)
	default:
		// Comment, plain text, and any extension label this parser does
		// not interpret are still wire-compatible sub-block chains and
		// can be skipped without being understood.
		return p.skipExtension(c, label)
	}
}

func (p *Parser) readGraphicControl(c *cursor.Cursor) error {
	size, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading graphic control extension: %w", ErrTruncated)
	}
	if size != 4 {
		return fmt.Errorf("block: reading graphic control extension: unexpected block size %d: %w", size, ErrTruncated)
	}
	body, err := c.Slice(4)
	if err != nil {
		return fmt.Errorf("block: reading graphic control extension: %w", ErrTruncated)
	}
	packed := body[0]
	delay := int(body[1]) | int(body[2])<<8
	transparentIndex := int(body[3])

	terminator, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading graphic control extension: %w", ErrTruncated)
	}
	if terminator != 0 {
		return fmt.Errorf("block: reading graphic control extension: missing terminator: %w", ErrTruncated)
	}

	p.pendingDisposal = disposalFromBits(int(packed>>2) & 0x07)
	p.pendingDelay = delay
	if packed&0x01 != 0 {
		p.pendingTransparent = transparentIndex
	} else {
		p.pendingTransparent = -1
	}
	return nil
}

func (p *Parser) readApplication(c *cursor.Cursor) error {
	size, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading application extension: %w", ErrTruncated)
	}
	if size != applicationHeaderSize {
		return fmt.Errorf("block: reading application extension: unexpected header size %d: %w", size, ErrTruncated)
	}
	header, err := c.Slice(applicationHeaderSize)
	if err != nil {
		return fmt.Errorf("block: reading application extension: %w", ErrTruncated)
	}
	headerCopy := append([]byte(nil), header...)

	chain, err := subblock.Raw(c)
	if err != nil {
		return fmt.Errorf("block: reading application extension: %w", ErrTruncated)
	}

	p.sink.OnMetadata(MetaInfo{Header: headerCopy, Chain: chain})
	return nil
}

// skipExtension advances past an extension's fixed-size block-size-prefixed
// header (plain text's 12-byte text grid descriptor, or any unrecognized
// extension's declared size) and then its sub-block chain. Comment
// extensions have no fixed header at all: their payload is the chain.
func (p *Parser) skipExtension(c *cursor.Cursor, label byte) error {
	if label != extComment {
		size, err := c.ReadU8()
		if err != nil {
			return fmt.Errorf("block: skipping extension: %w", ErrTruncated)
		}
		if err := c.Skip(int(size)); err != nil {
			return fmt.Errorf("block: skipping extension: %w", ErrTruncated)
		}
	}
	r := subblock.New(c)
	if err := r.SkipChain(); err != nil {
		return fmt.Errorf("block: skipping extension sub-block chain: %w", ErrTruncated)
	}
	return nil
}

func (p *Parser) readImage(c *cursor.Cursor) error {
	x, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}
	y, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}
	w, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}
	h, err := c.ReadU16LE()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}
	packed, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}

	interlace := packed&0x40 != 0
	palette := p.globalPalette
	paletteCount := p.globalPaletteCount
	if packed&0x80 != 0 {
		size := 2 << (packed & 0x07)
		pal, n, err := readColorTable(c, p.alloc, size)
		if err != nil {
			return err
		}
		palette = pal
		paletteCount = n
	}

	minCodeSize, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("block: reading image descriptor: %w", ErrTruncated)
	}

	if p.dict == nil {
		p.dict = p.alloc.Acquire(lzw.TableBytes)
		if p.dict == nil {
			return fmt.Errorf("block: acquiring LZW dictionary: %w", ErrAlloc)
		}
	}

	npix := int(w) * int(h)
	pix := p.alloc.Acquire(npix)
	if pix == nil {
		return fmt.Errorf("block: acquiring pixel buffer: %w", ErrAlloc)
	}
	r := subblock.New(c)
	n, truncated, lzwErr := lzw.Decode(p.dict, r, int(minCodeSize), pix)
	if lzwErr != nil {
		p.alloc.Release(pix)
		return fmt.Errorf("block: decoding image data: %w", ErrLZWCorrupt)
	}
	if truncated && n < npix {
		// Frame granularity is the recovery unit: a frame whose pixel data
		// ran out before filling frame_w*frame_h is not emitted at all, so
		// the previously confirmed frame stays the last one the caller
		// ever sees.
		p.alloc.Release(pix)
		return fmt.Errorf("block: decoding image data: %w", ErrTruncated)
	}
	// Decode stops at END without reading further, which can leave data
	// bytes and the chain's zero terminator unread.
	if err := r.SkipChain(); err != nil {
		p.alloc.Release(pix)
		return fmt.Errorf("block: skipping image data sub-block chain: %w", ErrTruncated)
	}

	info := FrameInfo{
		ScreenWidth:      p.screenWidth,
		ScreenHeight:     p.screenHeight,
		BackgroundIndex:  p.backgroundIndex,
		Palette:          palette,
		PaletteCount:     paletteCount,
		TransparentIndex: p.pendingTransparent,
		Delay:            p.pendingDelay,
		Disposal:         p.pendingDisposal,
		FrameX:           int(x),
		FrameY:           int(y),
		FrameWidth:       int(w),
		FrameHeight:      int(h),
		Interlace:        interlace,
		Index:            p.index,
		Pix:              pix[:n],
	}

	// A GCE applies to exactly the one image descriptor that follows it.
	p.pendingDelay = 0
	p.pendingDisposal = DisposalNone
	p.pendingTransparent = -1

	if p.index >= p.skip {
		p.sink.OnFrame(info)
	}
	p.alloc.Release(pix)
	p.index++

	return nil
}
