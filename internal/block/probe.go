package block

import (
	"fmt"

	"gifcore/internal/cursor"
)

// ScreenInfo is the header and logical screen descriptor summary ProbeScreen
// extracts without decoding any frame. It needs no allocator: the global
// color table's bytes are skipped, not materialized, since only its size
// is interesting to a caller sizing a canvas before it starts streaming
// frames.
type ScreenInfo struct {
	Width, Height   int
	BackgroundIndex int
	HasGCT          bool
	GCTCount        int
}

// ProbeScreen reads the header and logical screen descriptor from data and
// returns a summary, stopping well short of the first block. It shares no
// state with Parse and is safe to call before or independently of it.
func ProbeScreen(data []byte) (ScreenInfo, error) {
	c := cursor.New(data)

	magic, err := c.Slice(6)
	if err != nil {
		return ScreenInfo{}, fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}
	if string(magic[:3]) != "GIF" {
		return ScreenInfo{}, fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}
	version := string(magic[3:6])
	if version != "87a" && version != "89a" {
		return ScreenInfo{}, fmt.Errorf("block: reading header: %w", ErrBadMagic)
	}

	width, err := c.ReadU16LE()
	if err != nil {
		return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	height, err := c.ReadU16LE()
	if err != nil {
		return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	packed, err := c.ReadU8()
	if err != nil {
		return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	background, err := c.ReadU8()
	if err != nil {
		return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}
	if _, err := c.ReadU8(); err != nil { // aspect ratio, unused
		return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
	}

	info := ScreenInfo{
		Width:           int(width),
		Height:          int(height),
		BackgroundIndex: int(background),
	}
	if packed&0x80 != 0 {
		info.HasGCT = true
		info.GCTCount = 2 << (packed & 0x07)
		if err := c.Skip(info.GCTCount * 3); err != nil {
			return ScreenInfo{}, fmt.Errorf("block: reading logical screen descriptor: %w", ErrTruncated)
		}
	}
	return info, nil
}
