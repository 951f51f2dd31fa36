package gifcore

import "gifcore/internal/block"

// Config is the lightweight result of DecodeConfig: the logical screen
// dimensions and global color table size, without decoding any frame.
type Config struct {
	Width, Height   int
	BackgroundIndex int
	HasGCT          bool
	GCTCount        int
}

// DecodeConfig reads just the header and logical screen descriptor from
// data, letting a caller size a canvas before it starts streaming frames
// through Decode. It does not allocate a pixel buffer and does not touch
// the allocator hook.
func DecodeConfig(data []byte) (Config, error) {
	info, err := block.ProbeScreen(data)
	if err != nil {
		return Config{}, translateBlockErr(err)
	}
	return Config{
		Width:           info.Width,
		Height:          info.Height,
		BackgroundIndex: info.BackgroundIndex,
		HasGCT:          info.HasGCT,
		GCTCount:        info.GCTCount,
	}, nil
}
