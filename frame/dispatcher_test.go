package frame

import (
	"bytes"
	"testing"

	"gifcore/internal/block"
)

type recordingSink struct {
	NopMetadata
	frames []Info
	meta   []Meta
}

func (r *recordingSink) OnFrame(i Info) {
	r.frames = append(r.frames, i)
}

func (r *recordingSink) OnMetadata(m Meta) {
	r.meta = append(r.meta, m)
}

func TestDispatcher_SingleFrameThenTrailer(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.OnFrame(block.FrameInfo{Index: 0, FrameWidth: 1, FrameHeight: 1})
	d.Finish(true)

	if len(sink.frames) != 1 {
		t.Fatalf("got %d callbacks, want 1", len(sink.frames))
	}
	if sink.frames[0].TotalFrames != 1 {
		t.Fatalf("TotalFrames = %d, want 1", sink.frames[0].TotalFrames)
	}
}

func TestDispatcher_TwoFramesThenTrailer(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.OnFrame(block.FrameInfo{Index: 0})
	d.OnFrame(block.FrameInfo{Index: 1})
	d.Finish(true)

	if len(sink.frames) != 2 {
		t.Fatalf("got %d callbacks, want 2", len(sink.frames))
	}
	if sink.frames[0].TotalFrames != 1 {
		t.Fatalf("frame 0 TotalFrames = %d, want 1", sink.frames[0].TotalFrames)
	}
	if sink.frames[1].TotalFrames != 2 {
		t.Fatalf("frame 1 TotalFrames = %d, want 2", sink.frames[1].TotalFrames)
	}
}

// TestDispatcher_SurvivesBackingBufferReuse simulates what the block
// parser's allocator-release-then-reacquire cycle does with a pooled
// allocator: the same backing array comes back for the next frame and
// gets overwritten before the previous frame's buffered Info is ever
// flushed. OnFrame must copy Pix (and Palette) rather than alias them,
// or frame 0's reported pixels would turn into frame 1's.
func TestDispatcher_SurvivesBackingBufferReuse(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	shared := make([]byte, 4)
	copy(shared, []byte{1, 1, 1, 1})
	d.OnFrame(block.FrameInfo{Index: 0, Pix: shared})

	// the "allocator" hands the exact same backing array back for the
	// next frame and the parser overwrites it in place
	copy(shared, []byte{2, 2, 2, 2})
	d.OnFrame(block.FrameInfo{Index: 1, Pix: shared})
	d.Finish(true)

	if len(sink.frames) != 2 {
		t.Fatalf("got %d callbacks, want 2", len(sink.frames))
	}
	if !bytes.Equal(sink.frames[0].Pix, []byte{1, 1, 1, 1}) {
		t.Fatalf("frame 0 pix = %v, want [1 1 1 1] (must not alias the reused buffer)", sink.frames[0].Pix)
	}
	if !bytes.Equal(sink.frames[1].Pix, []byte{2, 2, 2, 2}) {
		t.Fatalf("frame 1 pix = %v, want [2 2 2 2]", sink.frames[1].Pix)
	}
}

func TestDispatcher_FrameThenFailure(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.OnFrame(block.FrameInfo{Index: 0})
	// second frame never arrives: the parse fails before another image
	// descriptor is reached
	d.Finish(false)

	if len(sink.frames) != 1 {
		t.Fatalf("got %d callbacks, want 1", len(sink.frames))
	}
	if sink.frames[0].TotalFrames != -1 {
		t.Fatalf("TotalFrames = %d, want -1", sink.frames[0].TotalFrames)
	}
}

func TestDispatcher_FailureWithNoFramesAtAll(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.Finish(false)

	if len(sink.frames) != 0 {
		t.Fatalf("got %d callbacks, want 0", len(sink.frames))
	}
}

func TestDispatcher_OnlyLastPendingFrameIsNegated(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.OnFrame(block.FrameInfo{Index: 0})
	d.OnFrame(block.FrameInfo{Index: 1})
	d.OnFrame(block.FrameInfo{Index: 2})
	d.Finish(false)

	if len(sink.frames) != 3 {
		t.Fatalf("got %d callbacks, want 3", len(sink.frames))
	}
	if sink.frames[0].TotalFrames != 1 || sink.frames[1].TotalFrames != 2 {
		t.Fatalf("earlier frames should stay positive, got %d, %d", sink.frames[0].TotalFrames, sink.frames[1].TotalFrames)
	}
	if sink.frames[2].TotalFrames != -3 {
		t.Fatalf("last frame TotalFrames = %d, want -3", sink.frames[2].TotalFrames)
	}
}

func TestDispatcher_MetadataPassesThroughImmediately(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.OnMetadata(block.MetaInfo{Header: []byte("NETSCAPE2.0"), Chain: []byte{3, 0x01, 0x05, 0x00, 0}})
	d.OnFrame(block.FrameInfo{Index: 0})

	if len(sink.meta) != 1 {
		t.Fatalf("got %d metadata callbacks, want 1", len(sink.meta))
	}
	if len(sink.frames) != 0 {
		t.Fatalf("metadata should not force a frame flush, got %d frame callbacks", len(sink.frames))
	}
	if sink.meta[0].NetscapeLoopCount != 5 {
		t.Fatalf("loop count = %d, want 5", sink.meta[0].NetscapeLoopCount)
	}
}

func TestNetscapeLoopCount(t *testing.T) {
	cases := []struct {
		name   string
		header string
		chain  []byte
		want   int
	}{
		{"valid", "NETSCAPE2.0", []byte{3, 0x01, 0x00, 0x00}, 0},
		{"valid nonzero", "NETSCAPE2.0", []byte{3, 0x01, 0x0A, 0x00}, 10},
		{"wrong header", "XMP DataXMP ", []byte{3, 0x01, 0x00, 0x00}, -1},
		{"wrong sub-block label", "NETSCAPE2.0", []byte{3, 0x02, 0x00, 0x00}, -1},
		{"too short", "NETSCAPE2.0", []byte{3, 0x01}, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := netscapeLoopCount([]byte(c.header), c.chain)
			if got != c.want {
				t.Fatalf("netscapeLoopCount(%q, %v) = %d, want %d", c.header, c.chain, got, c.want)
			}
		})
	}
}
