package gifcore

import (
	"errors"

	"gifcore/frame"
	"gifcore/internal/block"
)

// countingSink counts frames delivered to the caller's Sink, so Decode can
// report that count as its return value without the caller having to
// track it itself.
type countingSink struct {
	inner frame.Sink
	n     int
}

func (c *countingSink) OnFrame(i frame.Info) {
	c.n++
	c.inner.OnFrame(i)
}

func (c *countingSink) OnMetadata(m frame.Meta) {
	c.inner.OnMetadata(m)
}

// Decode walks data as a GIF87a/GIF89a byte stream, delivering decoded
// frames and application metadata to sink. It returns the number of
// frames delivered to sink.OnFrame (beyond Options.Skip).
//
// A non-nil error means the decode stopped before the trailer; frames
// already delivered are not retracted, and the last one delivered has its
// Info.TotalFrames negated, matching the error this function also returns
// as a *DecodeError.
func Decode(data []byte, sink frame.Sink, opts Options) (int, error) {
	counted := &countingSink{inner: sink}
	dispatcher := frame.NewDispatcher(counted)

	err := block.Parse(data, dispatcher, block.Options{
		Skip:      opts.Skip,
		Allocator: opts.Allocator,
	})
	dispatcher.Finish(err == nil)

	if err == nil {
		return counted.n, nil
	}
	return counted.n, &DecodeError{Kind: translateBlockErr(err), FramesOK: counted.n}
}

func translateBlockErr(err error) error {
	switch {
	case errors.Is(err, block.ErrBadMagic):
		return ErrBadMagic
	case errors.Is(err, block.ErrLZWCorrupt):
		return ErrLZWCorrupt
	case errors.Is(err, block.ErrAlloc):
		return ErrAllocFailure
	default:
		return ErrTruncated
	}
}
