package gifcore

import "errors"

// Sentinel errors, one per failure category. UnexpectedIntroducer folds
// into ErrTruncated: a byte that is not a recognized block introducer
// leaves the stream uninterpretable, the same observable outcome as
// running out of bytes.
var (
	ErrBadMagic     = errors.New("gifcore: not a GIF file")
	ErrTruncated    = errors.New("gifcore: truncated input")
	ErrLZWCorrupt   = errors.New("gifcore: corrupt LZW stream")
	ErrAllocFailure = errors.New("gifcore: allocator returned nil")
)

// DecodeError wraps a sentinel error with the state of the decode at the
// point it stopped, so a caller that only checks err (rather than the last
// delivered Info's TotalFrames sign) can still recover how much of the
// file was usable.
type DecodeError struct {
	Kind     error
	FramesOK int
}

func (e *DecodeError) Error() string {
	return e.Kind.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}
