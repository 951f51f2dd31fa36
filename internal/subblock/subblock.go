// Package subblock presents a GIF sub-block chain — {L byte, L data bytes}
// repeated, terminated by a zero-length block — as a flat logical byte
// stream. It is used both for image data (which feeds the LZW decoder)
// and for extension payloads (comment, plain text, application).
package subblock

import (
	"errors"

	"gifcore/internal/cursor"
)

// ErrTruncated is returned when the underlying cursor runs out of bytes
// before the chain's closing zero-length block is reached.
var ErrTruncated = errors.New("subblock: truncated chain")

// Reader walks a sub-block chain lazily, one data byte at a time.
type Reader struct {
	c      *cursor.Cursor
	left   int  // data bytes remaining in the current sub-block
	closed bool // true once the zero-length terminator has been consumed
}

// New returns a Reader that will start reading sub-blocks from c's current
// position. c is shared, not copied: advancing the Reader advances c.
func New(c *cursor.Cursor) *Reader {
	return &Reader{c: c}
}

// NextByte returns the next data byte in the chain. ok is false once the
// chain has closed (the zero-length terminator was read); err is non-nil
// only if the cursor ran out of bytes mid-block.
func (r *Reader) NextByte() (b byte, ok bool, err error) {
	if r.closed {
		return 0, false, nil
	}
	for r.left == 0 {
		l, err := r.c.ReadU8()
		if err != nil {
			return 0, false, ErrTruncated
		}
		if l == 0 {
			r.closed = true
			return 0, false, nil
		}
		r.left = int(l)
	}
	b, err = r.c.ReadU8()
	if err != nil {
		return 0, false, ErrTruncated
	}
	r.left--
	return b, true, nil
}

// SkipChain consumes the remainder of the chain (including the terminator)
// without returning its bytes, used for skipped extensions and for image
// data the LZW decoder left unread.
func (r *Reader) SkipChain() error {
	for {
		_, ok, err := r.NextByte()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Raw reads the whole chain back out verbatim, including every length
// prefix and the zero terminator, for callers (the application-extension
// metadata path) that need the chain's wire bytes rather than its logical
// content.
func Raw(c *cursor.Cursor) ([]byte, error) {
	start := c.Pos()
	for {
		l, err := c.ReadU8()
		if err != nil {
			return nil, ErrTruncated
		}
		if l == 0 {
			break
		}
		if err := c.Skip(int(l)); err != nil {
			return nil, ErrTruncated
		}
	}
	return c.Span(start, c.Pos()), nil
}
