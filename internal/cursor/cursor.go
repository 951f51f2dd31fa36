// Package cursor provides a bounded, range-checked view over an in-memory
// GIF byte buffer. Every read either succeeds or reports ErrShortBuffer;
// nothing here ever panics on malformed or truncated input.
package cursor

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned whenever a read would run past the end of
// the underlying buffer.
var ErrShortBuffer = errors.New("cursor: short buffer")

// Cursor is a read-only, forward-only view over a byte slice. The zero
// value is not usable; construct one with New.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of buf. buf is borrowed,
// never copied or retained beyond the Cursor's own lifetime.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current byte offset, for use with Span.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// PeekU8 returns the next byte without advancing.
func (c *Cursor) PeekU8() (byte, error) {
	if c.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	return c.buf[c.pos], nil
}

// ReadU8 returns the next byte and advances past it.
func (c *Cursor) ReadU8() (byte, error) {
	b, err := c.PeekU8()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// ReadU16LE reads a little-endian uint16 and advances past it.
func (c *Cursor) ReadU16LE() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// Slice returns a bounded view of the next n bytes and advances past them.
// The returned slice aliases the underlying buffer; callers that need to
// retain it past the current Decode call must copy it.
func (c *Cursor) Slice(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, ErrShortBuffer
	}
	s := c.buf[c.pos : c.pos+n]
	c.pos += n
	return s, nil
}

// Skip advances past n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return ErrShortBuffer
	}
	c.pos += n
	return nil
}

// Span returns the bytes between two offsets previously obtained from Pos,
// without moving the cursor. Used by callers that need the raw wire bytes
// spanning several reads (e.g. a whole sub-block chain) rather than its
// logically decoded content.
func (c *Cursor) Span(from, to int) []byte {
	return c.buf[from:to]
}
