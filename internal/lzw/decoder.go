// Package lzw implements the variable-width-code LZW decompressor used by
// GIF image data: literal codes, a CLEAR code, an END code, and a 4096-slot
// dictionary of (prefix, suffix) pairs built up as the stream is read.
//
// This is deliberately not the same algorithm as Go's compress/lzw GIF
// mode, because the contract here needs to tolerate truncation mid-stream
// (returning whatever pixels were decoded rather than an error) and needs
// an explicit, inspectable dictionary shape that the caller allocates
// through the decoder's allocator hook rather than the package growing
// its own heap memory — see decoder_test.go's round-trip tests, which
// encode with a small test-only encoder rather than relying on any
// external implementation.
package lzw

import (
	"encoding/binary"
	"errors"

	"gifcore/internal/subblock"
)

// ErrCorrupt is returned when a code is neither CLEAR, END, a literal, nor
// a previously assigned dictionary entry (and not the KwKwK special case).
var ErrCorrupt = errors.New("lzw: invalid code")

const (
	maxCodeWidth = 12
	TableSize    = 1 << maxCodeWidth // 4096 dictionary slots
	entrySize    = 3                 // 2-byte prefix (LE, -1 sentinel) + 1-byte suffix
	// TableBytes is the size the caller must Acquire for the dict buffer
	// passed to Decode.
	TableBytes = TableSize * entrySize
)

const noPrefix = -1

func dictGet(dict []byte, i int) (prefix int, suffix byte) {
	off := i * entrySize
	prefix = int(int16(binary.LittleEndian.Uint16(dict[off:])))
	suffix = dict[off+2]
	return prefix, suffix
}

func dictSet(dict []byte, i, prefix int, suffix byte) {
	off := i * entrySize
	binary.LittleEndian.PutUint16(dict[off:], uint16(int16(prefix)))
	dict[off+2] = suffix
}

// decoderState holds the mutable dictionary shared by Decode's main loop
// and its post-fill drain phase. dict must be at least TableBytes long.
type decoderState struct {
	dict        []byte
	scratch     [TableSize]byte // bounded string-reversal workspace, not allocator-managed: ephemeral and fixed-size regardless of input
	minCodeSize int
	clearCode   int
	endCode     int
	firstFree   int
	width       uint
	next        int
	prev        int // -1 means "the next code starts a fresh string"
}

func newDecoderState(dict []byte, minCodeSize int) *decoderState {
	s := &decoderState{
		dict:        dict,
		minCodeSize: minCodeSize,
		clearCode:   1 << minCodeSize,
	}
	s.endCode = s.clearCode + 1
	s.firstFree = s.clearCode + 2
	s.reset()
	return s
}

func (s *decoderState) reset() {
	for i := 0; i < s.clearCode; i++ {
		dictSet(s.dict, i, noPrefix, byte(i))
	}
	s.width = uint(s.minCodeSize + 1)
	s.next = s.firstFree
	s.prev = -1
}

// stringOf walks the prefix chain for code and returns its decoded bytes,
// oldest byte first. The slice aliases s.scratch and is only valid until
// the next call.
func (s *decoderState) stringOf(code int) ([]byte, bool) {
	i := len(s.scratch)
	for c := code; c >= 0; {
		i--
		if i < 0 {
			return nil, false
		}
		prefix, suffix := dictGet(s.dict, c)
		s.scratch[i] = suffix
		c = prefix
	}
	return s.scratch[i:], true
}

// append records a new dictionary entry for prev's string extended by the
// given first byte, growing the code width when the table demands it.
func (s *decoderState) append(first byte) {
	if s.next < TableSize {
		dictSet(s.dict, s.next, s.prev, first)
		s.next++
	}
	if s.next >= (1<<s.width) && s.width < maxCodeWidth {
		s.width++
	}
}

// Decode reads variable-width LZW codes (minCodeSize+1 bits at first, up
// to 12) from the sub-block chain r and
// writes decoded palette indices into out, stopping when out is full, when
// the END code is seen, or when the chain runs out of bytes. dict is the
// caller-owned dictionary working buffer (see TableBytes).
//
// It returns the number of bytes written to out and whether the stream
// was exhausted (chain closed or failed) before the END code arrived —
// truncated is the signal callers use to set the decode session's overall
// truncation flag per the frame-granularity recovery contract.
func Decode(dict []byte, r *subblock.Reader, minCodeSize int, out []byte) (n int, truncated bool, err error) {
	if minCodeSize < 1 || minCodeSize > 8 {
		return 0, false, ErrCorrupt
	}
	if len(dict) < TableBytes {
		return 0, false, ErrCorrupt
	}

	s := newDecoderState(dict, minCodeSize)
	br := newBitReader(r)

	for {
		code, ok := br.readCode(s.width)
		if !ok {
			return n, true, nil
		}

		switch {
		case code == s.clearCode:
			s.reset()
			continue

		case code == s.endCode:
			return n, false, nil

		case s.prev == -1:
			if code >= s.clearCode {
				return n, false, ErrCorrupt
			}
			n = writeByte(out, n, byte(code))
			s.prev = code

		case code < s.next:
			str, okStr := s.stringOf(code)
			if !okStr {
				return n, false, ErrCorrupt
			}
			n = writeBytes(out, n, str)
			s.append(str[0])
			s.prev = code

		case code == s.next:
			str, okStr := s.stringOf(s.prev)
			if !okStr {
				return n, false, ErrCorrupt
			}
			n = writeBytes(out, n, str)
			n = writeByte(out, n, str[0])
			s.append(str[0])
			s.prev = code

		default:
			return n, false, ErrCorrupt
		}

		if n >= len(out) {
			return drainUntilStop(br, s, n)
		}
	}
}

// writeByte appends b to out[n] if room remains and returns the new count.
func writeByte(out []byte, n int, b byte) int {
	if n < len(out) {
		out[n] = b
		return n + 1
	}
	return n
}

// writeBytes appends as much of str as fits in out starting at n.
func writeBytes(out []byte, n int, str []byte) int {
	room := len(out) - n
	if room <= 0 {
		return n
	}
	if room > len(str) {
		room = len(str)
	}
	copy(out[n:n+room], str[:room])
	return n + room
}

// drainUntilStop keeps reading codes, discarding their decoded content,
// until CLEAR (which simply restarts the dictionary and keeps draining),
// END, or end-of-chain — per spec, excess codes after the output buffer
// fills are tolerated, not an error.
func drainUntilStop(br *bitReader, s *decoderState, n int) (int, bool, error) {
	afterClear := false
	for {
		code, ok := br.readCode(s.width)
		if !ok {
			return n, true, nil
		}
		switch code {
		case s.endCode:
			return n, false, nil
		case s.clearCode:
			s.reset()
			afterClear = true
		default:
			if afterClear {
				afterClear = false
				break
			}
			// Dictionary growth no longer changes output, but the code
			// width must still track table occupancy so the bit reader
			// stays aligned with the encoder's framing.
			if s.next < TableSize {
				s.next++
			}
			if s.next >= (1<<s.width) && s.width < maxCodeWidth {
				s.width++
			}
		}
	}
}
