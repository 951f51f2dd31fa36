package subblock

import (
	"testing"

	"gifcore/internal/cursor"
)

func chain(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, byte(len(p)))
		b = append(b, p...)
	}
	return append(b, 0)
}

func TestNextByte_SingleBlock(t *testing.T) {
	data := chain([]byte{1, 2, 3})
	r := New(cursor.New(data))

	var got []byte
	for {
		b, ok, err := r.NextByte()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestNextByte_MultipleBlocks(t *testing.T) {
	data := chain([]byte{1, 2}, []byte{3, 4, 5})
	r := New(cursor.New(data))

	var got []byte
	for {
		b, ok, err := r.NextByte()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, b)
	}
	want := []byte{1, 2, 3, 4, 5}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextByte_TruncatedMidBlock(t *testing.T) {
	// Length byte says 5, but only 2 data bytes follow and no terminator.
	data := []byte{5, 0x01, 0x02}
	r := New(cursor.New(data))

	r.NextByte()
	r.NextByte()
	_, _, err := r.NextByte()
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestSkipChain(t *testing.T) {
	data := chain([]byte{1, 2, 3}, []byte{4})
	c := cursor.New(append(data, 0xFF))
	r := New(c)
	if err := r.SkipChain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.ReadU8()
	if err != nil || b != 0xFF {
		t.Fatalf("SkipChain left cursor at wrong position: %v %v", b, err)
	}
}

func TestRaw_IncludesLengthPrefixesAndTerminator(t *testing.T) {
	data := chain([]byte("NETSCAPE2.0")[:3])
	c := cursor.New(data)
	raw, err := Raw(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != len(data) {
		t.Fatalf("Raw len = %d, want %d", len(raw), len(data))
	}
	if raw[0] != 3 || raw[len(raw)-1] != 0 {
		t.Fatalf("Raw = %v, want length-prefixed chain with terminator", raw)
	}
}
