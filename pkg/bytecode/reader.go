package bytecode

import (
	"encoding/binary"
	"io"
)

// Reader is a bounded cursor over a stream. Every read is clamped to the
// bytes the reader owns, so a corrupt length can never reach past the end of
// the enclosing payload.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Done reports whether the reader is exhausted.
func (r *Reader) Done() bool {
	return r.pos >= len(r.buf)
}

// Offset is the position of the next unread byte.
func (r *Reader) Offset() int {
	return r.pos
}

// ReadByte returns the next byte, or io.EOF when exhausted.
func (r *Reader) ReadByte() (byte, error) {
	if r.Done() {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a little-endian length prefix. With fewer than two bytes
// left it consumes them and reports false.
func (r *Reader) ReadU16() (uint16, bool) {
	if r.Remaining() < 2 {
		r.pos = len(r.buf)
		return 0, false
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, true
}

// Next returns the next n bytes, clamped to what is left, and advances past
// them. The slice aliases the underlying stream.
func (r *Reader) Next(n int) []byte {
	if n > r.Remaining() {
		n = r.Remaining()
	}
	if n < 0 {
		n = 0
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b
}

// Sub returns a reader over the next n bytes (clamped) and advances past them.
func (r *Reader) Sub(n int) *Reader {
	return NewReader(r.Next(n))
}

// SubPayload reads a length prefix and returns a reader over its payload.
func (r *Reader) SubPayload() *Reader {
	n, _ := r.ReadU16()
	return r.Sub(int(n))
}
