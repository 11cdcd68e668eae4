package bytecode

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestWriterEncoding(t *testing.T) {
	w := NewWriter()
	w.Text([]byte("Hi"))
	w.Op(OpNewLine)
	w.Script(OpSuperscript, []byte{0x01, 0x01, 0x00, '2', 0xFF})
	w.Fraction([]byte{0xFF}, []byte{0x05, 0xFF})
	w.Op(OpParagraphBreak)
	w.End()

	want := []byte{
		0x01, 0x02, 0x00, 'H', 'i',
		0x05,
		0x03, 0x05, 0x00, 0x01, 0x01, 0x00, '2', 0xFF,
		0x02, 0x01, 0x00, 0xFF, 0x02, 0x00, 0x05, 0xFF,
		0x06,
		0xFF,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("stream mismatch\n got: % X\nwant: % X", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}
}

func TestWriterTextSplitsLongRuns(t *testing.T) {
	w := NewWriter()
	if n := w.Text(nil); n != 0 || w.Len() != 0 {
		t.Fatalf("empty text wrote %d records, %d bytes", n, w.Len())
	}

	long := bytes.Repeat([]byte{'a'}, MaxPayload+10)
	if n := w.Text(long); n != 2 {
		t.Fatalf("Text(%d bytes) wrote %d records, want 2", len(long), n)
	}

	r := NewReader(w.Bytes())
	var total int
	for !r.Done() {
		tag, _ := r.ReadByte()
		if Opcode(tag) != OpText {
			t.Fatalf("unexpected tag 0x%02X", tag)
		}
		n, ok := r.ReadU16()
		if !ok {
			t.Fatal("missing length prefix")
		}
		total += len(r.Next(int(n)))
	}
	if total != len(long) {
		t.Errorf("read back %d bytes, want %d", total, len(long))
	}
}

// unitOf builds an END-terminated sub-stream.
func unitOf(build func(w *Writer)) []byte {
	w := NewWriter()
	build(w)
	w.End()
	return w.Bytes()
}

// walk reads one unit record by record and reports whether it ends with
// OpEnd exactly at its last byte.
func walk(unit []byte) bool {
	off := 0
	for off < len(unit) {
		if Opcode(unit[off]) == OpEnd {
			return off == len(unit)-1
		}
		n := recordLen(unit[off:])
		if n == 0 {
			return false
		}
		off += n
	}
	return false
}

func TestWriterCutsOversizedUnits(t *testing.T) {
	tests := []struct {
		name     string
		child    []byte
		wantText int // bytes of text kept in the last record
	}{
		{
			name:     "One Long Run",
			child:    unitOf(func(w *Writer) { w.Text(bytes.Repeat([]byte("x"), 70000)) }),
			wantText: MaxPayload - 4,
		},
		{
			name: "Run After Breaks",
			child: unitOf(func(w *Writer) {
				w.Op(OpNewLine)
				w.Op(OpNewLine)
				w.Text(bytes.Repeat([]byte("y"), 70000))
			}),
			wantText: MaxPayload - 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			if w.Script(OpSuperscript, tt.child) {
				t.Error("Script reported a complete unit")
			}
			out := w.Bytes()
			r := NewReader(out)
			r.ReadByte()
			sub := r.SubPayload()
			unit := sub.Next(sub.Remaining())
			if len(unit) != MaxPayload || !r.Done() {
				t.Fatalf("unit length = %d, want %d", len(unit), MaxPayload)
			}
			if !walk(unit) {
				t.Fatalf("cut unit is not a well-formed stream:\n%s", Disassemble(unit))
			}
			// last record before END is the shortened text
			last := unit[len(unit)-1-3-tt.wantText:]
			if Opcode(last[0]) != OpText || recordLen(last) != 3+tt.wantText {
				t.Errorf("last record = % X...", last[:3])
			}
		})
	}

	// units that fit are written unchanged
	w := NewWriter()
	small := unitOf(func(w *Writer) { w.Text([]byte("ok")) })
	if !w.Fraction(small, small) {
		t.Error("Fraction reported a cut for small units")
	}
}

func TestReaderClamps(t *testing.T) {
	r := NewReader([]byte{0x01, 0x10, 0x00, 'a', 'b'})

	if b, err := r.ReadByte(); err != nil || b != 0x01 {
		t.Fatalf("ReadByte = 0x%02X, %v", b, err)
	}
	n, ok := r.ReadU16()
	if !ok || n != 16 {
		t.Fatalf("ReadU16 = %d, %v", n, ok)
	}
	got := r.Next(int(n))
	if string(got) != "ab" {
		t.Errorf("Next(16) = %q, want clamped %q", got, "ab")
	}
	if !r.Done() {
		t.Error("reader should be exhausted")
	}
	if _, err := r.ReadByte(); err != io.EOF {
		t.Errorf("ReadByte at end = %v, want io.EOF", err)
	}
}

func TestReaderShortPrefix(t *testing.T) {
	r := NewReader([]byte{0x07})
	if n, ok := r.ReadU16(); ok || n != 0 {
		t.Errorf("ReadU16 on 1 byte = %d, %v", n, ok)
	}
	if !r.Done() {
		t.Error("short prefix should consume the remaining byte")
	}
}

func TestSubReaderIsBounded(t *testing.T) {
	r := NewReader([]byte{0x03, 0x00, 'x', 'y', 'z', 'Q'})
	sub := r.SubPayload()
	if sub.Remaining() != 3 {
		t.Fatalf("sub.Remaining() = %d, want 3", sub.Remaining())
	}
	if got := sub.Next(100); string(got) != "xyz" {
		t.Errorf("sub.Next(100) = %q", got)
	}
	if b, _ := r.ReadByte(); b != 'Q' {
		t.Errorf("parent resumed at %q, want 'Q'", b)
	}
}

func TestOpcodeString(t *testing.T) {
	if OpFraction.String() != "FRAC" {
		t.Errorf("OpFraction.String() = %q", OpFraction.String())
	}
	if got := Opcode(0x42).String(); got != "Opcode(0x42)" {
		t.Errorf("unknown opcode String() = %q", got)
	}
	if Opcode(0x42).Known() || !OpEnd.Known() {
		t.Error("Known() misreports")
	}
}

func TestDisassemble(t *testing.T) {
	w := NewWriter()
	w.Text([]byte("x"))
	num := NewWriter()
	num.Text([]byte("A"))
	num.End()
	den := NewWriter()
	den.Text([]byte("B"))
	den.End()
	w.Fraction(num.Bytes(), den.Bytes())
	w.Op(0x42)
	w.End()

	out := Disassemble(w.Bytes())
	for _, want := range []string{
		"0000  TEXT      1 \"x\"",
		"0004  FRAC",
		"; num 5 bytes",
		"    0000  TEXT      1 \"A\"",
		"    0004  END",
		"; den 5 bytes",
		".byte 0x42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
