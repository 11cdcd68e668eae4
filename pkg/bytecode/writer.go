package bytecode

import "encoding/binary"

// Writer appends opcodes to a growing stream.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Op writes a payload-free opcode.
func (w *Writer) Op(op Opcode) {
	w.buf = append(w.buf, byte(op))
}

// Text writes text as one or more OpText records, splitting runs longer than
// MaxPayload. Empty text writes nothing. It returns the number of records.
func (w *Writer) Text(text []byte) int {
	n := 0
	for len(text) > 0 {
		chunk := text
		if len(chunk) > MaxPayload {
			chunk = chunk[:MaxPayload]
		}
		w.Op(OpText)
		w.payload(chunk)
		text = text[len(chunk):]
		n++
	}
	return n
}

// Fraction writes an OpFraction carrying two compiled sub-streams. It
// returns false when a sub-stream had to be cut to fit.
func (w *Writer) Fraction(num, den []byte) bool {
	w.Op(OpFraction)
	numOK := w.unit(num)
	denOK := w.unit(den)
	return numOK && denOK
}

// Script writes an OpSuperscript or OpSubscript carrying one sub-stream. It
// returns false when the sub-stream had to be cut to fit.
func (w *Writer) Script(op Opcode, child []byte) bool {
	w.Op(op)
	return w.unit(child)
}

// End terminates the stream.
func (w *Writer) End() {
	w.Op(OpEnd)
}

// Len is the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the stream. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// unit writes a length-prefixed sub-stream, cut to fit if needed.
func (w *Writer) unit(stream []byte) bool {
	stream, ok := fit(stream)
	w.payload(stream)
	return ok
}

// fit returns stream unchanged when it fits in one payload. Otherwise it
// keeps the records that fit, shortening a Text record that straddles the
// limit, and terminates the result with OpEnd.
func fit(stream []byte) ([]byte, bool) {
	if len(stream) <= MaxPayload {
		return stream, true
	}
	limit := MaxPayload - 1 // room for OpEnd
	out := make([]byte, 0, MaxPayload)
	for off := 0; off < len(stream); {
		n := recordLen(stream[off:])
		if n == 0 {
			break
		}
		if len(out)+n > limit {
			if room := limit - len(out) - 3; Opcode(stream[off]) == OpText && room > 0 {
				out = append(out, byte(OpText))
				out = binary.LittleEndian.AppendUint16(out, uint16(room))
				out = append(out, stream[off+3:off+3+room]...)
			}
			break
		}
		out = append(out, stream[off:off+n]...)
		off += n
	}
	return append(out, byte(OpEnd)), false
}

// recordLen is the size of the record at the start of b, or 0 when it is
// unknown, truncated or the end of the stream.
func recordLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 0
	switch Opcode(b[0]) {
	case OpText, OpSuperscript, OpSubscript:
		if len(b) < 3 {
			return 0
		}
		n = 3 + int(binary.LittleEndian.Uint16(b[1:]))
	case OpFraction:
		if len(b) < 3 {
			return 0
		}
		num := int(binary.LittleEndian.Uint16(b[1:]))
		if len(b) < 5+num {
			return 0
		}
		n = 5 + num + int(binary.LittleEndian.Uint16(b[3+num:]))
	case OpNewLine, OpParagraphBreak:
		n = 1
	}
	if n > len(b) {
		return 0
	}
	return n
}

// payload writes a length prefix followed by data. Data beyond MaxPayload is
// dropped so the prefix always matches what follows it.
func (w *Writer) payload(data []byte) {
	if len(data) > MaxPayload {
		data = data[:MaxPayload]
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(data)))
	w.buf = append(w.buf, data...)
}
