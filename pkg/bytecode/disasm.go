package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a stream. Nested payloads
// are listed indented under the opcode that carries them, with offsets
// relative to the payload.
func Disassemble(stream []byte) string {
	var sb strings.Builder
	disassemble(&sb, NewReader(stream), 0)
	return sb.String()
}

func disassemble(sb *strings.Builder, r *Reader, depth int) {
	indent := strings.Repeat("    ", depth)
	for !r.Done() {
		off := r.Offset()
		tag, _ := r.ReadByte()
		op := Opcode(tag)

		switch op {
		case OpText:
			n, _ := r.ReadU16()
			text := r.Next(int(n))
			sb.WriteString(fmt.Sprintf("%s%04X  %-5s %5d %q\n", indent, off, op, n, text))
		case OpFraction:
			sb.WriteString(fmt.Sprintf("%s%04X  %s\n", indent, off, op))
			for _, part := range []string{"num", "den"} {
				n, _ := r.ReadU16()
				sb.WriteString(fmt.Sprintf("%s      ; %s %d bytes\n", indent, part, n))
				disassemble(sb, r.Sub(int(n)), depth+1)
			}
		case OpSuperscript, OpSubscript:
			n, _ := r.ReadU16()
			sb.WriteString(fmt.Sprintf("%s%04X  %-5s %5d\n", indent, off, op, n))
			disassemble(sb, r.Sub(int(n)), depth+1)
		case OpNewLine, OpParagraphBreak, OpEnd:
			sb.WriteString(fmt.Sprintf("%s%04X  %s\n", indent, off, op))
		default:
			sb.WriteString(fmt.Sprintf("%s%04X  .byte 0x%02X\n", indent, off, tag))
		}
	}
}
