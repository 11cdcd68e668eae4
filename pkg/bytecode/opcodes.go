// Package bytecode defines the opcode stream shared by the markup compiler
// and the renderer.
//
// A stream is a sequence of one-byte tags. Variable payloads are prefixed by
// a little-endian uint16 length, which caps any text run or nested sub-stream
// at 65535 bytes. Every compiled unit, nested ones included, ends with OpEnd.
package bytecode

import "fmt"

// Opcode is a stream tag.
type Opcode byte

const (
	OpText           Opcode = 0x01 // OpText <len:u16> <glyph bytes>
	OpFraction       Opcode = 0x02 // OpFraction <len:u16> <numerator> <len:u16> <denominator>
	OpSuperscript    Opcode = 0x03 // OpSuperscript <len:u16> <child>
	OpSubscript      Opcode = 0x04 // OpSubscript <len:u16> <child>
	OpNewLine        Opcode = 0x05 // no payload
	OpParagraphBreak Opcode = 0x06 // no payload; one extra text line of spacing
	OpEnd            Opcode = 0xFF // end of stream
)

// MaxPayload is the largest length a prefix can carry.
const MaxPayload = 0xFFFF

var opcodeNames = map[Opcode]string{
	OpText:           "TEXT",
	OpFraction:       "FRAC",
	OpSuperscript:    "SUP",
	OpSubscript:      "SUB",
	OpNewLine:        "NL",
	OpParagraphBreak: "PAR",
	OpEnd:            "END",
}

// String returns the mnemonic used in disassembly listings.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", byte(op))
}

// Known reports whether op is part of the stream format.
func (op Opcode) Known() bool {
	_, ok := opcodeNames[op]
	return ok
}
