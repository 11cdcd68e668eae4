package document

import (
	"texview/pkg/bytecode"
)

// Parse builds the node sequence for stream. A positive limit bounds how many
// bytes are read; zero reads until OpEnd or the end of the stream. Corrupt
// input never fails: lengths are clamped to the bytes available and unknown
// tags are skipped.
func Parse(stream []byte, limit int) Seq {
	if limit > 0 && limit < len(stream) {
		stream = stream[:limit]
	}
	return parse(bytecode.NewReader(stream))
}

// Load parses a whole stream into a Document. The stream is not retained.
func Load(stream []byte) *Document {
	return &Document{Root: Parse(stream, 0)}
}

func parse(r *bytecode.Reader) Seq {
	var seq Seq
	for {
		tag, err := r.ReadByte()
		if err != nil {
			return seq
		}

		switch bytecode.Opcode(tag) {
		case bytecode.OpEnd:
			return seq
		case bytecode.OpText:
			n, _ := r.ReadU16()
			raw := r.Next(int(n))
			text := make([]byte, len(raw))
			copy(text, raw)
			seq = append(seq, &Node{Kind: Text, Text: text})
		case bytecode.OpFraction:
			num := parse(r.SubPayload())
			den := parse(r.SubPayload())
			seq = append(seq, &Node{Kind: Fraction, Num: num, Den: den})
		case bytecode.OpSuperscript:
			seq = append(seq, &Node{Kind: Superscript, Child: parse(r.SubPayload())})
		case bytecode.OpSubscript:
			seq = append(seq, &Node{Kind: Subscript, Child: parse(r.SubPayload())})
		case bytecode.OpNewLine:
			seq = append(seq, &Node{Kind: NewLine})
		case bytecode.OpParagraphBreak:
			seq = append(seq, &Node{Kind: ParagraphBreak})
		default:
			// unknown tag: dropped, parsing resumes at the next byte
		}
	}
}
