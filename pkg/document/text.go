package document

import (
	"strings"

	"texview/pkg/glyph"
)

// PlainText renders seq as UTF-8 text. Fractions are written as (a)/(b),
// scripts as ^x or ^(xy), and breaks as newlines.
func PlainText(seq Seq) string {
	var sb strings.Builder
	writeText(&sb, seq)
	return sb.String()
}

func writeText(sb *strings.Builder, seq Seq) {
	for _, n := range seq {
		switch n.Kind {
		case Text:
			sb.WriteString(glyph.Decode(n.Text))
		case Fraction:
			sb.WriteString("(")
			writeText(sb, n.Num)
			sb.WriteString(")/(")
			writeText(sb, n.Den)
			sb.WriteString(")")
		case Superscript:
			writeScript(sb, "^", n.Child)
		case Subscript:
			writeScript(sb, "_", n.Child)
		case NewLine:
			sb.WriteString("\n")
		case ParagraphBreak:
			sb.WriteString("\n\n")
		}
	}
}

func writeScript(sb *strings.Builder, mark string, child Seq) {
	inner := PlainText(child)
	sb.WriteString(mark)
	if len([]rune(inner)) == 1 {
		sb.WriteString(inner)
		return
	}
	sb.WriteString("(" + inner + ")")
}
