package document

import (
	"fmt"
	"io"
	"strings"

	"texview/pkg/glyph"
)

// Dump writes an indented listing of seq with the measured size of every
// node.
func Dump(w io.Writer, seq Seq) {
	dump(w, seq, 0)
}

func dump(w io.Writer, seq Seq, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range seq {
		switch n.Kind {
		case Text:
			fmt.Fprintf(w, "%s%s %q [%dx%d]\n", indent, n.Kind, glyph.Decode(n.Text), n.W, n.H)
		case Fraction:
			fmt.Fprintf(w, "%s%s [%dx%d]\n", indent, n.Kind, n.W, n.H)
			fmt.Fprintf(w, "%s  num:\n", indent)
			dump(w, n.Num, depth+2)
			fmt.Fprintf(w, "%s  den:\n", indent)
			dump(w, n.Den, depth+2)
		case Superscript, Subscript:
			fmt.Fprintf(w, "%s%s [%dx%d]\n", indent, n.Kind, n.W, n.H)
			dump(w, n.Child, depth+1)
		default:
			fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
		}
	}
}
