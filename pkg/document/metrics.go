package document

import "texview/pkg/glyph"

// Widther measures glyph codes.
type Widther interface {
	Advance(code byte) int
}

// Metrics holds the glyph oracle and the fixed sizes of the metrics pass.
type Metrics struct {
	Glyphs     Widther
	LineHeight int // one text line
	SubDescent int // extra room a subscript reserves below the line
	FracGap    int // space between the bar and each part of a fraction
	FracBar    int // bar thickness
	FracPad    int // horizontal padding added to the wider part
}

// DefaultMetrics returns the metrics used with face.
func DefaultMetrics(face *glyph.Face) Metrics {
	return Metrics{
		Glyphs:     face,
		LineHeight: face.Height(),
		SubDescent: 6,
		FracGap:    2,
		FracBar:    2,
		FracPad:    4,
	}
}

// Measure sets W and H on every node of seq, recursively. Sizes depend only
// on the node and its children, so measuring twice gives the same result.
func (m Metrics) Measure(seq Seq) {
	for _, n := range seq {
		m.measure(n)
	}
}

func (m Metrics) measure(n *Node) {
	switch n.Kind {
	case Text:
		n.W = m.TextWidth(n.Text)
		n.H = m.LineHeight
	case Superscript:
		m.Measure(n.Child)
		n.W = n.Child.Width()
		n.H = m.LineHeight
	case Subscript:
		m.Measure(n.Child)
		n.W = n.Child.Width()
		n.H = m.LineHeight + m.SubDescent
	case Fraction:
		m.Measure(n.Num)
		m.Measure(n.Den)
		n.W = max(n.Num.Width(), n.Den.Width()) + m.FracPad
		n.H = n.Num.Height() + m.FracGap + m.FracBar + m.FracGap + n.Den.Height()
	default:
		n.W = 0
		n.H = m.LineHeight
	}
}

// TextWidth sums the glyph advances of text.
func (m Metrics) TextWidth(text []byte) int {
	w := 0
	for _, c := range text {
		w += m.Glyphs.Advance(c)
	}
	return w
}
