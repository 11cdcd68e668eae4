// Package document holds the parsed form of a compiled document: a tree of
// typed nodes, the bytecode parser that builds it and the metrics pass that
// sizes it.
package document

import "reflect"

// Kind tags a Node.
type Kind uint8

const (
	Text Kind = iota + 1
	Fraction
	Superscript
	Subscript
	NewLine
	ParagraphBreak
)

var kindNames = [...]string{
	Text:           "Text",
	Fraction:       "Fraction",
	Superscript:    "Superscript",
	Subscript:      "Subscript",
	NewLine:        "NewLine",
	ParagraphBreak: "ParagraphBreak",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is one element of a document. Which fields are used depends on Kind:
// Text carries glyph bytes, Fraction carries Num and Den, and the scripts
// carry Child.
type Node struct {
	Kind Kind

	Text     []byte
	Num, Den Seq
	Child    Seq

	// W and H are set by the metrics pass.
	W, H int
}

// Seq is an ordered run of sibling nodes.
type Seq []*Node

// Width is the summed width of the sequence.
func (s Seq) Width() int {
	w := 0
	for _, n := range s {
		w += n.W
	}
	return w
}

// Height is the tallest node in the sequence.
func (s Seq) Height() int {
	h := 0
	for _, n := range s {
		if n.H > h {
			h = n.H
		}
	}
	return h
}

// Document is a parsed document and its measurement state.
type Document struct {
	Root Seq

	measured bool
	metrics  Metrics
}

// Measure sizes every node. It is a no-op when the document was already
// measured with equal metrics. Glyph oracles are compared with
// reflect.DeepEqual, so one changed in place needs Invalidate.
func (d *Document) Measure(m Metrics) {
	if d.measured && d.metrics.equal(m) {
		return
	}
	m.Measure(d.Root)
	d.metrics = m
	d.measured = true
}

func (m Metrics) equal(o Metrics) bool {
	return m.LineHeight == o.LineHeight &&
		m.SubDescent == o.SubDescent &&
		m.FracGap == o.FracGap &&
		m.FracBar == o.FracBar &&
		m.FracPad == o.FracPad &&
		reflect.DeepEqual(m.Glyphs, o.Glyphs)
}

// Measured reports whether node sizes are current.
func (d *Document) Measured() bool {
	return d.measured
}

// Invalidate forces the next Measure to recompute every node.
func (d *Document) Invalidate() {
	d.measured = false
}

// Empty reports whether the document has no content.
func (d *Document) Empty() bool {
	return len(d.Root) == 0
}
