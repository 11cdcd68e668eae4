package compiler

import (
	"texview/pkg/bytecode"
	"texview/pkg/glyph"
)

// emitter accumulates one compiled unit. Plain text is buffered and flushed
// as a single OpText whenever any other opcode is written.
type emitter struct {
	w     *bytecode.Writer
	text  []byte
	stats *Stats

	last   bytecode.Opcode // last opcode produced, OpText for buffered text; 0 when empty
	absorb bool            // a structural break swallows the next source line break
}

func newEmitter(stats *Stats) *emitter {
	return &emitter{w: bytecode.NewWriter(), stats: stats}
}

// char appends one source code point as glyph bytes.
func (e *emitter) char(r rune) {
	var ok bool
	e.text, ok = glyph.Append(e.text, r)
	if !ok {
		e.stats.Replaced++
	}
	e.last = bytecode.OpText
	e.absorb = false
}

// str appends substituted text.
func (e *emitter) str(s string) {
	for _, r := range s {
		e.char(r)
	}
}

// literal writes s as a text unit of its own.
func (e *emitter) literal(s string) {
	e.flush()
	e.str(s)
	e.flush()
}

func (e *emitter) flush() {
	if len(e.text) == 0 {
		return
	}
	e.stats.Text += e.w.Text(e.text)
	e.text = e.text[:0]
}

// op writes a payload-free opcode.
func (e *emitter) op(op bytecode.Opcode) {
	e.flush()
	e.w.Op(op)
	switch op {
	case bytecode.OpNewLine:
		e.stats.NewLines++
	case bytecode.OpParagraphBreak:
		e.stats.Paragraphs++
	}
	e.last = op
	e.absorb = false
}

// empty reports whether nothing has been produced yet.
func (e *emitter) empty() bool {
	return e.last == 0
}

// atLineStart reports whether the unit is empty or the last opcode was a
// line or paragraph break.
func (e *emitter) atLineStart() bool {
	return e.last == 0 || e.last == bytecode.OpNewLine || e.last == bytecode.OpParagraphBreak
}

// paragraph ends the current paragraph for a structural command. A source
// line break that directly follows is absorbed into it.
func (e *emitter) paragraph() {
	if !e.empty() && e.last != bytecode.OpParagraphBreak {
		e.op(bytecode.OpParagraphBreak)
	}
	e.absorb = true
}

// lineEnd writes a forced line break. A source line break that directly
// follows ends the same line.
func (e *emitter) lineEnd() {
	e.op(bytecode.OpNewLine)
	e.absorb = true
}

// newLine starts a new line unless one was just started.
func (e *emitter) newLine() {
	if !e.atLineStart() {
		e.op(bytecode.OpNewLine)
	}
}

func (e *emitter) fraction(num, den []byte) {
	e.flush()
	if !e.w.Fraction(num, den) {
		e.stats.Malformed++
	}
	e.stats.Fractions++
	e.last = bytecode.OpFraction
	e.absorb = false
}

func (e *emitter) script(op bytecode.Opcode, child []byte) {
	e.flush()
	if !e.w.Script(op, child) {
		e.stats.Malformed++
	}
	if op == bytecode.OpSuperscript {
		e.stats.Superscripts++
	} else {
		e.stats.Subscripts++
	}
	e.last = op
	e.absorb = false
}

// finish terminates the unit and returns its stream.
func (e *emitter) finish() []byte {
	e.flush()
	e.w.End()
	return e.w.Bytes()
}
