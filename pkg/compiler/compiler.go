package compiler

import "texview/pkg/bytecode"

// Stats counts what a compilation produced.
type Stats struct {
	Text         int // OpText records
	Fractions    int
	Superscripts int
	Subscripts   int
	NewLines     int
	Paragraphs   int
	Unknown      int // commands reproduced literally
	Malformed    int // \frac without two groups, or a nested unit cut to fit
	Replaced     int // code points replaced by the placeholder glyph
}

func (s *Stats) add(o Stats) {
	s.Text += o.Text
	s.Fractions += o.Fractions
	s.Superscripts += o.Superscripts
	s.Subscripts += o.Subscripts
	s.NewLines += o.NewLines
	s.Paragraphs += o.Paragraphs
	s.Unknown += o.Unknown
	s.Malformed += o.Malformed
	s.Replaced += o.Replaced
}

// compiler holds the state of one compilation.
type compiler struct {
	sc    *scanner
	stats Stats
}

// unit compiles up to the end of the current scope as an independent,
// END-terminated stream.
func (c *compiler) unit(depth int) []byte {
	e := newEmitter(&c.stats)
	c.block(e, depth)
	return e.finish()
}

// block compiles into e until the scope closes. Depth 0 is the whole input;
// deeper scopes end at their closing brace, or at end of input when the
// brace is missing.
func (c *compiler) block(e *emitter, depth int) {
	for !c.sc.atEnd() {
		r := c.sc.peek()
		switch {
		case r == '}':
			c.sc.advance()
			if depth > 0 {
				return
			}
			// stray closing brace at top level: dropped
		case r == '{':
			c.sc.advance()
			c.block(e, depth+1)
		case r == '\\':
			c.command(e, depth)
		case r == '^':
			c.script(e, bytecode.OpSuperscript, depth)
		case r == '_':
			c.script(e, bytecode.OpSubscript, depth)
		case isLineEnd(r):
			c.lineBreaks(e, depth)
		default:
			e.char(c.sc.advance())
		}
	}
}

// lineBreaks maps a run of source line terminators: one is a NewLine, two or
// more a ParagraphBreak. Inside braces they are plain spaces.
func (c *compiler) lineBreaks(e *emitter, depth int) {
	n := c.sc.lineBreaks()
	switch {
	case depth > 0:
		e.char(' ')
	case e.absorb:
		e.absorb = false
		if n > 1 && e.last != bytecode.OpParagraphBreak {
			e.op(bytecode.OpParagraphBreak)
		}
	case n == 1:
		e.op(bytecode.OpNewLine)
	default:
		e.op(bytecode.OpParagraphBreak)
	}
}

// argument compiles a braced argument as an independent unit. ok is false,
// and nothing is consumed, when no group follows.
func (c *compiler) argument(depth int) (code []byte, ok bool) {
	save := c.sc.pos
	c.sc.skipBlanks()
	if !c.sc.match('{') {
		c.sc.pos = save
		return nil, false
	}
	return c.unit(depth + 1), true
}

// inline compiles a braced argument straight into e.
func (c *compiler) inline(e *emitter, depth int) bool {
	save := c.sc.pos
	c.sc.skipBlanks()
	if !c.sc.match('{') {
		c.sc.pos = save
		return false
	}
	c.block(e, depth+1)
	return true
}

func (c *compiler) command(e *emitter, depth int) {
	c.sc.advance() // backslash
	if c.sc.atEnd() {
		e.char('\\')
		return
	}
	if !isLetter(c.sc.peek()) {
		c.symbol(e)
		return
	}

	name := c.sc.word()
	star := c.sc.match('*')

	switch {
	case name == "frac" || name == "dfrac" || name == "tfrac" || name == "cfrac":
		c.fraction(e, name, depth)
	case name == "sqrt":
		c.sqrt(e, depth)
	case transparent[name]:
		c.inline(e, depth)
	case headings[name]:
		c.heading(e, depth)
	case breaks[name]:
		e.paragraph()
	case name == "item":
		e.newLine()
		c.sc.skipBlanks()
		e.str("- ")
	case name == "begin" || name == "end":
		c.sc.skipBlanks()
		if c.sc.match('{') {
			c.sc.raw()
		}
	case name == "newline" || name == "linebreak":
		c.sc.skipBlanks()
		e.lineEnd()
	default:
		if text, ok := aliases[name]; ok {
			e.str(text)
			return
		}
		c.stats.Unknown++
		lit := `\` + name
		if star {
			lit += "*"
		}
		e.literal(lit)
	}
}

// symbol handles a backslash followed by a non-letter.
func (c *compiler) symbol(e *emitter) {
	r := c.sc.peek()
	if isLineEnd(r) {
		c.sc.lineBreak()
		e.char(' ')
		return
	}
	c.sc.advance()
	switch r {
	case '\\':
		c.sc.skipBlanks()
		e.lineEnd()
	case ',', ';', ':', ' ', '>':
		e.char(' ')
	case '!', '/':
	case '{', '}', '%', '$', '&', '#', '_':
		e.char(r)
	default:
		e.char('\\')
		e.char(r)
	}
}

// fraction compiles \frac{A}{B}. Without two groups the command is
// reproduced literally and the source after it compiles as usual.
func (c *compiler) fraction(e *emitter, name string, depth int) {
	if !c.fractionArgs() {
		c.stats.Malformed++
		e.literal(`\` + name)
		return
	}
	num, _ := c.argument(depth)
	den, _ := c.argument(depth)
	e.fraction(num, den)
}

// fractionArgs looks ahead for a closed group followed by the opening of a
// second one. The denominator may run to the end of input.
func (c *compiler) fractionArgs() bool {
	save := c.sc.pos
	defer func() { c.sc.pos = save }()

	c.sc.skipBlanks()
	end := c.sc.groupEnd()
	if end < 0 {
		return false
	}
	c.sc.pos = end
	c.sc.skipBlanks()
	return c.sc.peek() == '{'
}

// script compiles ^ and _ with a braced group, a single command or a single
// code point as the child.
func (c *compiler) script(e *emitter, op bytecode.Opcode, depth int) {
	c.sc.advance()
	c.sc.skipBlanks()

	var child []byte
	switch r := c.sc.peek(); {
	case c.sc.atEnd() || isLineEnd(r) || r == '}':
		child = newEmitter(&c.stats).finish()
	case r == '{':
		child, _ = c.argument(depth)
	case r == '\\':
		sub := newEmitter(&c.stats)
		c.command(sub, depth+1)
		child = sub.finish()
	default:
		sub := newEmitter(&c.stats)
		sub.char(c.sc.advance())
		child = sub.finish()
	}
	e.script(op, child)
}

// sqrt renders \sqrt[n]{X} as a superscript index followed by "√(X)".
func (c *compiler) sqrt(e *emitter, depth int) {
	save := c.sc.pos
	c.sc.skipBlanks()
	if c.sc.match('[') {
		e.script(bytecode.OpSuperscript, c.bracketed())
	} else {
		c.sc.pos = save
	}

	e.char('√')
	save = c.sc.pos
	c.sc.skipBlanks()
	if c.sc.peek() != '{' {
		c.sc.pos = save
		return
	}
	e.char('(')
	c.inline(e, depth)
	e.char(')')
}

// bracketed compiles an optional [..] argument as an independent unit. The
// opening bracket must already have been consumed.
func (c *compiler) bracketed() []byte {
	start := c.sc.pos
	for !c.sc.atEnd() && c.sc.peek() != ']' && !isLineEnd(c.sc.peek()) {
		c.sc.advance()
	}
	inner := &compiler{sc: &scanner{src: c.sc.src[start:c.sc.pos]}}
	c.sc.match(']')
	code := inner.unit(1)
	c.stats.add(inner.stats)
	return code
}

// heading sets its argument on a paragraph of its own.
func (c *compiler) heading(e *emitter, depth int) {
	if !e.atLineStart() {
		e.op(bytecode.OpParagraphBreak)
	}
	c.inline(e, depth)
	e.paragraph()
}
