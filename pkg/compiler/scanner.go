package compiler

// scanner holds the read position over the decoded source.
type scanner struct {
	src []rune
	pos int // index of the next rune to consume
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src)}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

// peek returns the rune at the current position without advancing.
func (s *scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// advance consumes one rune and returns it.
func (s *scanner) advance() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	r := s.src[s.pos]
	s.pos++
	return r
}

// match consumes r if it is next.
func (s *scanner) match(r rune) bool {
	if !s.atEnd() && s.peek() == r {
		s.pos++
		return true
	}
	return false
}

// skipBlanks skips spaces and tabs, never line terminators.
func (s *scanner) skipBlanks() {
	for !s.atEnd() && isBlank(s.peek()) {
		s.pos++
	}
}

// word collects a command name. The first letter must be at s.peek().
func (s *scanner) word() string {
	start := s.pos
	for !s.atEnd() && isLetter(s.peek()) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// lineBreak consumes one line terminator ("\n", "\r\n" or "\r").
func (s *scanner) lineBreak() bool {
	switch s.peek() {
	case '\n':
		s.pos++
		return true
	case '\r':
		s.pos++
		s.match('\n')
		return true
	}
	return false
}

// lineBreaks consumes a run of line terminators, including blanks between
// them, and returns how many terminators it saw. Blanks after the last
// terminator are left in place.
func (s *scanner) lineBreaks() int {
	n := 0
	for {
		save := s.pos
		s.skipBlanks()
		if !s.lineBreak() {
			s.pos = save
			return n
		}
		n++
	}
}

// raw collects everything up to the matching '}' without interpreting it.
// The opening '{' must already have been consumed.
func (s *scanner) raw() string {
	start, depth := s.pos, 1
	for !s.atEnd() {
		switch s.advance() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(s.src[start : s.pos-1])
			}
		}
	}
	return string(s.src[start:])
}

// groupEnd returns the index just past the '}' matching a '{' at the
// current position, or -1. Escaped braces are skipped. The position is
// left unchanged.
func (s *scanner) groupEnd() int {
	if s.peek() != '{' {
		return -1
	}
	depth := 0
	for i := s.pos; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isLineEnd(r rune) bool {
	return r == '\n' || r == '\r'
}
