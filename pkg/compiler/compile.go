package compiler

import "strings"

const (
	beginDocument = `\begin{document}`
	endDocument   = `\end{document}`
)

// Compile translates markup into an END-terminated opcode stream. It never
// fails: malformed input degrades to literal text.
func Compile(src string) []byte {
	code, _ := CompileWithStats(src)
	return code
}

// CompileWithStats is Compile that also reports what was emitted.
func CompileWithStats(src string) ([]byte, Stats) {
	c := &compiler{sc: newScanner(documentBody(src))}
	code := c.unit(0)
	return code, c.stats
}

// documentBody returns the text between \begin{document} and
// \end{document}, trimmed. Sources without a document environment are
// returned unchanged.
func documentBody(src string) string {
	i := strings.Index(src, beginDocument)
	if i < 0 {
		return src
	}
	body := src[i+len(beginDocument):]
	if j := strings.Index(body, endDocument); j >= 0 {
		body = body[:j]
	}
	return strings.TrimSpace(body)
}
