// Package glyph defines the renderer's 8-bit glyph alphabet.
//
// Codes 0x20-0x7E are printable ASCII. Codes from 0x80 upward name a fixed
// table of extended glyphs (Greek letters, accented Latin letters and the
// radical sign), each with a declared cell size that the metrics pass uses
// exactly like the font's own advances.
package glyph

import "unicode"

// Placeholder is written for every code point the alphabet cannot represent.
const Placeholder byte = '?'

// FirstExtended is the first code of the extended table.
const FirstExtended byte = 0x80

// Extended glyph codes. The order is part of the compiled document format.
const (
	Alpha byte = FirstExtended + iota
	Beta
	Gamma
	Delta
	Theta
	Lambda
	Mu
	Pi
	Rho
	Sigma
	SigmaFinal
	Phi
	Omega

	SmallAAcute
	SmallAGrave
	SmallATilde
	SmallACirc
	CapitalAAcute
	CapitalAGrave
	CapitalATilde
	CapitalACirc
	SmallEAcute
	SmallECirc
	CapitalEAcute
	CapitalECirc
	SmallIAcute
	CapitalIAcute
	SmallOAcute
	SmallOCirc
	SmallOTilde
	CapitalOAcute
	CapitalOCirc
	CapitalOTilde
	SmallUAcute
	CapitalUAcute
	SmallCCedilla
	CapitalCCedilla

	Radical
)

// Glyph describes one entry of the extended table.
type Glyph struct {
	Code    byte
	Rune    rune   // source code point
	Name    string // markup command name without the backslash, if any
	Advance int    // horizontal advance in pixels
	Height  int    // inked height in pixels

	// Rows holds a custom bitmap, one byte per row, most significant of the
	// Width low bits first. Entries without rows are drawn from the font.
	Rows  []byte
	Width int
}

func greek(code byte, r rune, name string, rows ...byte) Glyph {
	return Glyph{Code: code, Rune: r, Name: name, Advance: 7, Height: len(rows), Rows: rows, Width: 6}
}

func latin(code byte, r rune) Glyph {
	return Glyph{Code: code, Rune: r, Advance: 7, Height: 13}
}

var table = []Glyph{
	greek(Alpha, 'α', "alpha", 0x1C, 0x02, 0x1E, 0x22, 0x22, 0x22, 0x3E),
	greek(Beta, 'β', "beta", 0x3C, 0x22, 0x3C, 0x22, 0x22, 0x22, 0x3C),
	greek(Gamma, 'γ', "gamma", 0x3E, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20),
	greek(Delta, 'δ', "delta", 0x0C, 0x12, 0x21, 0x21, 0x21, 0x12, 0x0C),
	greek(Theta, 'θ', "theta", 0x1E, 0x21, 0x21, 0x1E, 0x21, 0x21, 0x1E),
	greek(Lambda, 'λ', "lambda", 0x08, 0x10, 0x10, 0x28, 0x24, 0x24, 0x3E),
	greek(Mu, 'μ', "mu", 0x21, 0x33, 0x33, 0x2D, 0x2D, 0x21, 0x21),
	greek(Pi, 'π', "pi", 0x3F, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24),
	greek(Rho, 'ρ', "rho", 0x3C, 0x22, 0x22, 0x3C, 0x20, 0x20, 0x20),
	greek(Sigma, 'σ', "sigma", 0x3F, 0x01, 0x02, 0x04, 0x08, 0x10, 0x3F),
	greek(SigmaFinal, 'ς', "varsigma", 0x1E, 0x20, 0x20, 0x1C, 0x02, 0x02, 0x3C),
	greek(Phi, 'φ', "phi", 0x1E, 0x2D, 0x2D, 0x3F, 0x2D, 0x2D, 0x1E),
	greek(Omega, 'ω', "omega", 0x1E, 0x21, 0x21, 0x21, 0x21, 0x12, 0x33),

	latin(SmallAAcute, 'á'),
	latin(SmallAGrave, 'à'),
	latin(SmallATilde, 'ã'),
	latin(SmallACirc, 'â'),
	latin(CapitalAAcute, 'Á'),
	latin(CapitalAGrave, 'À'),
	latin(CapitalATilde, 'Ã'),
	latin(CapitalACirc, 'Â'),
	latin(SmallEAcute, 'é'),
	latin(SmallECirc, 'ê'),
	latin(CapitalEAcute, 'É'),
	latin(CapitalECirc, 'Ê'),
	latin(SmallIAcute, 'í'),
	latin(CapitalIAcute, 'Í'),
	latin(SmallOAcute, 'ó'),
	latin(SmallOCirc, 'ô'),
	latin(SmallOTilde, 'õ'),
	latin(CapitalOAcute, 'Ó'),
	latin(CapitalOCirc, 'Ô'),
	latin(CapitalOTilde, 'Õ'),
	latin(SmallUAcute, 'ú'),
	latin(CapitalUAcute, 'Ú'),
	latin(SmallCCedilla, 'ç'),
	latin(CapitalCCedilla, 'Ç'),

	{Code: Radical, Rune: '√', Name: "surd", Advance: 8, Height: 9, Width: 7,
		Rows: []byte{0x07, 0x04, 0x04, 0x04, 0x44, 0x24, 0x14, 0x0C, 0x04}},
}

// transliterations maps code points outside the table to ASCII spellings.
var transliterations = map[rune]string{
	'–': "-",
	'—': "-",
	'−': "-",
	'‘': "'",
	'’': "'",
	'“': "\"",
	'”': "\"",
	'…': "...",
	'×': "x",
	'·': "*",
	'≤': "<=",
	'≥': ">=",
	'≠': "!=",
	'≈': "~=",
	'→': "->",
	'←': "<-",
	'⇒': "=>",
	'±': "+-",
	'∞': "oo",

	'\u00a0': " ",
}

var (
	byCode [256]*Glyph
	byRune = make(map[rune]byte, len(table))
	byName = make(map[string]byte, len(table))
)

func init() {
	for i := range table {
		g := &table[i]
		byCode[g.Code] = g
		byRune[g.Rune] = g.Code
		if g.Name != "" {
			byName[g.Name] = g.Code
		}
	}
	byRune['ϕ'] = Phi
}

// Lookup returns the extended table entry for code, or nil for ASCII and
// unassigned codes.
func Lookup(code byte) *Glyph {
	return byCode[code]
}

// ByName returns the code of the extended glyph registered under a markup
// command name such as "alpha".
func ByName(name string) (byte, bool) {
	code, ok := byName[name]
	return code, ok
}

// Extended returns a copy of the extended table in code order.
func Extended() []Glyph {
	out := make([]Glyph, len(table))
	copy(out, table)
	return out
}

// Append appends the glyph bytes for r to dst. Tabs and control characters
// become a single space. ok is false when r had no mapping and Placeholder
// was written instead.
func Append(dst []byte, r rune) (out []byte, ok bool) {
	switch {
	case r == '\t' || unicode.IsControl(r):
		return append(dst, ' '), true
	case r >= 0x20 && r < 0x7F:
		return append(dst, byte(r)), true
	}
	if code, found := byRune[r]; found {
		return append(dst, code), true
	}
	if s, found := transliterations[r]; found {
		return append(dst, s...), true
	}
	return append(dst, Placeholder), false
}

// Encode maps a whole UTF-8 string into the glyph alphabet.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out, _ = Append(out, r)
	}
	return out
}

// Rune returns the code point a glyph code stands for. Unassigned codes
// decode to the placeholder.
func Rune(code byte) rune {
	if code >= 0x20 && code < 0x7F {
		return rune(code)
	}
	if g := byCode[code]; g != nil {
		return g.Rune
	}
	return rune(Placeholder)
}

// Decode converts glyph-mapped bytes back to UTF-8 text.
func Decode(text []byte) string {
	out := make([]rune, len(text))
	for i, c := range text {
		out[i] = Rune(c)
	}
	return string(out)
}
