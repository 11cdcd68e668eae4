package compiler

import "texview/pkg/glyph"

// aliases maps command names to the text substituted for them. The text is
// UTF-8 and goes through the glyph map like any other source text; an empty
// value means the command contributes no output.
var aliases = map[string]string{
	// Greek letters without a glyph of their own are spelled out.
	"epsilon": "epsilon", "varepsilon": "epsilon", "zeta": "zeta", "eta": "eta",
	"iota": "iota", "kappa": "kappa", "nu": "nu", "xi": "xi", "tau": "tau",
	"upsilon": "upsilon", "chi": "chi", "psi": "psi",
	"varphi": "φ", "vartheta": "θ", "varpi": "π", "varrho": "ρ",
	"Gamma": "Gamma", "Delta": "Delta", "Theta": "Theta", "Lambda": "Lambda",
	"Xi": "Xi", "Pi": "Pi", "Sigma": "Sigma", "Phi": "Phi", "Psi": "Psi",
	"Omega": "Omega",

	// Relations
	"leq": "<=", "le": "<=", "geq": ">=", "ge": ">=", "neq": "!=", "ne": "!=",
	"approx": "~=", "equiv": "==", "sim": "~", "propto": "~", "ll": "<<", "gg": ">>",
	"in": " in ", "subset": " subset ", "mid": "|",

	// Arrows
	"to": "->", "rightarrow": "->", "leftarrow": "<-", "gets": "<-",
	"Rightarrow": "=>", "Leftarrow": "<=", "implies": "=>",
	"leftrightarrow": "<->", "Leftrightarrow": "<=>", "iff": "<=>", "mapsto": "|->",

	// Operators and symbols
	"cdot": "*", "times": "x", "div": "/", "pm": "+-", "mp": "-+", "ast": "*",
	"infty": "oo", "partial": "d", "nabla": "grad", "sum": "sum ", "prod": "prod ",
	"int": "int ", "lim": "lim", "log": "log", "ln": "ln", "exp": "exp",
	"sin": "sin", "cos": "cos", "tan": "tan", "max": "max", "min": "min",
	"ldots": "...", "cdots": "...", "dots": "...", "prime": "'", "circ": "o",
	"degree": "o", "forall": "for all ", "exists": "exists ", "neg": "~",
	"land": "&", "lor": "|", "cup": "U", "cap": "n", "emptyset": "{}",

	// Delimiters
	"lfloor": "[", "rfloor": "]", "lceil": "<", "rceil": ">",
	"langle": "<", "rangle": ">", "lbrace": "{", "rbrace": "}", "vert": "|",
	"backslash": "\\",

	// Spacing
	"quad": "  ", "qquad": "    ", "space": " ", "enspace": " ",

	// Sizing and layout-only commands
	"left": "", "right": "", "big": "", "Big": "", "bigg": "", "Bigg": "",
	"bigl": "", "bigr": "", "Bigl": "", "Bigr": "", "displaystyle": "",
	"textstyle": "", "scriptstyle": "", "limits": "", "nolimits": "",
	"noindent": "", "centering": "", "small": "", "large": "", "Large": "",
	"normalsize": "", "footnotesize": "", "bf": "", "it": "", "rm": "",
	"hfill": "", "vfill": "", "medskip": "", "smallskip": "", "bigskip": "",
	"today": "",
}

// transparent commands take one argument whose content passes through.
var transparent = map[string]bool{
	"textbf": true, "textit": true, "emph": true, "textrm": true, "texttt": true,
	"textsf": true, "mathbf": true, "mathrm": true, "mathit": true, "mathsf": true,
	"mathcal": true, "mathbb": true, "text": true, "mbox": true, "underline": true,
	"overline": true, "operatorname": true, "boldsymbol": true, "hat": true,
	"bar": true, "vec": true, "tilde": true, "dot": true,
}

// headings set their argument on a paragraph of its own.
var headings = map[string]bool{
	"section": true, "subsection": true, "subsubsection": true, "chapter": true,
	"paragraph": true, "title": true, "author": true, "date": true,
}

// breaks end the current paragraph.
var breaks = map[string]bool{
	"maketitle": true, "clearpage": true, "newpage": true, "par": true,
	"pagebreak": true,
}

func init() {
	for _, g := range glyph.Extended() {
		if g.Name != "" {
			aliases[g.Name] = string(g.Rune)
		}
	}
}
