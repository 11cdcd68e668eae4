package main

import (
	"fmt"
	"io"
	"os"

	"texview/pkg/bytecode"
	"texview/pkg/compiler"
	"texview/pkg/document"
	"texview/pkg/glyph"
	"texview/pkg/layout"
)

const testSource = `\section*{Ratios}
The ratio is \frac{A}{B+1}.
Energy: E = mc^2, water: H_2O.

\alpha \leq \beta_{i+1}`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}
	inspect(os.Stdout, src)
}

// inspect prints every stage of the pipeline for src.
func inspect(w io.Writer, src string) {
	fmt.Fprintf(w, "Source:\n%s\n\n", src)

	code, stats := compiler.CompileWithStats(src)
	fmt.Fprintf(w, "Stream (%d bytes)\n", len(code))
	fmt.Fprint(w, bytecode.Disassemble(code))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats\n  %+v\n\n", stats)

	face := glyph.NewFace()
	doc := document.Load(code)
	doc.Measure(document.DefaultMetrics(face))
	fmt.Fprintf(w, "Tree (%d nodes)\n", len(doc.Root))
	document.Dump(w, doc.Root)
	fmt.Fprintln(w)

	e := layout.NewEngine(document.DefaultMetrics(face))
	fmt.Fprintln(w, "Layout")
	fmt.Fprintf(w, "  width=%d height=%d\n", doc.Root.Width(), doc.Root.Height())
	fmt.Fprintf(w, "  content=%d viewport=%d max_scroll=%d\n", e.ContentHeight(doc.Root), e.Viewport(), e.MaxScroll(doc.Root))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Text")
	fmt.Fprintln(w, document.PlainText(doc.Root))
}
