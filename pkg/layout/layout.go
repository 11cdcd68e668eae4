// Package layout positions a measured document on the page and issues the
// draw calls for the rows that fall inside the viewport.
package layout

import (
	"math"

	"texview/pkg/document"
)

// Canvas receives the draw calls of a layout pass. Coordinates are the
// top-left corner of the glyph cell or rule.
type Canvas interface {
	DrawText(text []byte, x, y int)
	DrawRule(x, y, w, t int)
}

// Engine holds the page geometry. Rows whose top is above Top are laid out
// but not drawn; the first row whose top reaches Bottom ends the pass.
type Engine struct {
	document.Metrics

	Left, Right int // horizontal margins; text wraps before Right
	Top, Bottom int // viewport rows

	Leading  int // space between rows
	SupRaise int // superscript lift outside fractions
	SupDown  int // superscript drop inside fractions
	SubShift int // subscript drop
}

// Default page geometry for the 320x240 screen.
const (
	DefaultLeft     = 8
	DefaultRight    = 312
	DefaultTop      = 24
	DefaultBottom   = 236
	DefaultLeading  = 3
	DefaultSupRaise = 4
	DefaultSupDown  = 1
	DefaultSubShift = 6
)

// NewEngine returns an engine with the default geometry.
func NewEngine(m document.Metrics) *Engine {
	return &Engine{
		Metrics:  m,
		Left:     DefaultLeft,
		Right:    DefaultRight,
		Top:      DefaultTop,
		Bottom:   DefaultBottom,
		Leading:  DefaultLeading,
		SupRaise: DefaultSupRaise,
		SupDown:  DefaultSupDown,
		SubShift: DefaultSubShift,
	}
}

// Viewport is the visible height.
func (e *Engine) Viewport() int {
	return e.Bottom - e.Top
}

// drawContext is threaded through nested drawing.
type drawContext struct {
	fracDepth int
}

// cursor is the running state of one pass.
type cursor struct {
	e *Engine
	c Canvas

	x, y    int
	lineH   int
	rowUsed bool
	stopped bool
}

// Draw lays seq out with the first row at y0 and draws the visible rows
// onto c. It returns the top of the row after the last one laid out.
func (e *Engine) Draw(c Canvas, seq document.Seq, y0 int) int {
	if c == nil {
		c = nopCanvas{}
	}
	cur := &cursor{e: e, c: c, x: e.Left, y: y0, lineH: e.LineHeight}
	if y0 >= e.Bottom {
		return y0
	}

	for _, n := range seq {
		if cur.stopped {
			return cur.y
		}
		switch n.Kind {
		case document.NewLine:
			cur.newRow()
		case document.ParagraphBreak:
			cur.newRow()
			cur.y += e.LineHeight
			cur.checkBottom()
		case document.Text:
			cur.text(n.Text)
		default:
			if cur.x > e.Left && cur.x+n.W > e.Right {
				cur.newRow()
				if cur.stopped {
					return cur.y
				}
			}
			cur.place(n.H)
			if cur.visible() {
				e.drawNode(c, n, cur.x, cur.y, drawContext{})
			}
			cur.x += n.W
		}
	}

	if cur.rowUsed && !cur.stopped {
		return cur.y + cur.lineH + e.Leading
	}
	return cur.y
}

// ContentHeight is the height of seq laid out from y = 0 without clipping.
func (e *Engine) ContentHeight(seq document.Seq) int {
	dry := *e
	dry.Top, dry.Bottom = math.MinInt, math.MaxInt
	return dry.Draw(nil, seq, 0)
}

// MaxScroll is the largest useful scroll offset for seq.
func (e *Engine) MaxScroll(seq document.Seq) int {
	return max(0, e.ContentHeight(seq)-e.Viewport())
}

// ClampScroll limits offset to [0, maxScroll].
func ClampScroll(offset, maxScroll int) int {
	return min(max(offset, 0), max(maxScroll, 0))
}

// newRow moves to the start of the next row.
func (cur *cursor) newRow() {
	cur.x = cur.e.Left
	cur.y += cur.lineH + cur.e.Leading
	cur.lineH = cur.e.LineHeight
	cur.rowUsed = false
	cur.checkBottom()
}

func (cur *cursor) checkBottom() {
	if cur.y >= cur.e.Bottom {
		cur.stopped = true
	}
}

// place records a node of height h on the current row.
func (cur *cursor) place(h int) {
	cur.lineH = max(cur.lineH, h)
	cur.rowUsed = true
}

func (cur *cursor) visible() bool {
	return cur.y >= cur.e.Top
}

// text lays out a run, wrapping at the last space that fits. A word wider
// than a whole row is broken after as many glyphs as fit, at least one.
func (cur *cursor) text(s []byte) {
	e := cur.e
	for len(s) > 0 && !cur.stopped {
		budget := e.Right - cur.x
		acc, i, lastSpace := 0, 0, -1
		for ; i < len(s); i++ {
			a := e.Glyphs.Advance(s[i])
			if acc+a > budget {
				break
			}
			if s[i] == ' ' {
				lastSpace = i
			}
			acc += a
		}

		if i == len(s) {
			cur.emit(s)
			cur.x += acc
			return
		}
		if s[i] == ' ' {
			lastSpace = i
		}

		switch {
		case lastSpace > 0:
			cur.emit(s[:lastSpace])
			s = s[lastSpace+1:]
		case cur.x > e.Left:
			// the word starts on the next row
			if lastSpace == 0 {
				s = s[1:]
			}
		case lastSpace == 0:
			s = s[1:]
			continue
		default:
			cut := max(i, 1)
			cur.emit(s[:cut])
			s = s[cut:]
		}
		cur.newRow()
	}
}

func (cur *cursor) emit(frag []byte) {
	cur.place(cur.e.LineHeight)
	if cur.visible() {
		cur.c.DrawText(frag, cur.x, cur.y)
	}
}

// drawNode draws a measured node with its box at (x, y). Nested sequences
// never wrap.
func (e *Engine) drawNode(c Canvas, n *document.Node, x, y int, ctx drawContext) {
	switch n.Kind {
	case document.Text:
		c.DrawText(n.Text, x, y)
	case document.Superscript:
		if ctx.fracDepth > 0 {
			e.drawSeq(c, n.Child, x, y+e.SupDown, ctx)
		} else {
			e.drawSeq(c, n.Child, x, y-e.SupRaise, ctx)
		}
	case document.Subscript:
		e.drawSeq(c, n.Child, x, y+e.SubShift, ctx)
	case document.Fraction:
		e.drawFraction(c, n, x, y, ctx)
	}
}

func (e *Engine) drawSeq(c Canvas, seq document.Seq, x, y int, ctx drawContext) {
	for _, n := range seq {
		e.drawNode(c, n, x, y, ctx)
		x += n.W
	}
}

// drawFraction centres both parts over the node width with the bar between
// them.
func (e *Engine) drawFraction(c Canvas, n *document.Node, x, y int, ctx drawContext) {
	ctx.fracDepth++

	e.drawSeq(c, n.Num, x+(n.W-n.Num.Width())/2, y, ctx)

	barY := y + n.Num.Height() + e.FracGap
	c.DrawRule(x, barY, n.W, e.FracBar)

	denY := barY + e.FracBar + e.FracGap
	e.drawSeq(c, n.Den, x+(n.W-n.Den.Width())/2, denY, ctx)
}

type nopCanvas struct{}

func (nopCanvas) DrawText([]byte, int, int) {}
func (nopCanvas) DrawRule(int, int, int, int) {}
