// Package controls provides a small set of controls that satisfy the layout
// contract: text labels, buttons, inputs, lists, containers and a
// self-painting scroll panel.
package controls

import (
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
)

// base carries the layout node and properties shared by every control.
type base struct {
	node  *layout.Node
	props layout.Props
}

// Attach implements layout.Attachable.
func (b *base) Attach(n *layout.Node) { b.node = n }

// Node returns the layout node the control is attached to, or nil.
func (b *base) Node() *layout.Node { return b.node }

// LayoutProps implements layout.PropsProvider.
func (b *base) LayoutProps() layout.Props { return b.props }

// SetProps changes the layout properties.
func (b *base) SetProps(p layout.Props) {
	b.props = p
	if b.node != nil {
		b.node.SetProps(p)
	}
}

func (b *base) invalidateMeasure() {
	if b.node != nil {
		b.node.InvalidateMeasure()
	}
}

func (b *base) invalidatePaint() {
	if b.node != nil {
		b.node.InvalidatePaint()
	}
}

// TextSource yields decorated characters. Default colors inherit from the
// painting context.
type TextSource interface {
	Glyphs() []cellbuf.Glyph
}

// Text is an undecorated TextSource.
type Text string

// Glyphs implements TextSource.
func (t Text) Glyphs() []cellbuf.Glyph {
	out := make([]cellbuf.Glyph, 0, len(t))
	for _, r := range string(t) {
		out = append(out, cellbuf.Glyph{Rune: r, Fg: core.ColorDefault, Bg: core.ColorDefault})
	}
	return out
}

// Colored is a TextSource drawn in a single foreground color.
type Colored struct {
	Text string
	Fg   core.Color
}

// Glyphs implements TextSource.
func (c Colored) Glyphs() []cellbuf.Glyph {
	out := Text(c.Text).Glyphs()
	for i := range out {
		out[i].Fg = c.Fg
	}
	return out
}

func glyphWidth(gs []cellbuf.Glyph) int {
	w := 0
	for _, g := range gs {
		w += core.RuneWidth(g.Rune)
	}
	return w
}

// wrap breaks gs into lines no wider than width, preferring to break after
// spaces. Newlines always break.
func wrap(gs []cellbuf.Glyph, width int) [][]cellbuf.Glyph {
	if width <= 0 {
		return nil
	}
	var lines [][]cellbuf.Glyph
	var line []cellbuf.Glyph
	lineW, lastSpace := 0, -1
	flush := func() {
		lines = append(lines, line)
		line, lineW, lastSpace = nil, 0, -1
	}
	for _, g := range gs {
		if g.Rune == '\n' {
			flush()
			continue
		}
		w := core.RuneWidth(g.Rune)
		if lineW+w > width && len(line) > 0 {
			if lastSpace >= 0 {
				rest := append([]cellbuf.Glyph(nil), line[lastSpace+1:]...)
				line = line[:lastSpace]
				flush()
				line, lineW = rest, glyphWidth(rest)
			} else {
				flush()
			}
			if g.Rune == ' ' && len(line) == 0 {
				continue
			}
		}
		if g.Rune == ' ' {
			lastSpace = len(line)
		}
		line = append(line, g)
		lineW += w
	}
	if len(line) > 0 || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}

// lines splits gs at newlines without wrapping.
func lines(gs []cellbuf.Glyph) [][]cellbuf.Glyph {
	return wrap(gs, core.Unbounded)
}
