package controls

import (
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
)

// Label displays read-only text.
type Label struct {
	base
	text TextSource
	// Wrap breaks long lines at the available width.
	Wrap bool
	// Fg and Bg override the inherited colors when not default.
	Fg, Bg core.Color
}

// NewLabel creates a label showing plain text.
func NewLabel(text string) *Label {
	return NewRichLabel(Text(text))
}

// NewRichLabel creates a label showing decorated text.
func NewRichLabel(src TextSource) *Label {
	return &Label{text: src, Fg: core.ColorDefault, Bg: core.ColorDefault}
}

// SetText replaces the text with plain text.
func (l *Label) SetText(text string) {
	l.SetSource(Text(text))
}

// SetSource replaces the text source.
func (l *Label) SetSource(src TextSource) {
	l.text = src
	l.invalidateMeasure()
}

// Measure implements layout.Measurer.
func (l *Label) Measure(c core.Constraints) core.Size {
	var ls = lines(l.text.Glyphs())
	if l.Wrap {
		ls = wrap(l.text.Glyphs(), c.MaxWidth)
	}
	s := core.Size{Height: len(ls)}
	for _, line := range ls {
		s.Width = max(s.Width, glyphWidth(line))
	}
	return s
}

// Paint implements layout.Painter.
func (l *Label) Paint(ctx *layout.PaintContext) {
	style := ctx.Style()
	if !l.Fg.IsDefault() {
		style.Foreground = l.Fg
	}
	if !l.Bg.IsDefault() {
		style.Background = l.Bg
	}
	b := ctx.Bounds
	ctx.Canvas.FillRect(b, ' ', style.Foreground, style.Background)

	ls := lines(l.text.Glyphs())
	if l.Wrap {
		ls = wrap(l.text.Glyphs(), b.Width())
	}
	for i, line := range ls {
		if i >= b.Height() {
			break
		}
		ctx.Canvas.Narrow(b).SetGlyphs(b.Left, b.Top+i, line, style)
	}
}

// Spacer occupies space without drawing.
type Spacer struct {
	base
}

// NewSpacer creates a spacer with a fixed size. Zero dimensions collapse.
func NewSpacer(width, height int) *Spacer {
	s := &Spacer{}
	s.props = layout.Props{Width: width, Height: height}
	return s
}

// NewFill creates a spacer that absorbs leftover height in a stack.
func NewFill() *Spacer {
	s := &Spacer{}
	s.props = layout.Props{VAlign: layout.AlignFill}
	return s
}

// Measure implements layout.Measurer.
func (s *Spacer) Measure(c core.Constraints) core.Size {
	return core.Size{Width: s.props.Width, Height: s.props.Height}
}

// Paint implements layout.Painter.
func (s *Spacer) Paint(*layout.PaintContext) {}
