package cellbuf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/casement/internal/renderer/core"
)

const (
	sgrReset = "\x1b[0m"
)

// Encoder serializes buffer rows into escape-coded text. Consecutive cells
// sharing a style are emitted under a single SGR sequence.
type Encoder struct {
	// TrueColor selects 24-bit sequences for RGB colors. When false, RGB
	// colors are approximated with the 256-color palette.
	TrueColor bool
}

// NewEncoder returns an encoder emitting 24-bit color.
func NewEncoder() *Encoder {
	return &Encoder{TrueColor: true}
}

// EncodeRow serializes a single row. Color state is reset at the start and
// end of the row.
func (e *Encoder) EncodeRow(row []core.Cell) string {
	var sb strings.Builder
	sb.WriteString(sgrReset)
	cur := core.DefaultStyle()
	for _, c := range row {
		if c.IsContinuation() {
			continue
		}
		if !c.Style.Equals(cur) {
			sb.WriteString(e.sgr(c.Style))
			cur = c.Style
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	sb.WriteString(sgrReset)
	return sb.String()
}

// Lines serializes every row of b.
func (e *Encoder) Lines(b *Buffer) []string {
	_, h := b.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = e.EncodeRow(b.Row(y))
	}
	return lines
}

// WriteFrame writes every row of b to w, each prefixed with a cursor
// position sequence for the given screen origin.
func (e *Encoder) WriteFrame(w io.Writer, b *Buffer, origin core.ScreenPos) error {
	for y, line := range e.Lines(b) {
		if _, err := fmt.Fprintf(w, "\x1b[%d;%dH%s", origin.Row+y+1, origin.Col+1, line); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	return nil
}

// sgr builds a full SGR sequence for s, always starting from a reset so the
// result does not depend on prior state.
func (e *Encoder) sgr(s core.Style) string {
	params := []string{"0"}
	if s.Attributes.Has(core.AttrBold) {
		params = append(params, "1")
	}
	if s.Attributes.Has(core.AttrDim) {
		params = append(params, "2")
	}
	if s.Attributes.Has(core.AttrItalic) {
		params = append(params, "3")
	}
	if s.Attributes.Has(core.AttrUnderline) {
		params = append(params, "4")
	}
	if s.Attributes.Has(core.AttrReverse) {
		params = append(params, "7")
	}
	params = append(params, e.colorParams(s.Foreground, false)...)
	params = append(params, e.colorParams(s.Background, true)...)
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func (e *Encoder) colorParams(c core.Color, bg bool) []string {
	base := 38
	if bg {
		base = 48
	}
	switch {
	case c.IsDefault():
		return []string{strconv.Itoa(base + 1)}
	case c.Indexed:
		return []string{strconv.Itoa(base), "5", strconv.Itoa(int(c.R))}
	case e.TrueColor:
		return []string{strconv.Itoa(base), "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	default:
		return []string{strconv.Itoa(base), "5", strconv.Itoa(toPalette(c))}
	}
}

// toPalette maps an RGB color onto the 6×6×6 cube of the 256-color palette.
func toPalette(c core.Color) int {
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return 16 + 36*q(c.R) + 6*q(c.G) + q(c.B)
}
