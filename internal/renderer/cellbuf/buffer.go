// Package cellbuf holds one frame of terminal cells and reconciles it against
// the previously committed frame.
//
// A Buffer keeps a shadow copy of the last committed grid. Writes that do not
// change a cell's visual value leave it clean, so a frame that repaints the
// same content yields no changes. The shadow is allocated on the first
// Commit and discarded on Resize.
package cellbuf

import (
	"github.com/dshills/casement/internal/renderer/core"
)

// Change is a single cell that must be written to the output device.
type Change struct {
	X, Y int
	Cell core.Cell
}

// Buffer is a width×height grid of cells with dirty tracking.
type Buffer struct {
	width, height int
	cells         []core.Cell
	prev          []core.Cell
}

// New creates a buffer filled with blank cells. Fresh cells are clean.
func New(width, height int) *Buffer {
	b := &Buffer{}
	b.width, b.height = max(width, 0), max(height, 0)
	b.cells = blankCells(b.width * b.height)
	return b
}

func blankCells(n int) []core.Cell {
	cells := make([]core.Cell, n)
	empty := core.EmptyCell()
	for i := range cells {
		cells[i] = empty
	}
	return cells
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() core.ScreenRect {
	return core.RectFromSize(0, 0, b.height, b.width)
}

// HasPrevious reports whether a committed frame is available for diffing.
func (b *Buffer) HasPrevious() bool {
	return b.prev != nil
}

func (b *Buffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width + x, true
}

// Cell returns the cell at (x, y), or a blank cell when out of range.
func (b *Buffer) Cell(x, y int) core.Cell {
	i, ok := b.index(x, y)
	if !ok {
		return core.EmptyCell()
	}
	return b.cells[i]
}

// SetCell writes a character with the given colors. Out-of-range coordinates
// are ignored.
func (b *Buffer) SetCell(x, y int, r rune, fg, bg core.Color) {
	b.Set(x, y, core.NewStyledCell(r, core.NewStyle(fg, bg)))
}

// Set writes a cell. The cell is marked dirty only when its visual value
// changes.
func (b *Buffer) Set(x, y int, c core.Cell) {
	i, ok := b.index(x, y)
	if !ok {
		return
	}
	cur := &b.cells[i]
	if cur.Equals(c) {
		return
	}
	c.Dirty = true
	*cur = c
}

// MarkAllDirty flags every cell for output.
func (b *Buffer) MarkAllDirty() {
	for i := range b.cells {
		b.cells[i].Dirty = true
	}
}

// Commit copies the grid into the previous-frame shadow and clears all dirty
// flags. Call once per rendered frame, after the changes have been consumed.
func (b *Buffer) Commit() {
	if len(b.prev) != len(b.cells) {
		b.prev = make([]core.Cell, len(b.cells))
	}
	for i := range b.cells {
		b.cells[i].Dirty = false
	}
	copy(b.prev, b.cells)
}

// GetChanges returns cells that are dirty and differ from the committed
// frame. Before the first Commit it is equivalent to GetDirtyCells.
func (b *Buffer) GetChanges() []Change {
	if b.prev == nil {
		return b.GetDirtyCells()
	}
	var changes []Change
	for i, c := range b.cells {
		if c.Dirty && !c.Equals(b.prev[i]) {
			changes = append(changes, Change{X: i % b.width, Y: i / b.width, Cell: c})
		}
	}
	return changes
}

// GetDirtyCells returns every dirty cell regardless of the committed frame.
func (b *Buffer) GetDirtyCells() []Change {
	var changes []Change
	for i, c := range b.cells {
		if c.Dirty {
			changes = append(changes, Change{X: i % b.width, Y: i / b.width, Cell: c})
		}
	}
	return changes
}

// Resize changes the dimensions, keeping the overlapping top-left content.
// The committed frame is discarded and every cell is marked dirty.
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == b.width && height == b.height {
		return
	}
	old, oldW := b.cells, b.width
	cells := blankCells(width * height)
	for y := 0; y < min(height, b.height); y++ {
		copy(cells[y*width:y*width+min(width, oldW)], old[y*oldW:y*oldW+min(width, oldW)])
	}
	b.cells = cells
	b.width, b.height = width, height
	b.prev = nil
	b.MarkAllDirty()
}

// Row returns a copy of row y.
func (b *Buffer) Row(y int) []core.Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	row := make([]core.Cell, b.width)
	copy(row, b.cells[y*b.width:(y+1)*b.width])
	return row
}

// Canvas returns a drawing surface restricted to clip.
func (b *Buffer) Canvas(clip core.ScreenRect) Canvas {
	return Canvas{buf: b, clip: clip.Intersection(b.Bounds())}
}

// Clear blanks the whole buffer with the given colors.
func (b *Buffer) Clear(fg, bg core.Color) {
	b.FillRect(b.Bounds(), ' ', fg, bg)
}

// FillRect fills r with a character.
func (b *Buffer) FillRect(r core.ScreenRect, ch rune, fg, bg core.Color) {
	b.Canvas(b.Bounds()).FillRect(r, ch, fg, bg)
}

// ClearRect blanks r with the default colors.
func (b *Buffer) ClearRect(r core.ScreenRect) {
	b.FillRect(r, ' ', core.ColorDefault, core.ColorDefault)
}

// HLine draws a horizontal run of ch starting at (x, y).
func (b *Buffer) HLine(x, y, length int, ch rune, fg, bg core.Color) {
	b.Canvas(b.Bounds()).HLine(x, y, length, ch, fg, bg)
}

// VLine draws a vertical run of ch starting at (x, y).
func (b *Buffer) VLine(x, y, length int, ch rune, fg, bg core.Color) {
	b.Canvas(b.Bounds()).VLine(x, y, length, ch, fg, bg)
}

// Box draws a single-line border around r.
func (b *Buffer) Box(r core.ScreenRect, fg, bg core.Color) {
	b.Canvas(b.Bounds()).Box(r, SingleBorder, fg, bg)
}

// SetString writes s starting at (x, y) and returns the number of columns used.
func (b *Buffer) SetString(x, y int, s string, style core.Style) int {
	return b.Canvas(b.Bounds()).SetString(x, y, s, style)
}

// Blit copies src into b with src's origin at dst, restricted to clip
// (in b's coordinates).
func (b *Buffer) Blit(src *Buffer, dst core.ScreenPos, clip core.ScreenRect) {
	area := core.RectFromSize(dst.Row, dst.Col, src.height, src.width).
		Intersection(clip).Intersection(b.Bounds())
	for y := area.Top; y < area.Bottom; y++ {
		for x := area.Left; x < area.Right; x++ {
			c := src.Cell(x-dst.Col, y-dst.Row)
			c.Dirty = false
			b.Set(x, y, c)
		}
	}
}
