// Package pipeline renders a single window's controls into its private cell
// buffer: it keeps the window's layout tree in sync with its controls, runs
// measure and arrange, resolves portals, and paints under the clip the
// compositor reports as visible.
package pipeline

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/dirty"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// Locator is implemented by self-painting controls that own children
// outside the window's layout tree.
type Locator interface {
	Locate(control any) (core.ScreenRect, bool)
}

// Renderer is the render pipeline of one window.
type Renderer struct {
	win     *window.Window
	root    *layout.Node
	scroll  *layout.StickyScroll
	version uint64
	built   bool
	buf     *cellbuf.Buffer
	enc     *cellbuf.Encoder
	clip    core.ScreenRect
}

// New creates a renderer for w.
func New(w *window.Window) *Renderer {
	size := w.ContentSize()
	return &Renderer{
		win:    w,
		scroll: &layout.StickyScroll{},
		buf:    cellbuf.New(size.Width, size.Height),
		enc:    cellbuf.NewEncoder(),
	}
}

// Window returns the rendered window.
func (r *Renderer) Window() *window.Window { return r.win }

// Buffer returns the window's private cell buffer, in content coordinates.
func (r *Renderer) Buffer() *cellbuf.Buffer { return r.buf }

// Scroller returns the content root's scroll state.
func (r *Renderer) Scroller() *layout.StickyScroll { return r.scroll }

// Encoder returns the encoder used by Lines.
func (r *Renderer) Encoder() *cellbuf.Encoder { return r.enc }

// Clip returns the clip used by the last paint, in content coordinates.
func (r *Renderer) Clip() core.ScreenRect { return r.clip }

// Root returns the layout tree, building it if the window's controls changed.
func (r *Renderer) Root() *layout.Node {
	if !r.built || r.win.StructureVersion() != r.version {
		r.build()
	}
	return r.root
}

func (r *Renderer) build() {
	root := layout.NewNode(nil, r.scroll)
	root.SetInvalidator(r.win.Invalidator())
	for _, c := range r.win.Controls() {
		root.AddChild(layout.Build(c))
	}
	r.root = root
	r.version = r.win.StructureVersion()
	r.built = true
}

// Layout runs measure and arrange for the current content size and places
// the window's portals. A size change forces re-measurement.
func (r *Renderer) Layout() {
	root := r.Root()
	size := r.win.ContentSize()
	if w, h := r.buf.Size(); w != size.Width || h != size.Height {
		r.buf.Resize(size.Width, size.Height)
		root.InvalidateMeasure()
	}
	bounds := core.RectFromSize(0, 0, size.Height, size.Width)
	r.win.Portals().Sync(root, bounds)
	root.Measure(core.Loose(size))
	root.Arrange(bounds)
}

// ContentClip converts screen-space visible regions into a clip rectangle
// in content coordinates: the bounding box of the regions, offset by the
// content origin and limited to the content area.
func (r *Renderer) ContentClip(visible []core.ScreenRect) core.ScreenRect {
	cr := r.win.ContentRect()
	box := dirty.Bounds(visible).Intersection(cr)
	if box.IsEmpty() {
		return core.ScreenRect{}
	}
	return box.Offset(-cr.Left, -cr.Top)
}

// Render lays out and paints the window. visible lists the screen-space
// regions of the window not covered by windows above it. Nothing is painted
// when no content is visible; the return value reports whether painting
// happened.
func (r *Renderer) Render(visible []core.ScreenRect) bool {
	r.Layout()
	r.clip = r.ContentClip(visible)
	if r.clip.IsEmpty() {
		return false
	}
	fg, bg := r.win.Foreground(), r.win.Background()
	r.buf.Clear(fg, bg)
	r.root.Paint(r.buf, r.clip, fg, bg)
	return true
}

// Lines serializes the window buffer to escape-coded text, one string per
// content row.
func (r *Renderer) Lines() []string {
	return r.enc.Lines(r.buf)
}

// NodeAt returns the deepest layout node at a content position.
func (r *Renderer) NodeAt(x, y int) *layout.Node {
	if r.root == nil {
		return nil
	}
	return r.root.HitTest(x, y)
}

// ControlAt returns the innermost control at a content position that
// satisfies accept, with its bounds in content coordinates.
func (r *Renderer) ControlAt(x, y int, accept func(any) bool) (any, core.ScreenRect) {
	for n := r.NodeAt(x, y); n != nil; n = n.Parent() {
		if c := n.Control(); c != nil && accept(c) {
			return c, n.AbsoluteBounds()
		}
	}
	return nil, core.ScreenRect{}
}

// BoundsOf returns the content-space bounds of control.
func (r *Renderer) BoundsOf(control any) (core.ScreenRect, bool) {
	if r.root == nil {
		return core.ScreenRect{}, false
	}
	if n := r.root.Find(control); n != nil {
		return n.AbsoluteBounds(), true
	}
	var (
		rect  core.ScreenRect
		found bool
	)
	r.root.Walk(func(n *layout.Node) bool {
		if l, ok := n.Control().(Locator); ok {
			rect, found = l.Locate(control)
		}
		return !found
	})
	return rect, found
}

// FocusOrder lists the window's controls in tab order: tree order, with
// portal content last.
func (r *Renderer) FocusOrder() []any {
	var out []any
	r.Root().Walk(func(n *layout.Node) bool {
		if c := n.Control(); c != nil && n.Visible() && !n.AbsoluteBounds().IsEmpty() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// CursorStyle returns the cursor shape requested by the focused control.
func (r *Renderer) CursorStyle() backend.CursorStyle {
	if s, ok := r.win.Focused().(window.CursorShaper); ok {
		return s.CursorStyle()
	}
	return backend.CursorDefault
}

// Cursor returns the screen position of the focused control's cursor.
func (r *Renderer) Cursor() (x, y int, ok bool) {
	owner, isOwner := r.win.Focused().(window.CursorOwner)
	if !isOwner {
		return 0, 0, false
	}
	cx, cy, show := owner.CursorPosition()
	if !show {
		return 0, 0, false
	}
	b, found := r.BoundsOf(r.win.Focused())
	if !found {
		return 0, 0, false
	}
	px, py := b.Left+cx, b.Top+cy
	if !b.ContainsPoint(px, py) || !r.clip.ContainsPoint(px, py) {
		return 0, 0, false
	}
	cr := r.win.ContentRect()
	return cr.Left + px, cr.Top + py, true
}
