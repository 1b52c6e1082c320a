package controls

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

func glyphText(gs []cellbuf.Glyph) string {
	var sb strings.Builder
	for _, g := range gs {
		sb.WriteRune(g.Rune)
	}
	return sb.String()
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"word break", "hello big world", 7, []string{"hello", "big", "world"}},
		{"hard break", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"newline", "a\nb", 10, []string{"a", "b"}},
		{"empty", "", 5, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, line := range wrap(Text(tt.text).Glyphs(), tt.width) {
				got = append(got, glyphText(line))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("wrap(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.width, diff)
			}
		})
	}
}

func TestLabelMeasure(t *testing.T) {
	l := NewLabel("hello big world")
	if got := l.Measure(core.Loose(core.Size{Width: 7, Height: 10})); got != (core.Size{Width: 15, Height: 1}) {
		t.Errorf("unwrapped Measure() = %+v", got)
	}
	l.Wrap = true
	if got := l.Measure(core.Loose(core.Size{Width: 7, Height: 10})); got != (core.Size{Width: 5, Height: 3}) {
		t.Errorf("wrapped Measure() = %+v", got)
	}
}

func TestColoredLabelPaint(t *testing.T) {
	red := core.ColorFromRGB(255, 0, 0)
	l := NewRichLabel(Colored{Text: "hi", Fg: red})
	root := layout.Build(l)
	root.Measure(core.Loose(core.Size{Width: 5, Height: 1}))
	root.Arrange(core.RectFromSize(0, 0, 1, 5))
	buf := cellbuf.New(5, 1)
	root.Paint(buf, buf.Bounds(), core.ColorWhite, core.ColorBlack)

	c := buf.Cell(0, 0)
	if c.Rune != 'h' || !c.Foreground().Equals(red) || !c.Background().Equals(core.ColorBlack) {
		t.Errorf("cell = %+v, want red h on black", c)
	}
}

func TestInputEditing(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 5, 30)})
	in := NewInput()
	changes := 0
	in.OnChange = func(string) { changes++ }
	ctx := &window.Context{Window: w, Bounds: core.RectFromSize(0, 0, 1, DefaultInputWidth)}
	key := func(k backend.Key) {
		in.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: k})
	}
	for _, r := range "abc" {
		in.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
	}
	key(backend.KeyLeft)
	key(backend.KeyBackspace)
	if in.Text() != "ac" {
		t.Fatalf("Text() = %q, want %q", in.Text(), "ac")
	}
	key(backend.KeyHome)
	key(backend.KeyDelete)
	if in.Text() != "c" {
		t.Errorf("Text() = %q, want %q", in.Text(), "c")
	}
	key(backend.KeyBackspace)
	if in.Text() != "c" || changes != 5 {
		t.Errorf("backspace at start changed text: %q, %d changes", in.Text(), changes)
	}
	if in.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x', Mod: backend.ModCtrl}) {
		t.Error("ctrl+rune consumed by input")
	}

	w.Focus(in)
	key(backend.KeyEnd)
	if x, y, ok := in.CursorPosition(); !ok || x != 1 || y != 0 {
		t.Errorf("CursorPosition() = (%d,%d,%v), want (1,0,true)", x, y, ok)
	}
}

func TestButtonPress(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 5, 30)})
	presses := 0
	b := NewButton("OK", func(*window.Context) { presses++ })
	if got := b.Measure(core.Loose(core.Size{Width: 30, Height: 5})); got != (core.Size{Width: 6, Height: 1}) {
		t.Errorf("Measure() = %+v", got)
	}
	b.Click(&window.ClickContext{Context: window.Context{Window: w}})
	b.HandleKey(&window.Context{Window: w}, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: ' '})
	b.HandleKey(&window.Context{Window: w}, backend.Event{Type: backend.EventKey, Key: backend.KeyEnter})
	if presses != 3 {
		t.Errorf("presses = %d, want 3", presses)
	}
	if w.Focused() != b {
		t.Error("click did not focus the button")
	}
}

func TestTabsHeaderClick(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 10, 30)})
	tabs := NewTabs()
	tabs.AddTab("One", NewLabel("first"))
	tabs.AddTab("Two", NewLabel("second"))
	var changed []int
	tabs.OnChange = func(i int) { changed = append(changed, i) }

	root := layout.Build(tabs)
	root.Measure(core.Loose(core.Size{Width: 20, Height: 5}))
	root.Arrange(core.RectFromSize(0, 0, 5, 20))
	buf := cellbuf.New(20, 5)
	root.Paint(buf, buf.Bounds(), core.ColorDefault, core.ColorDefault)
	if got := buf.Cell(0, 1).Rune; got != 'f' {
		t.Errorf("page row starts with %q, want 'f'", got)
	}

	ctx := &window.ClickContext{Context: window.Context{Window: w, Bounds: root.AbsoluteBounds()}, X: 7, Y: 0}
	if !tabs.Click(ctx) || tabs.Active() != 1 {
		t.Fatalf("header click: active = %d", tabs.Active())
	}
	if tabs.Click(&window.ClickContext{Context: ctx.Context, X: 7, Y: 2}) {
		t.Error("page click consumed by tabs")
	}
	tabs.HandleKey(&ctx.Context, backend.Event{Type: backend.EventKey, Key: backend.KeyLeft})
	if diff := cmp.Diff([]int{1, 0}, changed); diff != "" {
		t.Errorf("OnChange calls (-want +got):\n%s", diff)
	}
	if !root.NeedsMeasure() {
		t.Error("switching tabs did not invalidate measure")
	}
}

func TestScrollPanel(t *testing.T) {
	var items []any
	for i := 0; i < 10; i++ {
		items = append(items, NewLabel("l"+string(rune('0'+i))))
	}
	p := NewScrollPanel(items...)
	root := layout.Build(p)
	size := core.Size{Width: 10, Height: 4}
	buf := cellbuf.New(size.Width, size.Height)
	paint := func() {
		root.Measure(core.Tight(size))
		root.Arrange(buf.Bounds())
		root.Paint(buf, buf.Bounds(), core.ColorDefault, core.ColorDefault)
	}
	paint()
	if got := buf.Cell(1, 0).Rune; got != '0' {
		t.Errorf("top row = l%c, want l0", got)
	}
	if got := buf.Cell(9, 0).Rune; got != '█' {
		t.Errorf("scrollbar thumb = %q", got)
	}

	if !p.ScrollBy(3) {
		t.Fatal("ScrollBy(3) = false")
	}
	paint()
	if got := buf.Cell(1, 0).Rune; got != '3' {
		t.Errorf("after scroll top row = l%c, want l3", got)
	}
	if got := buf.Cell(1, 3).Rune; got != '6' {
		t.Errorf("after scroll bottom row = l%c, want l6", got)
	}

	p.ScrollBy(100)
	if p.Offset() != 6 {
		t.Errorf("Offset() = %d, want clamp at 6", p.Offset())
	}
	if p.ScrollBy(1) {
		t.Error("ScrollBy past the end reported movement")
	}

	ctrl, r := p.HitTest(1, 0, root.AbsoluteBounds())
	paint()
	if l, ok := ctrl.(*Label); !ok || r.Top != 0 {
		t.Errorf("HitTest = %T at %+v", l, r)
	}
	if b, ok := p.Locate(items[9]); !ok || b.Top != 3 {
		t.Errorf("Locate(l9) = %+v, %v", b, ok)
	}
}

func TestListKeys(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 10, 30)})
	l := NewList("a", "b", "c")
	var picked = -1
	l.OnSelect = func(_ *window.Context, i int) { picked = i }
	ctx := &window.Context{Window: w}
	l.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyEnd})
	l.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyDown})
	if l.Selected() != 2 {
		t.Errorf("Selected() = %d, want 2", l.Selected())
	}
	l.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyUp})
	l.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyEnter})
	if picked != 1 {
		t.Errorf("OnSelect index = %d, want 1", picked)
	}
	if NewList().Selected() != -1 {
		t.Error("empty list should select -1")
	}
}

func TestDropdownEscapeCloses(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 10, 30)})
	dd := NewDropdown("x", "y")
	ctx := &window.Context{Window: w, Bounds: core.RectFromSize(0, 0, 1, 10)}
	dd.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyEnter})
	if !dd.IsOpen() {
		t.Fatal("Enter did not open the dropdown")
	}
	p := w.Portals().Portals()[0]
	if p.Size != (core.Size{Width: 10, Height: 2}) {
		t.Errorf("portal size = %+v", p.Size)
	}
	dd.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	if dd.IsOpen() || w.Portals().Count() != 0 {
		t.Error("Escape did not close the dropdown")
	}
}
