package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/casement/internal/controls"
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/window"
)

func rowText(b *cellbuf.Buffer, y int) string {
	var sb strings.Builder
	for _, c := range b.Row(y) {
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

func fullyVisible(w *window.Window) []core.ScreenRect {
	return []core.ScreenRect{w.Rect()}
}

func TestRenderPaintsControls(t *testing.T) {
	w := window.New(window.Config{Title: "t", Rect: core.RectFromSize(0, 0, 5, 20)})
	w.AddControl(controls.NewLabel("hello"))
	w.AddControl(controls.NewLabel("world"))
	r := New(w)

	if !r.Render(fullyVisible(w)) {
		t.Fatal("Render() = false for a visible window")
	}
	got := []string{rowText(r.Buffer(), 0), rowText(r.Buffer(), 1), rowText(r.Buffer(), 2)}
	want := []string{"hello", "world", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got, want := r.Clip(), core.RectFromSize(0, 0, 3, 18); !got.Equals(want) {
		t.Errorf("Clip() = %+v, want %+v", got, want)
	}
	if n := len(r.Lines()); n != 3 {
		t.Errorf("len(Lines()) = %d, want 3", n)
	}
}

func TestRenderSkipsHiddenWindow(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 5, 20)})
	w.AddControl(controls.NewLabel("hello"))
	r := New(w)

	if r.Render(nil) {
		t.Error("Render(nil) painted a fully covered window")
	}
	if got := rowText(r.Buffer(), 0); got != "" {
		t.Errorf("row 0 = %q, want blank", got)
	}
	// A region covering only the border leaves no content to paint.
	if r.Render([]core.ScreenRect{core.RectFromSize(0, 0, 1, 20)}) {
		t.Error("Render() painted with only the title row visible")
	}
}

func TestContentClip(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(2, 4, 10, 20)})
	r := New(w)
	tests := []struct {
		name    string
		visible []core.ScreenRect
		want    core.ScreenRect
	}{
		{"none", nil, core.ScreenRect{}},
		{"whole window", fullyVisible(w), core.RectFromSize(0, 0, 8, 18)},
		{"one region", []core.ScreenRect{core.NewScreenRect(4, 10, 6, 15)}, core.NewScreenRect(1, 5, 3, 10)},
		{"bounding box", []core.ScreenRect{
			core.NewScreenRect(3, 5, 4, 7),
			core.NewScreenRect(8, 20, 9, 22),
		}, core.NewScreenRect(0, 0, 6, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ContentClip(tt.visible)
			if tt.want.IsEmpty() {
				if !got.IsEmpty() {
					t.Errorf("ContentClip() = %+v, want empty", got)
				}
				return
			}
			if !got.Equals(tt.want) {
				t.Errorf("ContentClip() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRebuildOnStructureChange(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 6, 20)})
	w.AddControl(controls.NewLabel("one"))
	r := New(w)
	r.Render(fullyVisible(w))
	first := r.Root()

	w.AddControl(controls.NewLabel("two"))
	r.Render(fullyVisible(w))
	if r.Root() == first {
		t.Error("tree was not rebuilt after AddControl")
	}
	if got := rowText(r.Buffer(), 1); got != "two" {
		t.Errorf("row 1 = %q, want %q", got, "two")
	}
}

func TestResizeRemeasures(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 5, 20)})
	w.AddControl(controls.NewLabel("hello"))
	r := New(w)
	r.Render(fullyVisible(w))

	w.SetRect(core.RectFromSize(0, 0, 8, 30))
	r.Render(fullyVisible(w))
	if bw, bh := r.Buffer().Size(); bw != 28 || bh != 6 {
		t.Errorf("buffer size = %dx%d, want 28x6", bw, bh)
	}
	if got := rowText(r.Buffer(), 0); got != "hello" {
		t.Errorf("row 0 = %q after resize", got)
	}
}

func TestCursorFollowsFocusedInput(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(3, 5, 5, 30)})
	in := controls.NewInput()
	w.AddControl(in)
	r := New(w)
	r.Render(fullyVisible(w))

	if _, _, ok := r.Cursor(); ok {
		t.Error("cursor shown without focus")
	}
	w.Focus(in)
	b, _ := r.BoundsOf(in)
	ctx := &window.Context{Window: w, Bounds: b}
	in.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'a'})
	in.HandleKey(ctx, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'b'})
	r.Render(fullyVisible(w))

	x, y, ok := r.Cursor()
	if !ok || x != 5+1+2 || y != 3+1 {
		t.Errorf("Cursor() = (%d,%d,%v), want (8,4,true)", x, y, ok)
	}
}

func TestFocusOrder(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 8, 30)})
	a := controls.NewButton("a", nil)
	lbl := controls.NewLabel("x")
	b := controls.NewButton("b", nil)
	w.AddControl(controls.NewStack(0, a, lbl, b))
	r := New(w)
	r.Render(fullyVisible(w))

	w.FocusNext(r.FocusOrder(), false)
	if w.Focused() != a {
		t.Fatalf("first focus = %v, want button a", w.Focused())
	}
	w.FocusNext(r.FocusOrder(), false)
	if w.Focused() != b {
		t.Errorf("second focus = %v, want button b", w.Focused())
	}
}

func TestDropdownPortal(t *testing.T) {
	w := window.New(window.Config{Rect: core.RectFromSize(0, 0, 12, 30)})
	dd := controls.NewDropdown("red", "green", "blue")
	var changed = -1
	dd.OnChange = func(i int) { changed = i }
	w.AddControl(dd)
	r := New(w)
	r.Render(fullyVisible(w))

	b, ok := r.BoundsOf(dd)
	if !ok {
		t.Fatal("dropdown not in tree")
	}
	dd.Click(&window.ClickContext{Context: window.Context{Window: w, Bounds: b}})
	if !dd.IsOpen() || w.Portals().Count() != 1 {
		t.Fatal("click did not open the list portal")
	}
	r.Render(fullyVisible(w))
	if got := rowText(r.Buffer(), 2); got != " green" {
		t.Errorf("portal row = %q, want %q", got, " green")
	}

	accept := func(c any) bool { _, ok := c.(window.Clickable); return ok }
	ctrl, lb := r.ControlAt(2, 2, accept)
	list, isList := ctrl.(*controls.List)
	if !isList {
		t.Fatalf("ControlAt(2,2) = %T, want *controls.List", ctrl)
	}
	list.Click(&window.ClickContext{Context: window.Context{Window: w, Bounds: lb}, X: 2, Y: 2 - lb.Top})
	if dd.IsOpen() || w.Portals().Count() != 0 {
		t.Error("selecting an item did not close the portal")
	}
	if changed != 1 || dd.Value() != "green" {
		t.Errorf("selection = %d %q, want 1 green", changed, dd.Value())
	}

	r.Render(fullyVisible(w))
	if n := len(r.Root().Portals()); n != 0 {
		t.Errorf("root still holds %d portals", n)
	}
}
