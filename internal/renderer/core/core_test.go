package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorDefault(t *testing.T) {
	c := ColorDefault
	if !c.IsDefault() {
		t.Error("ColorDefault should be default")
	}
	if !c.Equals(Color{Default: true, R: 9}) {
		t.Error("default colors should compare equal regardless of components")
	}
}

func TestColorFromIndex(t *testing.T) {
	c := ColorFromIndex(42)
	if c.R != 42 || !c.Indexed {
		t.Errorf("expected indexed 42, got %+v", c)
	}
	if c.Equals(ColorFromRGB(42, 0, 0)) {
		t.Error("indexed color should not equal RGB color")
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		want    Color
		wantErr bool
	}{
		{"#FF8040", ColorFromRGB(255, 128, 64), false},
		{"#ff8040", ColorFromRGB(255, 128, 64), false},
		{"FF8040", ColorFromRGB(255, 128, 64), false},
		{"#FFF", ColorFromRGB(255, 255, 255), false},
		{"#000", ColorFromRGB(0, 0, 0), false},
		{"default", ColorDefault, false},
		{"invalid", Color{}, true},
		{"#GGG", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ColorFromHex(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.hex)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.Equals(tt.want) {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}

func TestColorBlend(t *testing.T) {
	black, white := ColorFromRGB(0, 0, 0), ColorFromRGB(255, 255, 255)

	if got := black.Blend(white, 0); !got.Equals(black) {
		t.Errorf("blend 0 = %v, want black", got)
	}
	if got := black.Blend(white, 1); !got.Equals(white) {
		t.Errorf("blend 1 = %v, want white", got)
	}
	mid := black.Blend(white, 0.5)
	if mid.R == 0 || mid.R == 255 {
		t.Errorf("blend 0.5 should be between endpoints, got %v", mid)
	}
	if got := ColorDefault.Blend(white, 0.2); !got.IsDefault() {
		t.Errorf("default blend below midpoint should stay default, got %v", got)
	}
}

func TestCellEqualsIgnoresDirty(t *testing.T) {
	a := NewStyledCell('x', NewStyle(ColorWhite, ColorBlack))
	b := a
	b.Dirty = true
	if !a.Equals(b) {
		t.Error("dirty flag must not affect visual equality")
	}
	b.Style = b.Style.WithBackground(ColorBlue)
	if a.Equals(b) {
		t.Error("different background should not be equal")
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'\t', 0},
		{'中', 2},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Truncate to zero = %q", got)
	}
}

func TestScreenRectIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b ScreenRect
		want ScreenRect
	}{
		{"overlap", NewScreenRect(0, 0, 10, 10), NewScreenRect(5, 5, 15, 15), NewScreenRect(5, 5, 10, 10)},
		{"contained", NewScreenRect(0, 0, 10, 10), NewScreenRect(2, 2, 4, 4), NewScreenRect(2, 2, 4, 4)},
		{"disjoint", NewScreenRect(0, 0, 5, 5), NewScreenRect(5, 5, 10, 10), ScreenRect{}},
		{"edge touching", NewScreenRect(0, 0, 5, 5), NewScreenRect(0, 5, 5, 10), ScreenRect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.a.Intersection(tt.b)); diff != "" {
				t.Errorf("Intersection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScreenRectOffsetAndContains(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5).Offset(10, 20)
	want := ScreenRect{Top: 22, Left: 13, Bottom: 26, Right: 18}
	if r != want {
		t.Fatalf("Offset = %+v, want %+v", r, want)
	}
	if !r.ContainsPoint(13, 22) {
		t.Error("top-left corner should be contained")
	}
	if r.ContainsPoint(18, 22) {
		t.Error("right edge is exclusive")
	}
	if !r.ContainsRect(ScreenRect{}) {
		t.Error("empty rect is contained in anything")
	}
}

func TestScreenRectClampInto(t *testing.T) {
	desk := RectFromSize(0, 0, 24, 80)
	tests := []struct {
		name string
		in   ScreenRect
		want ScreenRect
	}{
		{"inside", RectFromSize(5, 5, 10, 20), RectFromSize(5, 5, 10, 20)},
		{"off right", RectFromSize(5, 70, 10, 20), RectFromSize(5, 60, 10, 20)},
		{"off top left", RectFromSize(-3, -7, 10, 20), RectFromSize(0, 0, 10, 20)},
		{"too big", RectFromSize(-1, -1, 30, 100), RectFromSize(0, 0, 24, 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampInto(desk)
			if got != tt.want {
				t.Errorf("ClampInto = %+v, want %+v", got, tt.want)
			}
			if !desk.ContainsRect(got) {
				t.Errorf("%+v escapes desktop", got)
			}
		})
	}
}

func TestConstraintsConstrain(t *testing.T) {
	sizes := []Size{{0, 0}, {5, 5}, {100, 3}, {-4, 200}}
	cons := []Constraints{
		{MinWidth: 2, MaxWidth: 10, MinHeight: 1, MaxHeight: 6},
		Tight(Size{Width: 7, Height: 3}),
		Loose(Size{Width: 40, Height: 12}),
		{MinWidth: 9, MaxWidth: 4, MinHeight: -2, MaxHeight: 1},
	}
	for _, c := range cons {
		n := c.Normalize()
		for _, s := range sizes {
			got := c.Constrain(s)
			if got.Width < n.MinWidth || got.Width > n.MaxWidth ||
				got.Height < n.MinHeight || got.Height > n.MaxHeight {
				t.Errorf("Constrain(%+v) under %+v = %+v out of range", s, c, got)
			}
		}
	}
}
