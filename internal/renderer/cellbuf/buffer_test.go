package cellbuf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/casement/internal/renderer/core"
)

var (
	white = core.ColorWhite
	black = core.ColorBlack
)

func TestSetCellSingleDirty(t *testing.T) {
	b := New(3, 3)
	b.SetCell(1, 1, 'X', white, black)

	changes := b.GetDirtyCells()
	if len(changes) != 1 {
		t.Fatalf("expected 1 dirty cell, got %d", len(changes))
	}
	if changes[0].X != 1 || changes[0].Y != 1 || changes[0].Cell.Rune != 'X' {
		t.Errorf("unexpected change %+v", changes[0])
	}
}

func TestSetCellOutOfRange(t *testing.T) {
	b := New(3, 3)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {100, 100}} {
		b.SetCell(p[0], p[1], 'X', white, black)
	}
	if n := len(b.GetDirtyCells()); n != 0 {
		t.Errorf("out-of-range writes should be ignored, got %d dirty", n)
	}
}

func TestSameValueNotDirtyAfterCommit(t *testing.T) {
	b := New(4, 2)
	b.SetCell(2, 1, 'a', white, black)
	b.Commit()

	b.SetCell(2, 1, 'a', white, black)
	if b.Cell(2, 1).Dirty {
		t.Error("identical write should not mark the cell dirty")
	}
	if n := len(b.GetChanges()); n != 0 {
		t.Errorf("expected no changes, got %d", n)
	}

	b.SetCell(2, 1, 'b', white, black)
	if !b.Cell(2, 1).Dirty {
		t.Error("different write should mark the cell dirty")
	}
	if n := len(b.GetChanges()); n != 1 {
		t.Errorf("expected 1 change, got %d", n)
	}
}

func TestGetChangesEmptyAfterCommit(t *testing.T) {
	b := New(10, 5)
	b.FillRect(core.RectFromSize(1, 1, 3, 8), '#', white, black)
	b.Commit()
	if n := len(b.GetChanges()); n != 0 {
		t.Errorf("expected no changes after commit, got %d", n)
	}
}

func TestGetChangesFiltersRevertedCells(t *testing.T) {
	b := New(5, 1)
	b.SetString(0, 0, "hello", core.DefaultStyle())
	b.Commit()

	// Clear then repaint the same content: cells become dirty but match the shadow.
	b.ClearRect(b.Bounds())
	b.SetString(0, 0, "hello", core.DefaultStyle())

	if n := len(b.GetDirtyCells()); n == 0 {
		t.Error("cells touched by clear should still be dirty")
	}
	if n := len(b.GetChanges()); n != 0 {
		t.Errorf("expected no visual changes, got %d", n)
	}
}

func TestResizePreservesOverlap(t *testing.T) {
	b := New(4, 4)
	b.SetCell(0, 0, 'a', white, black)
	b.SetCell(3, 3, 'z', white, black)
	b.Commit()

	b.Resize(2, 6)
	if b.HasPrevious() {
		t.Error("resize should drop the committed frame")
	}
	if got := b.Cell(0, 0).Rune; got != 'a' {
		t.Errorf("expected overlap preserved, got %q", got)
	}
	if n := len(b.GetChanges()); n != 12 {
		t.Errorf("expected every cell dirty after resize, got %d", n)
	}
}

func TestCanvasClipping(t *testing.T) {
	b := New(6, 3)
	c := b.Canvas(core.RectFromSize(1, 1, 1, 3))
	c.FillRect(b.Bounds(), '*', white, black)

	var got []string
	for y := 0; y < 3; y++ {
		var sb strings.Builder
		for _, cell := range b.Row(y) {
			sb.WriteRune(cell.Rune)
		}
		got = append(got, sb.String())
	}
	want := []string{"      ", " ***  ", "      "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("clipped fill mismatch (-want +got):\n%s", diff)
	}
}

func TestBoxCorners(t *testing.T) {
	b := New(4, 3)
	b.Box(b.Bounds(), white, black)
	checks := map[[2]int]rune{
		{0, 0}: '┌', {3, 0}: '┐', {0, 2}: '└', {3, 2}: '┘',
		{1, 0}: '─', {0, 1}: '│', {1, 1}: ' ',
	}
	for p, want := range checks {
		if got := b.Cell(p[0], p[1]).Rune; got != want {
			t.Errorf("cell %v = %q, want %q", p, got, want)
		}
	}
}

func TestSetStringWide(t *testing.T) {
	b := New(5, 1)
	n := b.SetString(0, 0, "中a", core.DefaultStyle())
	if n != 3 {
		t.Errorf("expected 3 columns, got %d", n)
	}
	if !b.Cell(1, 0).IsContinuation() {
		t.Error("second column of wide rune should be a continuation cell")
	}
}

func TestBlit(t *testing.T) {
	src := New(3, 2)
	src.FillRect(src.Bounds(), 'x', white, black)
	dst := New(6, 4)
	dst.Blit(src, core.ScreenPos{Row: 1, Col: 2}, core.RectFromSize(0, 0, 4, 4))

	if dst.Cell(2, 1).Rune != 'x' || dst.Cell(3, 2).Rune != 'x' {
		t.Error("expected blitted content inside clip")
	}
	if dst.Cell(4, 1).Rune == 'x' {
		t.Error("content outside clip should not be copied")
	}
}

func TestEncoderGroupsStyles(t *testing.T) {
	b := New(4, 1)
	b.SetString(0, 0, "ab", core.NewStyle(white, black))
	b.SetString(2, 0, "cd", core.NewStyle(white, core.ColorBlue))

	line := NewEncoder().Lines(b)[0]
	if !strings.HasPrefix(line, sgrReset) || !strings.HasSuffix(line, sgrReset) {
		t.Errorf("line should be wrapped in resets: %q", line)
	}
	if n := strings.Count(line, "\x1b[0;38;2"); n != 2 {
		t.Errorf("expected 2 color changes, got %d in %q", n, line)
	}
	if !strings.Contains(line, "ab") || !strings.Contains(line, "cd") {
		t.Errorf("text runs should be contiguous: %q", line)
	}
}

func TestEncoderPalette(t *testing.T) {
	e := &Encoder{}
	got := e.sgr(core.NewStyle(core.ColorFromRGB(255, 0, 0), core.ColorFromIndex(4)))
	if got != "\x1b[0;38;5;196;48;5;4m" {
		t.Errorf("unexpected palette sgr %q", got)
	}
}
