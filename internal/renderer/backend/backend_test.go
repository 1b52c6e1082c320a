package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/casement/internal/renderer/core"
)

func TestNullBackendCells(t *testing.T) {
	b := NewNullBackend(5, 2)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	b.SetRow(1, 0, []core.Cell{core.NewCell('a'), core.NewCell('b')})
	b.SetCell(99, 99, core.NewCell('z'))

	if got := b.Text(0); got != " ab  " {
		t.Errorf("row text = %q", got)
	}
	if _, writes := b.Stats(); writes != 2 {
		t.Errorf("expected 2 writes, got %d", writes)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(10, 10)
	b.ShowCursor(3, 4)
	b.SetCursorStyle(CursorBar)
	x, y, visible := b.CursorPosition()
	if x != 3 || y != 4 || !visible {
		t.Errorf("cursor = (%d,%d,%v)", x, y, visible)
	}
	if b.CursorStyleValue() != CursorBar {
		t.Error("cursor style not recorded")
	}
	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendPollAfterShutdown(t *testing.T) {
	b := NewNullBackend(10, 10)
	done := make(chan Event, 1)
	go func() { done <- b.PollEvent() }()
	b.Shutdown()
	b.Shutdown()

	select {
	case ev := <-done:
		if ev.Type != EventInterrupt {
			t.Errorf("expected interrupt, got %v", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("PollEvent did not return after shutdown")
	}
}

func TestNullBackendResizeQueuesEvent(t *testing.T) {
	b := NewNullBackend(10, 10)
	b.Resize(20, 5)
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("size = %dx%d", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		in   tcell.Event
		want Event
	}{
		{
			"rune",
			tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
			Event{Type: EventKey, Key: KeyRune, Rune: 'q'},
		},
		{
			"backtab",
			tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift),
			Event{Type: EventKey, Key: KeyBacktab, Mod: ModShift},
		},
		{
			"mouse",
			tcell.NewEventMouse(4, 7, tcell.Button1|tcell.WheelDown, tcell.ModNone),
			Event{Type: EventMouse, MouseX: 4, MouseY: 7, Buttons: MousePrimary | MouseWheelDown},
		},
		{
			"resize",
			tcell.NewEventResize(80, 24),
			Event{Type: EventResize, Width: 80, Height: 24},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertEvent(tt.in)
			if got.Type != tt.want.Type || got.Key != tt.want.Key || got.Mod != tt.want.Mod ||
				got.MouseX != tt.want.MouseX || got.MouseY != tt.want.MouseY ||
				got.Buttons != tt.want.Buttons || got.Width != tt.want.Width || got.Height != tt.want.Height {
				t.Errorf("convertEvent = %+v, want %+v", got, tt.want)
			}
			if tt.want.Key == KeyRune && got.Rune != tt.want.Rune {
				t.Errorf("rune = %q, want %q", got.Rune, tt.want.Rune)
			}
		})
	}
}

func TestSimulationTerminal(t *testing.T) {
	term := NewSimulationTerminal(12, 3)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	if w, h := term.Size(); w != 12 || h != 3 {
		t.Fatalf("size = %dx%d", w, h)
	}
	term.SetRow(0, 1, []core.Cell{core.NewCell('h'), core.NewCell('i')})
	term.Show()

	sim := term.screen.(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	if got := string(cells[w].Runes); got != "h" {
		t.Errorf("cell (0,1) = %q", got)
	}
}
