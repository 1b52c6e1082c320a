// Package backend abstracts the terminal the compositor draws to and reads
// input from.
//
// Every backend serializes its own screen access, so frame output, cursor
// placement and event polling never interleave escape sequences.
package backend

import (
	"sync"

	"github.com/dshills/casement/internal/renderer/core"
)

// CursorStyle defines how the cursor appears.
type CursorStyle int

// Cursor styles.
const (
	CursorDefault CursorStyle = iota
	CursorBlock
	CursorUnderline
	CursorBar
)

// EventType identifies the type of terminal event.
type EventType int

// Event types.
const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields. Buttons is the set currently held; wheel motion
	// is reported as a button.
	MouseX, MouseY int
	Buttons        MouseButton

	// Resize event fields
	Width, Height int

	// Focus event fields
	Focused bool
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlW
)

// ModMask represents modifier key state.
type ModMask int

// Modifier flags.
const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is a bit set of mouse buttons.
type MouseButton int

// Mouse buttons.
const (
	MouseNone    MouseButton = 0
	MousePrimary MouseButton = 1 << iota
	MouseSecondary
	MouseMiddle
	MouseWheelUp
	MouseWheelDown
)

// Has returns true if the set contains b.
func (m MouseButton) Has(b MouseButton) bool {
	return m&b != 0
}

// Backend is the output/input device contract.
type Backend interface {
	// Init enters raw mode and prepares the screen.
	Init() error

	// Shutdown restores the terminal. It is safe to call more than once.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell stages a single cell. Off-screen positions are ignored.
	SetCell(x, y int, cell core.Cell)

	// SetRow stages a run of cells starting at (x, y).
	SetRow(x, y int, cells []core.Cell)

	// Show flushes staged cells to the display.
	Show()

	// Sync repaints the whole display, discarding any terminal-side state.
	Sync()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor appearance.
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next event. It returns an EventInterrupt
	// or EventNone event once the backend is shut down.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)

	// HasTrueColor returns true if the backend supports 24-bit color.
	HasTrueColor() bool

	// Beep produces an audible or visual bell.
	Beep()
}

// NullBackend is an in-memory backend for tests and headless rendering.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         []core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	shows         int
	writes        int
	beeps         int
	events        chan Event
	closed        chan struct{}
	once          sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
	b.allocate(width, height)
	return b
}

func (b *NullBackend) allocate(width, height int) {
	b.width, b.height = width, height
	b.cells = make([]core.Cell, width*height)
	for i := range b.cells {
		b.cells[i] = core.EmptyCell()
	}
}

// Init implements Backend.
func (b *NullBackend) Init() error { return nil }

// Shutdown implements Backend.
func (b *NullBackend) Shutdown() {
	b.once.Do(func() { close(b.closed) })
}

// Size implements Backend.
func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetCell implements Backend.
func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCell(x, y, cell)
}

func (b *NullBackend) setCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		cell.Dirty = false
		b.cells[y*b.width+x] = cell
		b.writes++
	}
}

// SetRow implements Backend.
func (b *NullBackend) SetRow(x, y int, cells []core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range cells {
		b.setCell(x+i, y, c)
	}
}

// Show implements Backend.
func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// Sync implements Backend.
func (b *NullBackend) Sync() { b.Show() }

// ShowCursor implements Backend.
func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY, b.cursorVisible = x, y, true
}

// HideCursor implements Backend.
func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

// SetCursorStyle implements Backend.
func (b *NullBackend) SetCursorStyle(style CursorStyle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorStyle = style
}

// PollEvent implements Backend.
func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventInterrupt}
	}
}

// PostEvent implements Backend. Events are dropped when the queue is full.
func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// HasTrueColor implements Backend.
func (b *NullBackend) HasTrueColor() bool { return true }

// Beep implements Backend. Bells are only counted.
func (b *NullBackend) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
}

// Beeps returns the number of bells rung.
func (b *NullBackend) Beeps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

// Cell returns the cell last written at (x, y).
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y*b.width+x]
	}
	return core.EmptyCell()
}

// Text returns row y as plain text.
func (b *NullBackend) Text(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	rs := make([]rune, 0, b.width)
	for _, c := range b.cells[y*b.width : (y+1)*b.width] {
		if c.IsContinuation() {
			continue
		}
		rs = append(rs, c.Rune)
	}
	return string(rs)
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// CursorStyleValue returns the current cursor style for testing.
func (b *NullBackend) CursorStyleValue() CursorStyle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorStyle
}

// Stats returns how many frames were shown and cells written.
func (b *NullBackend) Stats() (shows, writes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows, b.writes
}

// Resize simulates a terminal resize, clearing the screen and queueing a
// resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.allocate(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
