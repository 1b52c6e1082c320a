package backend

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/casement/internal/renderer/core"
)

// Terminal is a Backend backed by a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
	once   sync.Once
	mouse  bool

	// simSize applies the requested size to a simulation screen after Init.
	simSize func()
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithMouse enables or disables mouse reporting. Enabled by default.
func WithMouse(enabled bool) TerminalOption {
	return func(t *Terminal) { t.mouse = enabled }
}

// NewTerminal creates a terminal backend for the controlling TTY.
func NewTerminal(opts ...TerminalOption) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return newTerminal(screen, opts...), nil
}

// NewTerminalOnDevice creates a terminal backend drawing to the TTY at
// path, such as a second pseudo-terminal, instead of the controlling one.
func NewTerminalOnDevice(path string, opts ...TerminalOption) (*Terminal, error) {
	tty, err := tcell.NewDevTtyFromDev(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	if err != nil {
		return nil, fmt.Errorf("create screen on %s: %w", path, err)
	}
	return newTerminal(screen, opts...), nil
}

// NewSimulationTerminal creates a terminal backed by tcell's simulation
// screen.
func NewSimulationTerminal(width, height int) *Terminal {
	s := tcell.NewSimulationScreen("UTF-8")
	t := newTerminal(s)
	t.simSize = func() { s.SetSize(width, height) }
	return t
}

func newTerminal(screen tcell.Screen, opts ...TerminalOption) *Terminal {
	t := &Terminal{screen: screen, mouse: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init implements Backend.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if t.simSize != nil {
		t.simSize()
	}
	if t.mouse {
		t.screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents)
	}
	t.screen.EnableFocus()
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

// Shutdown implements Backend.
func (t *Terminal) Shutdown() {
	t.once.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.screen.Fini()
	})
}

// Size implements Backend.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetCell implements Backend.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setCell(x, y, cell)
}

func (t *Terminal) setCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

// SetRow implements Backend.
func (t *Terminal) SetRow(x, y int, cells []core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range cells {
		t.setCell(x+i, y, c)
	}
}

// Show implements Backend.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// Sync implements Backend.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
}

// ShowCursor implements Backend.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

// HideCursor implements Backend.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// SetCursorStyle implements Backend.
func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cs tcell.CursorStyle
	switch style {
	case CursorBlock:
		cs = tcell.CursorStyleSteadyBlock
	case CursorUnderline:
		cs = tcell.CursorStyleSteadyUnderline
	case CursorBar:
		cs = tcell.CursorStyleSteadyBar
	default:
		cs = tcell.CursorStyleDefault
	}
	t.screen.SetCursorStyle(cs)
}

// PollEvent implements Backend. It does not hold the screen lock while
// waiting; tcell serializes its own input queue.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventInterrupt}
	}
	return convertEvent(ev)
}

// PostEvent implements Backend. Only key and interrupt events are
// forwarded.
func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod)))
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// HasTrueColor implements Backend.
func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Colors() > 256
}

// Beep implements Backend.
func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.screen.Beep()
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:    EventMouse,
			MouseX:  x,
			MouseY:  y,
			Buttons: convertButtons(e.Buttons()),
			Mod:     convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

var keyMap = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyCtrlC:      KeyCtrlC,
	tcell.KeyCtrlQ:      KeyCtrlQ,
	tcell.KeyCtrlW:      KeyCtrlW,
}

func convertKey(k tcell.Key) Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	for tk, key := range keyMap {
		if key == k && tk != tcell.KeyBackspace2 {
			return tk
		}
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) ModMask {
	var mod ModMask
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	return mod
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var mod tcell.ModMask
	if m.Has(ModShift) {
		mod |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		mod |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		mod |= tcell.ModAlt
	}
	if m.Has(ModMeta) {
		mod |= tcell.ModMeta
	}
	return mod
}

func convertButtons(b tcell.ButtonMask) MouseButton {
	var out MouseButton
	if b&tcell.Button1 != 0 {
		out |= MousePrimary
	}
	if b&tcell.Button2 != 0 {
		out |= MouseSecondary
	}
	if b&tcell.Button3 != 0 {
		out |= MouseMiddle
	}
	if b&tcell.WheelUp != 0 {
		out |= MouseWheelUp
	}
	if b&tcell.WheelDown != 0 {
		out |= MouseWheelDown
	}
	return out
}
