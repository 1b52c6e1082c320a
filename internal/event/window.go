package event

import "github.com/dshills/casement/internal/renderer/core"

// Window lifecycle topics.
const (
	TopicWindowAdded     Topic = "window.added"
	TopicWindowClosed    Topic = "window.closed"
	TopicWindowActivated Topic = "window.activated"
	TopicWindowMoved     Topic = "window.moved"
	TopicWindowResized   Topic = "window.resized"
	TopicWindowMinimized Topic = "window.minimized"
	TopicWindowMaximized Topic = "window.maximized"
	TopicWindowRestored  Topic = "window.restored"
	TopicModalFlash      Topic = "window.modal.flash"

	// TopicWindowAll matches every window event.
	TopicWindowAll Topic = "window.**"
)

// WindowChange describes a change to a window.
type WindowChange struct {
	WindowID string
	Title    string
	// Rect is the window rectangle after the change and Previous the one
	// before it. They are equal for changes that do not move the window.
	Rect     core.ScreenRect
	Previous core.ScreenRect
	// BlockedID names the window whose activation was refused, for modal
	// flash events.
	BlockedID string
}

// WindowEvent is published by the compositor.
type WindowEvent = Event[WindowChange]
