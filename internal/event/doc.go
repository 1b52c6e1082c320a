// Package event is a small synchronous publish/subscribe bus used to report
// window lifecycle changes to observers.
//
// Events carry a dot-separated topic such as "window.moved". Subscriptions
// name a topic pattern in which "*" matches exactly one segment and "**"
// matches any number of segments:
//
//	window.*        every window event
//	window.modal.** flash and other modal notifications
//
// Delivery happens on the publisher's goroutine, in priority order and then
// subscription order. A handler that panics is recovered and counted; the
// remaining handlers still run. Subscriptions are cancelled through the
// handle returned by Subscribe.
package event
