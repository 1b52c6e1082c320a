package app

import (
	"github.com/dshills/casement/internal/event"
)

// subscribe wires the application to the compositor's window events:
// lifecycle changes are logged and a refused activation rings the bell.
func (app *Application) subscribe() error {
	bus := app.comp.Bus()
	log := app.logger.WithComponent("windows")

	lifecycle, err := bus.Subscribe(event.TopicWindowAll, event.Typed(func(ev event.WindowEvent) error {
		p := ev.Payload
		log.WithField("id", p.WindowID).Debug("%s %q %v", ev.Type, p.Title, p.Rect)
		return nil
	}), event.WithPriority(event.PriorityLow))
	if err != nil {
		return err
	}
	app.subs = append(app.subs, lifecycle)

	flash, err := bus.Subscribe(event.TopicModalFlash, event.Typed(func(ev event.WindowEvent) error {
		app.backend.Beep()
		return nil
	}))
	if err != nil {
		app.unsubscribe()
		return err
	}
	app.subs = append(app.subs, flash)
	return nil
}

func (app *Application) unsubscribe() {
	for _, sub := range app.subs {
		_ = sub.Unsubscribe()
	}
	app.subs = nil
}
