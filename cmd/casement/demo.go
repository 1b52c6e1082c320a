package main

import (
	"fmt"

	"github.com/dshills/casement/internal/app"
	"github.com/dshills/casement/internal/compositor"
	"github.com/dshills/casement/internal/controls"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

var demoFiles = []string{
	"README.md", "go.mod", "go.sum", "cmd/", "internal/app/", "internal/compositor/",
	"internal/config/", "internal/controls/", "internal/event/", "internal/renderer/",
	"internal/window/", "DESIGN.md", "LICENSE",
}

// buildDesktop populates the desktop with a handful of windows that
// exercise layout, focus, scrolling, tabs and modal dialogs.
func buildDesktop(a *app.Application) {
	comp := a.Compositor()
	status := controls.NewLabel("Select a file")

	header := controls.NewLabel("Name")
	header.SetProps(layout.Props{Sticky: layout.StickyTop})
	files := controls.NewList(demoFiles...)
	files.OnSelect = func(_ *window.Context, i int) {
		status.SetText(fmt.Sprintf("Opened %s", demoFiles[i]))
	}
	browser := a.NewWindow(window.Config{Title: "Files", Rect: core.RectFromSize(1, 2, 12, 28)})
	browser.AddControl(header)
	browser.AddControl(files)
	comp.AddWindow(browser)

	form := a.NewWindow(window.Config{Title: "Settings", Rect: core.RectFromSize(3, 32, 13, 40)})
	name := controls.NewInput()
	theme := controls.NewDropdown("dark", "light", "solarized")
	theme.OnChange = func(i int) {
		status.SetText(fmt.Sprintf("Theme %d selected", i))
	}
	save := controls.NewButton("Save", func(*window.Context) {
		status.SetText(fmt.Sprintf("Saved %q", name.Text()))
	})
	open := controls.NewButton("Open dialog", func(ctx *window.Context) {
		openDialog(a, ctx.Window)
	})
	form.AddControl(controls.NewStack(1,
		controls.NewLabel("Name"),
		name,
		controls.NewLabel("Theme"),
		theme,
		controls.NewFlow(2, save, open),
		status,
	))
	comp.AddWindow(form)

	tabs := controls.NewTabs()
	tabs.AddTab("About", controls.NewLabel("casement: windows in a terminal"))
	tabs.AddTab("Keys", controls.NewStack(0,
		controls.NewLabel("Tab      next control"),
		controls.NewLabel("F6       next window"),
		controls.NewLabel("Ctrl+W   close window"),
		controls.NewLabel("Ctrl+Q   quit"),
	))
	help := a.NewWindow(window.Config{Title: "Help", Rect: core.RectFromSize(14, 4, 8, 36)})
	help.AddControl(tabs)
	comp.AddWindow(help, compositor.WithoutActivation())

	clock := a.NewWindow(window.Config{
		Title:       "Pinned",
		Rect:        core.RectFromSize(0, 60, 4, 18),
		AlwaysOnTop: true,
		Caps:        window.CanMove | window.CanClose,
	})
	clock.AddControl(controls.NewLabel("always on top"))
	comp.AddWindow(clock, compositor.WithoutActivation())
}

// openDialog shows a modal child of parent.
func openDialog(a *app.Application, parent *window.Window) {
	comp := a.Compositor()
	pr := parent.Rect()
	dialog := a.NewWindow(window.Config{
		Title:  "Confirm",
		Rect:   core.RectFromSize(pr.Top+3, pr.Left+5, 6, 30),
		Mode:   window.ModeModal,
		Parent: parent,
		Caps:   window.CanMove | window.CanClose,
	})
	dialog.AddControl(controls.NewStack(1,
		controls.NewLabel("Close this dialog?"),
		controls.NewButton("Close", func(*window.Context) {
			comp.CloseWindow(dialog)
		}),
	))
	comp.AddWindow(dialog)
}
