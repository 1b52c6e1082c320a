package compositor

import (
	"time"

	"github.com/dshills/casement/internal/event"
	"github.com/dshills/casement/internal/window"
)

// modalChildren returns the registered modal windows whose parent is w,
// oldest first.
func (c *Compositor) modalChildren(w *window.Window) []*window.Window {
	var out []*window.Window
	for _, m := range c.modals {
		if m.Parent() == w {
			out = append(out, m)
		}
	}
	return out
}

// BlockingModal returns the modal window that receives activation requests
// for w, or nil when w is not blocked. The chain of modal children is
// followed to its end, preferring at each level the child that is active or
// leads to the active window, then the most recently shown one.
func (c *Compositor) BlockingModal(w *window.Window) *window.Window {
	target := w
	for {
		kids := c.modalChildren(target)
		if len(kids) == 0 {
			break
		}
		next := kids[len(kids)-1]
		for _, k := range kids {
			if c.active != nil && (k == c.active || c.active.IsDescendantOf(k)) {
				next = k
				break
			}
		}
		target = next
	}
	if target == w {
		return nil
	}
	return target
}

// Activate makes w the active window. If a modal descendant blocks w, the
// modal is activated instead and the flash cue runs; w itself is not
// activated. Focus is cleared in every other window.
func (c *Compositor) Activate(w *window.Window) {
	if !c.Contains(w) {
		return
	}
	if m := c.BlockingModal(w); m != nil {
		flashed := w
		if c.opts.Flash.Target == FlashModal {
			flashed = m
		}
		c.startFlash(flashed)
		c.publishChange(event.TopicModalFlash, event.WindowChange{
			WindowID:  flashed.ID(),
			Title:     flashed.Title(),
			Rect:      flashed.Rect(),
			Previous:  flashed.Rect(),
			BlockedID: w.ID(),
		})
		w = m
	}
	if w.State() == window.StateMinimized {
		c.Restore(w)
	}

	if c.active != w {
		if c.active != nil {
			c.active.SetActive(false)
		}
		c.active = w
		w.SetActive(true)
		c.publish(event.TopicWindowActivated, w, w.Rect())
	}
	c.BringToFront(w)
	for _, o := range c.windows {
		if o != w {
			o.ClearFocus()
		}
	}
}

// Deactivate clears the active window.
func (c *Compositor) Deactivate() {
	if c.active == nil {
		return
	}
	c.active.SetActive(false)
	c.active.ClearFocus()
	c.active = nil
}

// activateNext activates the topmost visible window other than skip.
func (c *Compositor) activateNext(skip *window.Window) {
	for i := len(c.windows) - 1; i >= 0; i-- {
		if o := c.windows[i]; o != skip && o.IsVisible() {
			c.Activate(o)
			return
		}
	}
	c.active = nil
}

// CycleActive activates the next visible window below the active one,
// wrapping to the top. Modal blocking applies as for Activate.
func (c *Compositor) CycleActive() {
	var vis []*window.Window
	for _, w := range c.windows {
		if w.IsVisible() {
			vis = append(vis, w)
		}
	}
	if len(vis) < 2 {
		return
	}
	idx := len(vis) - 1
	for i, w := range vis {
		if w == c.active {
			idx = i
		}
	}
	// The active window sits on top, so the bottom-most visible window is
	// the next one in rotation.
	next := vis[0]
	if idx != len(vis)-1 {
		next = vis[(idx+1)%len(vis)]
	}
	c.Activate(next)
}

type flash struct {
	start time.Time
}

// startFlash begins the attention cue on w. A window already flashing is
// left alone.
func (c *Compositor) startFlash(w *window.Window) {
	if _, ok := c.flashes[w]; ok {
		return
	}
	c.flashes[w] = &flash{start: c.now()}
	w.SetFlash(true, c.opts.Flash.Color)
	c.log.Debug("flash %s", w.ID())
}

// IsFlashing reports whether w has a flash in progress.
func (c *Compositor) IsFlashing(w *window.Window) bool {
	_, ok := c.flashes[w]
	return ok
}

// HasPendingTicks reports whether Tick still has work to do.
func (c *Compositor) HasPendingTicks() bool { return len(c.flashes) > 0 }

// Tick advances time-based effects to now. The flash alternates the
// window background in equal phases and ends with the original color.
func (c *Compositor) Tick(now time.Time) {
	opts := c.opts.Flash
	phase := opts.Duration / time.Duration(opts.Toggles)
	if phase <= 0 {
		phase = time.Millisecond
	}
	for w, f := range c.flashes {
		step := int(now.Sub(f.start) / phase)
		if step >= opts.Toggles || !c.Contains(w) {
			w.SetFlash(false, opts.Color)
			delete(c.flashes, w)
			continue
		}
		w.SetFlash(step%2 == 0, opts.Color)
	}
}
