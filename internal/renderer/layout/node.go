// Package layout implements the retained layout tree: a two-pass
// measure/arrange protocol over Nodes with pluggable arrangement strategies,
// followed by a clipped paint walk.
//
// Measure flows bottom-up and is cached until a node's measure is
// invalidated. Arrange flows top-down and assigns each node a local
// rectangle relative to its parent; absolute bounds are the parent's
// absolute bounds offset by that rectangle. Portal children are arranged in
// the owner's coordinate space and painted after all ordinary content with
// the owner's incoming clip.
package layout

import (
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
)

// Align positions a child inside the space allotted to it.
type Align uint8

// Alignments.
const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignFill
)

// Sticky classifies children of a StickyScroll node.
type Sticky uint8

// Sticky classifications.
const (
	StickyNone Sticky = iota
	StickyTop
	StickyBottom
)

// Props are the per-node layout properties.
type Props struct {
	// Width and Height override the measured size when positive.
	Width, Height int
	// Flex is the share factor in a HorizontalFlow. Zero means the child
	// takes its natural width.
	Flex   int
	VAlign Align
	HAlign Align
	Sticky Sticky
}

// Invalidation identifies the pass that must be rerun.
type Invalidation uint8

// Invalidation kinds.
const (
	InvalidPaint Invalidation = iota
	InvalidArrange
	InvalidMeasure
)

// Invalidator is notified when a node in its tree is invalidated.
type Invalidator interface {
	Invalidate(n *Node, kind Invalidation)
}

// Node is one element of the layout tree.
type Node struct {
	control  any
	strategy Strategy
	parent   *Node
	children []*Node
	portals  []*Node

	props   Props
	visible bool

	desired   core.Size
	lastC     core.Constraints
	measured  bool
	local     core.ScreenRect
	abs       core.ScreenRect
	portalAt  core.ScreenRect
	isPortal  bool
	inv       Invalidator
	needsMeas bool
	needsArr  bool
	needsPnt  bool
}

// NewNode creates a visible node for control. The strategy may be nil for
// leaves; props are taken from the control when it provides them.
func NewNode(control any, strategy Strategy) *Node {
	n := &Node{
		control:   control,
		strategy:  strategy,
		visible:   true,
		needsMeas: true,
		needsArr:  true,
		needsPnt:  true,
	}
	if pp, ok := control.(PropsProvider); ok {
		n.props = pp.LayoutProps()
	}
	if a, ok := control.(Attachable); ok {
		a.Attach(n)
	}
	return n
}

// Control returns the attached control, or nil.
func (n *Node) Control() any { return n.control }

// Strategy returns the arrangement strategy, or nil.
func (n *Node) Strategy() Strategy { return n.strategy }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordinary children.
func (n *Node) Children() []*Node { return n.children }

// Portals returns the portal children.
func (n *Node) Portals() []*Node { return n.portals }

// Props returns the layout properties.
func (n *Node) Props() Props { return n.props }

// Visible reports whether the node takes part in layout.
func (n *Node) Visible() bool { return n.visible }

// DesiredSize returns the result of the last Measure.
func (n *Node) DesiredSize() core.Size { return n.desired }

// Bounds returns the rectangle relative to the parent.
func (n *Node) Bounds() core.ScreenRect { return n.local }

// AbsoluteBounds returns the rectangle in buffer coordinates.
func (n *Node) AbsoluteBounds() core.ScreenRect { return n.abs }

// NeedsMeasure reports whether the cached measure is stale.
func (n *Node) NeedsMeasure() bool { return n.needsMeas }

// NeedsArrange reports whether bounds are stale.
func (n *Node) NeedsArrange() bool { return n.needsArr }

// NeedsPaint reports whether the node must be repainted.
func (n *Node) NeedsPaint() bool { return n.needsPnt }

// SetInvalidator installs the receiver for invalidation notices. Nodes
// without one defer to their nearest ancestor's.
func (n *Node) SetInvalidator(inv Invalidator) { n.inv = inv }

// Root returns the top of the tree.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func (n *Node) notify(kind Invalidation) {
	for p := n; p != nil; p = p.parent {
		if p.inv != nil {
			p.inv.Invalidate(n, kind)
			return
		}
	}
}

// AddChild appends child and invalidates measure.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.detach()
	child.parent = n
	n.children = append(n.children, child)
	n.InvalidateMeasure()
}

// RemoveChild detaches child. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			n.InvalidateMeasure()
			return true
		}
	}
	return false
}

// ClearChildren detaches every ordinary child.
func (n *Node) ClearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.InvalidateMeasure()
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	if n.isPortal {
		n.parent.RemovePortal(n)
		return
	}
	n.parent.RemoveChild(n)
}

// AddPortal attaches p as a portal child occupying rect, given in this
// node's local coordinate space. p is measured tightly to rect.
func (n *Node) AddPortal(p *Node, rect core.ScreenRect) {
	if p == nil {
		return
	}
	p.detach()
	p.parent = n
	p.isPortal = true
	p.portalAt = rect
	n.portals = append(n.portals, p)
	n.InvalidateArrange()
}

// MovePortal updates the rectangle of an existing portal.
func (n *Node) MovePortal(p *Node, rect core.ScreenRect) {
	if p == nil || p.parent != n || !p.isPortal || p.portalAt == rect {
		return
	}
	p.portalAt = rect
	n.InvalidateArrange()
}

// RemovePortal detaches a portal child.
func (n *Node) RemovePortal(p *Node) bool {
	for i, c := range n.portals {
		if c == p {
			n.portals = append(n.portals[:i], n.portals[i+1:]...)
			p.parent = nil
			p.isPortal = false
			n.InvalidateArrange()
			return true
		}
	}
	return false
}

// SetProps replaces the layout properties.
func (n *Node) SetProps(p Props) {
	if n.props == p {
		return
	}
	n.props = p
	n.InvalidateMeasure()
}

// SetVisible shows or hides the node.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	n.InvalidateMeasure()
}

// InvalidateMeasure marks this node and every ancestor for re-measure.
func (n *Node) InvalidateMeasure() {
	for p := n; p != nil; p = p.parent {
		p.needsMeas = true
		p.needsArr = true
		p.needsPnt = true
	}
	n.notify(InvalidMeasure)
}

// InvalidateArrange marks this node and every descendant for re-arrange.
func (n *Node) InvalidateArrange() {
	n.markArrange()
	n.notify(InvalidArrange)
}

func (n *Node) markArrange() {
	n.needsArr = true
	n.needsPnt = true
	for _, c := range n.children {
		c.markArrange()
	}
	for _, c := range n.portals {
		c.markArrange()
	}
}

// InvalidatePaint marks only this node for repaint.
func (n *Node) InvalidatePaint() {
	n.needsPnt = true
	n.notify(InvalidPaint)
}

func (n *Node) hasLayoutChildren() bool {
	return len(n.children) > 0 || n.strategy != nil
}

func (n *Node) layoutStrategy() Strategy {
	if n.strategy != nil {
		return n.strategy
	}
	return defaultStrategy
}

// Measure computes the desired size under c. The result always satisfies c.
func (n *Node) Measure(c core.Constraints) core.Size {
	c = c.Normalize()
	if !n.visible {
		n.desired = core.Size{}
		n.needsMeas = false
		return n.desired
	}
	if n.measured && !n.needsMeas && c == n.lastC {
		return n.desired
	}

	inner := c
	if n.props.Width > 0 {
		w := core.Clamp(n.props.Width, c.MinWidth, c.MaxWidth)
		inner.MinWidth, inner.MaxWidth = w, w
	}
	if n.props.Height > 0 {
		h := core.Clamp(n.props.Height, c.MinHeight, c.MaxHeight)
		inner.MinHeight, inner.MaxHeight = h, h
	}

	var s core.Size
	switch {
	case n.hasLayoutChildren():
		s = n.layoutStrategy().Measure(n, inner)
	case n.control != nil:
		m, ok := n.control.(Measurer)
		if !ok {
			panic(&ContractError{Op: "measure", Control: n.control})
		}
		s = m.Measure(inner)
	}

	n.desired = inner.Constrain(s)
	n.lastC = c
	n.measured = true
	n.needsMeas = false
	return n.desired
}

// Arrange assigns the node its rectangle relative to the parent and
// arranges the children.
func (n *Node) Arrange(local core.ScreenRect) {
	n.local = local
	if n.parent != nil {
		n.abs = local.Offset(n.parent.abs.Left, n.parent.abs.Top)
	} else {
		n.abs = local
	}
	if n.visible && n.hasLayoutChildren() {
		n.layoutStrategy().Arrange(n, core.RectFromSize(0, 0, local.Height(), local.Width()))
	}
	for _, p := range n.portals {
		p.Measure(core.Tight(p.portalAt.Size()))
		p.Arrange(p.portalAt)
	}
	n.needsArr = false
	n.needsPnt = true
}

// collapse arranges the node and its subtree to an empty rectangle at the
// given local position.
func (n *Node) collapse(top, left int) {
	n.Arrange(core.RectFromSize(top, left, 0, 0))
}

// Paint draws the subtree into buf. Each node paints within its absolute
// bounds intersected with clip; children inherit that intersection while
// portals receive clip unchanged.
func (n *Node) Paint(buf *cellbuf.Buffer, clip core.ScreenRect, fg, bg core.Color) {
	if !n.visible {
		n.needsPnt = false
		return
	}
	inter := n.abs.Intersection(clip)
	if !inter.IsEmpty() {
		if p, ok := n.control.(Painter); ok {
			p.Paint(&PaintContext{
				Canvas: buf.Canvas(inter),
				Bounds: n.abs,
				Clip:   inter,
				Fg:     fg,
				Bg:     bg,
				Node:   n,
			})
		} else if n.control != nil && !n.hasLayoutChildren() {
			panic(&ContractError{Op: "paint", Control: n.control})
		}
		cc, clips := n.strategy.(ChildClipper)
		for _, c := range n.children {
			childClip := inter
			if clips {
				childClip = cc.ChildClip(n, c, inter)
			}
			c.Paint(buf, childClip, fg, bg)
		}
	}
	n.needsPnt = false
	for _, p := range n.portals {
		p.Paint(buf, clip, fg, bg)
	}
}

// Find returns the node attached to control within the subtree.
func (n *Node) Find(control any) *Node {
	if control == nil {
		return nil
	}
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.control == control {
			found = c
			return false
		}
		return true
	})
	return found
}

// Walk visits the subtree depth-first, ordinary children before portals.
// Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	for _, c := range n.portals {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// HitTest returns the deepest visible node containing (x, y) in buffer
// coordinates. Portals are tested before ordinary content, and children are
// only hit inside the area their parent would let them paint.
func (n *Node) HitTest(x, y int) *Node {
	return n.hitTest(x, y, n.abs)
}

func (n *Node) hitTest(x, y int, clip core.ScreenRect) *Node {
	if !n.visible {
		return nil
	}
	for i := len(n.portals) - 1; i >= 0; i-- {
		p := n.portals[i]
		if hit := p.hitTest(x, y, p.abs); hit != nil {
			return hit
		}
	}
	inter := n.abs.Intersection(clip)
	if !inter.ContainsPoint(x, y) {
		return nil
	}
	cc, clips := n.strategy.(ChildClipper)
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		childClip := inter
		if clips {
			childClip = cc.ChildClip(n, c, inter)
		}
		if hit := c.hitTest(x, y, childClip); hit != nil {
			return hit
		}
	}
	return n
}
