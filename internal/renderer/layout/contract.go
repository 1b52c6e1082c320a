package layout

import (
	"fmt"

	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
)

// Measurer is implemented by controls that can report a desired size.
type Measurer interface {
	Measure(c core.Constraints) core.Size
}

// Painter is implemented by controls that draw themselves.
type Painter interface {
	Paint(ctx *PaintContext)
}

// Container is implemented by controls whose children participate in the
// shared layout tree. The strategy is called for every node built from the
// control, so it must be the same instance on each call.
type Container interface {
	LayoutStrategy() Strategy
	LayoutChildren() []any
}

// Attachable controls receive the node built for them, which is their
// handle for invalidation.
type Attachable interface {
	Attach(n *Node)
}

// PropsProvider controls supply their own layout properties.
type PropsProvider interface {
	LayoutProps() Props
}

// PaintContext carries everything a control needs to draw itself.
type PaintContext struct {
	// Canvas is already clipped to Clip.
	Canvas cellbuf.Canvas
	// Bounds is the control's absolute rectangle in buffer coordinates.
	Bounds core.ScreenRect
	// Clip is Bounds intersected with the incoming clip.
	Clip core.ScreenRect
	// Fg and Bg are the inherited default colors.
	Fg, Bg core.Color
	Node   *Node
}

// Style returns the default style for the context colors.
func (ctx *PaintContext) Style() core.Style {
	return core.NewStyle(ctx.Fg, ctx.Bg)
}

// ContractError reports a control that cannot take part in layout.
// It is raised with panic since it is a programming error.
type ContractError struct {
	Op      string
	Control any
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("layout: %T cannot %s: missing %s implementation", e.Control, e.Op, contractIface(e.Op))
}

func contractIface(op string) string {
	switch op {
	case "measure":
		return "Measurer"
	case "paint":
		return "Painter"
	default:
		return op
	}
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func(n *Node, kind Invalidation)

// Invalidate implements Invalidator.
func (f InvalidatorFunc) Invalidate(n *Node, kind Invalidation) { f(n, kind) }

// Build creates the layout subtree for control. Containers are expanded
// recursively; every other control becomes a leaf, including controls that
// manage and paint their own children.
func Build(control any) *Node {
	ct, ok := control.(Container)
	if !ok {
		return NewNode(control, nil)
	}
	n := NewNode(control, ct.LayoutStrategy())
	for _, child := range ct.LayoutChildren() {
		n.AddChild(Build(child))
	}
	return n
}
