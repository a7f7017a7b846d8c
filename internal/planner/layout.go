package planner

import (
	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/gesture"
)

// Primitive is one positioned event, ready to paint.
type Primitive struct {
	Ref   callback.Ref
	Kind  board.Kind
	Label string
	Color string
	Icon  string

	// Bounds is the painted position, including an in-flight gesture.
	Bounds constraint.Bounds
	X      float64
	Width  float64
	// Offset is the gesture feedback in pixels; zero when idle.
	Offset float64
	State  gesture.State

	StartHandle bool
	EndHandle   bool
	HandleWidth float64
}

// Contains reports whether x falls on the primitive.
func (p Primitive) Contains(x float64) bool {
	return x >= p.X && x < p.X+p.Width
}

// Target returns the part of the primitive under x.
func (p Primitive) Target(x float64) gesture.Target {
	if p.StartHandle && x < p.X+p.HandleWidth {
		return gesture.TargetStartHandle
	}
	if p.EndHandle && x >= p.X+p.Width-p.HandleWidth {
		return gesture.TargetEndHandle
	}
	return gesture.TargetBody
}

// Layout returns the primitives of row i in paint order.
func (p *Planner) Layout(rowIndex int) []Primitive {
	if rowIndex < 0 || rowIndex >= len(p.rows) {
		return nil
	}
	refs := p.rows[rowIndex].refs
	out := make([]Primitive, 0, len(refs))
	for _, ref := range refs {
		if c, ok := p.controllers[ref]; ok {
			out = append(out, p.primitive(c))
		}
	}
	return out
}

func (p *Planner) primitive(c *Controller) Primitive {
	ev := c.Event()
	pos := c.Preview()
	prim := Primitive{
		Ref:         c.ref,
		Kind:        ev.EventKind(),
		Label:       ev.Title(),
		Color:       ev.Color,
		Icon:        ev.Icon,
		Bounds:      pos,
		X:           p.mapper.ToPixels(pos.Start),
		State:       c.State(),
		HandleWidth: p.handleWidth,
	}
	if s, ok := c.machine.Snapshot(); ok {
		prim.Offset = s.Offset
	}

	switch prim.Kind {
	case board.KindMilestone:
		prim.Width = p.markerWidth
	case board.KindSpan:
		switch p.cfg.Mode {
		case axis.ModeSingle:
			prim.Width = p.mapper.SlotWidth()
		default:
			prim.Width = p.mapper.ToPixels(pos.End) - prim.X
		}
		if c.Resizable() {
			prim.StartHandle, prim.EndHandle = handles(prim.Width, p.handleWidth)
		}
	}
	return prim
}

// handles decides which resize strips fit. An event too narrow for two
// strips and a body keeps only the end strip.
func handles(width, hw float64) (start, end bool) {
	if width <= 0 {
		return false, false
	}
	if width >= 2*hw+1 {
		return true, true
	}
	return false, true
}

// HitTest returns the event and target under x in row i. Later events in
// a row paint over earlier ones and win.
func (p *Planner) HitTest(rowIndex int, x float64) (Hit, bool) {
	prims := p.Layout(rowIndex)
	for i := len(prims) - 1; i >= 0; i-- {
		if prims[i].Contains(x) {
			return Hit{Ref: prims[i].Ref, Target: prims[i].Target(x)}, true
		}
	}
	return Hit{}, false
}
