package planner

import (
	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/gesture"
	"github.com/Iron-Ham/planboard/internal/logging"
	"github.com/Iron-Ham/planboard/internal/reconcile"
)

// Controller is the interaction engine for one event.
type Controller struct {
	ref      callback.Ref
	event    board.Event
	rec      *reconcile.Reconciler
	machine  *gesture.Machine
	dispatch *callback.Dispatcher
}

type controllerOptions struct {
	mapper         axis.Mapper
	queue          *callback.Queue
	callbacks      *callback.Callbacks
	clickThreshold float64
	logger         *logging.Logger
}

func newController(ref callback.Ref, ev board.Event, opts controllerOptions) *Controller {
	d := callback.NewDispatcher(ref, opts.queue, opts.logger)
	d.SetCallbacks(opts.callbacks)

	rec := reconcile.New(ev.Bounds(), reconcile.Options{
		MinSize:    opts.mapper.Config().MinSize(),
		Milestone:  ev.IsMilestone(),
		Dispatcher: d,
		Logger:     opts.logger,
	})
	m := gesture.New(gesture.Options{
		Mapper:         opts.mapper,
		Reconciler:     rec,
		Dispatcher:     d,
		ClickThreshold: opts.clickThreshold,
		Logger:         opts.logger,
	})
	return &Controller{ref: ref, event: ev, rec: rec, machine: m, dispatch: d}
}

// Ref returns the event's row and event IDs.
func (c *Controller) Ref() callback.Ref { return c.ref }

// Event returns the last synced event data. Start and End are the
// authoritative values; see Local for the painted position.
func (c *Controller) Event() board.Event { return c.event }

// Local returns the painted position without any in-flight gesture.
func (c *Controller) Local() constraint.Bounds { return c.rec.Local() }

// Preview returns the painted position including an in-flight gesture.
func (c *Controller) Preview() constraint.Bounds { return c.machine.Preview() }

// State returns the gesture state.
func (c *Controller) State() gesture.State { return c.machine.State() }

// Resizable reports whether the event exposes resize handles.
func (c *Controller) Resizable() bool { return c.machine.Resizable() }

// sync feeds the external event, reporting whether the painted position
// changed.
func (c *Controller) sync(ev board.Event) bool {
	c.event = ev
	return c.rec.Sync(ev.Bounds())
}

func (c *Controller) setMapper(m axis.Mapper) {
	c.machine.SetMapper(m)
	c.rec.SetMinSize(m.Config().MinSize())
}
