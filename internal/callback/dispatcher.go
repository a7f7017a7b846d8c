package callback

import (
	"fmt"
	"sync"

	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/logging"
)

// Dispatcher sends notifications for one event to the host callbacks.
//
// Every Notify method logs synchronously and defers the callback onto the
// queue. The callbacks in effect at notify time are the ones invoked.
type Dispatcher struct {
	ref       Ref
	queue     *Queue
	callbacks *Callbacks
	logger    *logging.Logger
	mu        sync.RWMutex
}

// NewDispatcher creates a Dispatcher for ref. The logger is optional.
func NewDispatcher(ref Ref, queue *Queue, logger *logging.Logger) *Dispatcher {
	if queue == nil {
		queue = NewQueue(logger)
	}
	return &Dispatcher{
		ref:    ref,
		queue:  queue,
		logger: logging.OrNop(logger).WithComponent("callback-dispatcher").With("row_id", ref.RowID).WithEvent(ref.EventID),
	}
}

// Ref returns the event this dispatcher reports on.
func (d *Dispatcher) Ref() Ref {
	return d.ref
}

// Queue returns the queue notifications are deferred onto.
func (d *Dispatcher) Queue() *Queue {
	return d.queue
}

// SetCallbacks sets or replaces the host callbacks.
func (d *Dispatcher) SetCallbacks(cb *Callbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = cb
}

// GetCallbacks returns the current callbacks, or nil.
func (d *Dispatcher) GetCallbacks() *Callbacks {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.callbacks
}

// Actions returns the secondary actions available for this event.
func (d *Dispatcher) Actions() []Action {
	return d.GetCallbacks().Actions()
}

// NotifyClick reports a click.
func (d *Dispatcher) NotifyClick() {
	d.logger.Debug("click")

	if cb := d.GetCallbacks(); cb != nil && cb.OnClick != nil {
		ref, fn := d.ref, cb.OnClick
		d.queue.Defer(func() { fn(ref) })
	}
}

// NotifyDoubleClick reports a double click.
func (d *Dispatcher) NotifyDoubleClick() {
	d.logger.Debug("double click")

	if cb := d.GetCallbacks(); cb != nil && cb.OnDoubleClick != nil {
		ref, fn := d.ref, cb.OnDoubleClick
		d.queue.Defer(func() { fn(ref) })
	}
}

// NotifyDrag reports a committed drag.
func (d *Dispatcher) NotifyDrag(prev, next constraint.Bounds) {
	d.logger.Info("drag committed",
		"prev_start", prev.Start,
		"prev_end", prev.End,
		"start", next.Start,
		"end", next.End,
	)

	if cb := d.GetCallbacks(); cb != nil && cb.OnDrag != nil {
		ref, fn := d.ref, cb.OnDrag
		d.queue.Defer(func() { fn(ref, prev.Start, prev.End, next.Start, next.End) })
	}
}

// NotifyResize reports a committed resize of edge.
func (d *Dispatcher) NotifyResize(prev, next constraint.Bounds, edge constraint.Edge) {
	d.logger.Info("resize committed",
		"edge", edge.String(),
		"prev_start", prev.Start,
		"prev_end", prev.End,
		"start", next.Start,
		"end", next.End,
	)

	if cb := d.GetCallbacks(); cb != nil && cb.OnResize != nil {
		ref, fn, name := d.ref, cb.OnResize, edge.String()
		d.queue.Defer(func() { fn(ref, prev.Start, prev.End, next.Start, next.End, name) })
	}
}

// NotifyPositionChange reports a new painted position.
func (d *Dispatcher) NotifyPositionChange(pos constraint.Bounds) {
	d.logger.Debug("position changed", "start", pos.Start, "end", pos.End)

	if cb := d.GetCallbacks(); cb != nil && cb.OnPositionChange != nil {
		ref, fn := d.ref, cb.OnPositionChange
		d.queue.Defer(func() { fn(ref, pos.Start, pos.End) })
	}
}

// NotifyAction reports a chosen secondary action. It returns false when the
// host does not support the action.
func (d *Dispatcher) NotifyAction(a Action) bool {
	cb := d.GetCallbacks()
	var fn func(Ref)
	switch a {
	case ActionEdit:
		if cb != nil {
			fn = cb.OnEdit
		}
	case ActionDelete:
		if cb != nil {
			fn = cb.OnDelete
		}
	}
	if fn == nil {
		d.logger.Debug("secondary action not supported", "action", a.String())
		return false
	}

	d.logger.Info("secondary action", "action", a.String())
	ref := d.ref
	d.queue.Defer(func() { fn(ref) })
	return true
}

// Popover renders the host popover for this event. A panicking renderer
// yields no content and is logged.
func (d *Dispatcher) Popover() (string, bool) {
	cb := d.GetCallbacks()
	if cb == nil || cb.RenderPopover == nil {
		return "", false
	}
	ref, fn := d.ref, cb.RenderPopover
	return SafeRender(func() string {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Warn("popover renderer panicked", "panic", fmt.Sprint(r))
				panic(r)
			}
		}()
		return fn(ref)
	})
}
