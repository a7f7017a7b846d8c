package planner

import (
	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/event"
	"github.com/Iron-Ham/planboard/internal/gesture"
	"github.com/Iron-Ham/planboard/internal/logging"
)

// Default geometry, in pixels.
const (
	DefaultHandleWidth = 1.0
	DefaultMarkerWidth = 1.0
)

// Options configures a Planner.
type Options struct {
	Board      *board.Board
	PixelWidth float64
	// ClickThreshold is the gesture jitter tolerance in pixels. Zero
	// means gesture.DefaultClickThreshold.
	ClickThreshold float64
	// HandleWidth is the width of each resize strip. Zero means
	// DefaultHandleWidth.
	HandleWidth float64
	// MarkerWidth is the painted width of a milestone. Zero means
	// DefaultMarkerWidth.
	MarkerWidth float64
	// Queue receives every deferred host callback. When nil the planner
	// creates its own; drain it with Drain.
	Queue     *callback.Queue
	Callbacks *callback.Callbacks
	// Bus receives domain events after the host callbacks run. Optional.
	Bus    *event.Bus
	Logger *logging.Logger
}

// Hit is the result of a hit test.
type Hit struct {
	Ref    callback.Ref
	Target gesture.Target
}

// Result is returned from PointerUp.
type Result struct {
	Ref     callback.Ref
	Outcome gesture.Outcome
}

type row struct {
	id    string
	title string
	refs  []callback.Ref
}

// Planner lays out a board and routes pointer input to per-event
// controllers. It is not safe for concurrent use.
type Planner struct {
	cfg    axis.Config
	mapper axis.Mapper

	rows        []row
	controllers map[callback.Ref]*Controller
	captured    *Controller

	clickThreshold float64
	handleWidth    float64
	markerWidth    float64

	queue     *callback.Queue
	callbacks *callback.Callbacks
	bus       *event.Bus
	logger    *logging.Logger
}

// New creates a Planner for opts.Board.
func New(opts Options) *Planner {
	logger := logging.OrNop(opts.Logger)
	queue := opts.Queue
	if queue == nil {
		queue = callback.NewQueue(logger)
	}
	p := &Planner{
		controllers:    make(map[callback.Ref]*Controller),
		clickThreshold: opts.ClickThreshold,
		handleWidth:    opts.HandleWidth,
		markerWidth:    opts.MarkerWidth,
		queue:          queue,
		bus:            opts.Bus,
		logger:         logger.WithComponent("planner"),
	}
	if p.handleWidth <= 0 {
		p.handleWidth = DefaultHandleWidth
	}
	if p.markerWidth <= 0 {
		p.markerWidth = DefaultMarkerWidth
	}
	p.callbacks = p.wrap(opts.Callbacks)

	b := opts.Board
	if b == nil {
		b = &board.Board{}
	}
	p.cfg = b.AxisConfig(opts.PixelWidth)
	p.mapper = axis.New(p.cfg)
	p.Sync(b)
	return p
}

// Queue returns the callback queue.
func (p *Planner) Queue() *callback.Queue { return p.queue }

// Drain runs the deferred host callbacks. The host calls it from its event
// loop after each pointer handler returns.
func (p *Planner) Drain() int { return p.queue.Drain() }

// Mapper returns the current axis mapper.
func (p *Planner) Mapper() axis.Mapper { return p.mapper }

// RowCount returns the number of rows.
func (p *Planner) RowCount() int { return len(p.rows) }

// RowTitle returns the title of row i, falling back to its ID.
func (p *Planner) RowTitle(i int) string {
	if i < 0 || i >= len(p.rows) {
		return ""
	}
	if p.rows[i].title != "" {
		return p.rows[i].title
	}
	return p.rows[i].id
}

// Controller returns the controller for ref.
func (p *Planner) Controller(ref callback.Ref) (*Controller, bool) {
	c, ok := p.controllers[ref]
	return c, ok
}

// Captured returns the event holding pointer capture, if any.
func (p *Planner) Captured() (callback.Ref, bool) {
	if p.captured == nil {
		return callback.Ref{}, false
	}
	return p.captured.ref, true
}

// SetCallbacks replaces the host callbacks on every controller.
func (p *Planner) SetCallbacks(cb *callback.Callbacks) {
	p.callbacks = p.wrap(cb)
	for _, c := range p.controllers {
		c.dispatch.SetCallbacks(p.callbacks)
	}
}

// SetPixelWidth rebuilds the axis mapper for a new width. Any active
// gesture is cancelled.
func (p *Planner) SetPixelWidth(w float64) {
	if w == p.cfg.PixelWidth {
		return
	}
	p.cfg.PixelWidth = w
	p.setConfig(p.cfg)
}

func (p *Planner) setConfig(cfg axis.Config) {
	p.cfg = cfg
	p.mapper = axis.New(cfg)
	for _, c := range p.controllers {
		c.setMapper(p.mapper)
	}
	if p.captured != nil {
		p.logger.Debug("pointer capture released by axis change", "event", p.captured.ref.String())
		p.captured = nil
	}
}

// Sync reconciles the planner against b, which the planner does not
// retain. Controllers are created for new events and dropped for removed
// ones; existing controllers receive the external position. It returns the
// number of events whose painted position changed.
func (p *Planner) Sync(b *board.Board) int {
	if b == nil {
		b = &board.Board{}
	}
	if cfg := b.AxisConfig(p.cfg.PixelWidth); cfg != p.cfg {
		p.logger.Info("axis changed", "kind", cfg.Kind.String(), "start", cfg.DomainStart, "end", cfg.DomainEnd)
		p.setConfig(cfg)
	}

	changed := 0
	seen := make(map[callback.Ref]bool, len(p.controllers))
	rows := make([]row, 0, len(b.Rows))
	for _, r := range b.Rows {
		lane := row{id: r.ID, title: r.Title, refs: make([]callback.Ref, 0, len(r.Events))}
		for _, ev := range r.Events {
			ref := callback.Ref{RowID: r.ID, EventID: ev.ID}
			if seen[ref] {
				continue
			}
			seen[ref] = true
			lane.refs = append(lane.refs, ref)

			c, ok := p.controllers[ref]
			if ok && c.event.IsMilestone() != ev.IsMilestone() {
				p.drop(c)
				ok = false
			}
			if !ok {
				p.controllers[ref] = p.newController(ref, ev)
				continue
			}
			if c.sync(ev) {
				changed++
				if p.bus != nil {
					pos := c.Local()
					p.queue.Defer(func() {
						p.bus.Publish(event.NewSyncedEvent(ref.RowID, ref.EventID, pos.Start, pos.End))
					})
				}
			}
		}
		rows = append(rows, lane)
	}
	p.rows = rows

	for ref, c := range p.controllers {
		if !seen[ref] {
			p.drop(c)
		}
	}

	p.logger.Debug("board synced", "rows", len(p.rows), "events", len(p.controllers), "changed", changed)
	return changed
}

func (p *Planner) newController(ref callback.Ref, ev board.Event) *Controller {
	return newController(ref, ev, controllerOptions{
		mapper:         p.mapper,
		queue:          p.queue,
		callbacks:      p.callbacks,
		clickThreshold: p.clickThreshold,
		logger:         p.logger,
	})
}

func (p *Planner) drop(c *Controller) {
	if p.captured == c {
		c.machine.Cancel()
		p.captured = nil
		p.logger.Debug("pointer capture released by removed event", "event", c.ref.String())
	}
	delete(p.controllers, c.ref)
}

// PointerDown hit-tests x in row and starts a gesture on the event found
// there. The event keeps pointer capture until PointerUp or CancelGesture.
func (p *Planner) PointerDown(rowIndex int, x float64) (Hit, error) {
	if p.captured != nil {
		return Hit{}, errors.ErrGestureActive
	}
	hit, ok := p.HitTest(rowIndex, x)
	if !ok {
		return Hit{}, errors.ErrNoTarget
	}
	c := p.controllers[hit.Ref]
	if err := c.machine.PointerDown(hit.Target, x); err != nil {
		return Hit{}, err
	}
	p.captured = c
	return hit, nil
}

// PointerMove routes a move to the captured event. It reports false when
// nothing holds capture.
func (p *Planner) PointerMove(x float64) (gesture.Feedback, bool) {
	if p.captured == nil {
		return gesture.Feedback{}, false
	}
	return p.captured.machine.PointerMove(x), true
}

// PointerUp ends the captured gesture at x and releases capture.
func (p *Planner) PointerUp(x float64) (Result, error) {
	c := p.captured
	if c == nil {
		return Result{}, errors.ErrNoGesture
	}
	p.captured = nil
	out, err := c.machine.PointerUp(x)
	if err != nil {
		return Result{}, err
	}
	return Result{Ref: c.ref, Outcome: out}, nil
}

// CancelGesture ends the captured gesture without committing, as when
// pointer capture is lost. It reports whether a gesture was active.
func (p *Planner) CancelGesture() bool {
	c := p.captured
	if c == nil {
		return false
	}
	p.captured = nil
	return c.machine.Cancel()
}

// DoubleClick reports a double click at x in row. It is ignored while any
// gesture is active.
func (p *Planner) DoubleClick(rowIndex int, x float64) bool {
	if p.captured != nil {
		return false
	}
	hit, ok := p.HitTest(rowIndex, x)
	if !ok {
		return false
	}
	return p.DoubleClickEvent(hit.Ref)
}

// DoubleClickEvent reports a double click on ref.
func (p *Planner) DoubleClickEvent(ref callback.Ref) bool {
	if p.captured != nil {
		return false
	}
	c, ok := p.controllers[ref]
	if !ok {
		return false
	}
	return c.machine.DoubleClick()
}

// Secondary returns the event at x in row and the secondary actions the
// host supports for it. Nothing is returned while a gesture is active.
func (p *Planner) Secondary(rowIndex int, x float64) (callback.Ref, []callback.Action) {
	if p.captured != nil {
		return callback.Ref{}, nil
	}
	hit, ok := p.HitTest(rowIndex, x)
	if !ok {
		return callback.Ref{}, nil
	}
	return hit.Ref, p.Actions(hit.Ref)
}

// Actions returns the secondary actions for ref.
func (p *Planner) Actions(ref callback.Ref) []callback.Action {
	c, ok := p.controllers[ref]
	if !ok || p.captured != nil {
		return nil
	}
	return c.machine.Actions()
}

// Invoke runs a secondary action on ref.
func (p *Planner) Invoke(ref callback.Ref, a callback.Action) bool {
	c, ok := p.controllers[ref]
	if !ok || p.captured != nil {
		return false
	}
	return c.machine.Secondary(a)
}

// Popover renders the host popover for ref. A panicking renderer yields
// no content.
func (p *Planner) Popover(ref callback.Ref) (string, bool) {
	c, ok := p.controllers[ref]
	if !ok {
		return "", false
	}
	return c.dispatch.Popover()
}

// wrap layers bus publication over the host callbacks. Edit and Delete
// stay nil when the host leaves them nil so the actions remain hidden.
func (p *Planner) wrap(host *callback.Callbacks) *callback.Callbacks {
	h := host
	if h == nil {
		h = &callback.Callbacks{}
	}
	cb := &callback.Callbacks{
		OnClick: func(ref callback.Ref) {
			if h.OnClick != nil {
				h.OnClick(ref)
			}
			p.publish(event.NewClickedEvent(ref.RowID, ref.EventID))
		},
		OnDoubleClick: func(ref callback.Ref) {
			if h.OnDoubleClick != nil {
				h.OnDoubleClick(ref)
			}
			p.publish(event.NewDoubleClickedEvent(ref.RowID, ref.EventID))
		},
		OnDrag: func(ref callback.Ref, ps, pe, s, e int64) {
			if h.OnDrag != nil {
				h.OnDrag(ref, ps, pe, s, e)
			}
			p.publish(event.NewDraggedEvent(ref.RowID, ref.EventID, ps, pe, s, e))
		},
		OnResize: func(ref callback.Ref, ps, pe, s, e int64, edge string) {
			if h.OnResize != nil {
				h.OnResize(ref, ps, pe, s, e, edge)
			}
			p.publish(event.NewResizedEvent(ref.RowID, ref.EventID, ps, pe, s, e, edge))
		},
		OnPositionChange: h.OnPositionChange,
		RenderPopover:    h.RenderPopover,
	}
	if h.OnEdit != nil {
		cb.OnEdit = func(ref callback.Ref) {
			h.OnEdit(ref)
			p.publish(event.NewActionEvent(ref.RowID, ref.EventID, callback.ActionEdit.String()))
		}
	}
	if h.OnDelete != nil {
		cb.OnDelete = func(ref callback.Ref) {
			h.OnDelete(ref)
			p.publish(event.NewActionEvent(ref.RowID, ref.EventID, callback.ActionDelete.String()))
		}
	}
	return cb
}

func (p *Planner) publish(e event.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// Bounds returns the painted position of ref including any in-flight
// gesture.
func (p *Planner) Bounds(ref callback.Ref) (constraint.Bounds, bool) {
	c, ok := p.controllers[ref]
	if !ok {
		return constraint.Bounds{}, false
	}
	return c.Preview(), true
}
