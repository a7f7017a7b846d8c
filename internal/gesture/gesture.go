// Package gesture turns a pointer stream for one event into clicks, drags
// and resizes.
//
// A [Machine] is Idle until PointerDown. Pressing the body starts a drag;
// pressing a resize handle starts a resize of that edge. Each PointerMove
// converts the raw pixel movement to a snapped domain delta, clamps it and
// converts it back to pixels for feedback. PointerUp either reports a
// click (movement never exceeded the click threshold) or commits the last
// clamped delta through the reconciler. Cancel ends a gesture without
// committing.
//
// Double clicks and secondary actions are ignored while a gesture is
// active so a single physical interaction never yields both a commit and
// a double click.
package gesture

import (
	"math"

	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/logging"
	"github.com/Iron-Ham/planboard/internal/reconcile"
)

// DefaultClickThreshold is the jitter tolerance in pixels.
const DefaultClickThreshold = 3.0

// State is the machine state.
type State int

const (
	// StateIdle means no gesture is active.
	StateIdle State = iota
	// StateDragging means the whole event is being moved.
	StateDragging
	// StateResizing means one edge is being moved; see Snapshot.Edge.
	StateResizing
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Target is the part of an event a pointer went down on.
type Target int

const (
	// TargetBody is the event body.
	TargetBody Target = iota
	// TargetStartHandle is the resize strip at the start edge.
	TargetStartHandle
	// TargetEndHandle is the resize strip at the end edge.
	TargetEndHandle
)

// String returns a human-readable name for the target.
func (t Target) String() string {
	switch t {
	case TargetBody:
		return "body"
	case TargetStartHandle:
		return "start-handle"
	case TargetEndHandle:
		return "end-handle"
	default:
		return "unknown"
	}
}

// Snapshot is the transient state of an active gesture.
type Snapshot struct {
	Kind constraint.Kind
	Edge constraint.Edge
	// OriginX is the pointer position at pointer-down.
	OriginX float64
	// Offset is the pixel feedback for the last clamped delta.
	Offset float64
	// Delta is the last clamped domain delta.
	Delta                  int64
	ExceededClickThreshold bool
}

// Feedback is returned from PointerMove for the renderer.
type Feedback struct {
	Active bool
	Kind   constraint.Kind
	Edge   constraint.Edge
	Offset float64
	Delta  int64
	// Preview is the position the event would have if released now.
	Preview constraint.Bounds
}

// OutcomeKind classifies how a gesture ended.
type OutcomeKind int

const (
	// OutcomeNone means nothing was reported: no gesture, or a commit
	// whose clamped delta was zero.
	OutcomeNone OutcomeKind = iota
	// OutcomeClick means the pointer never left the click threshold.
	OutcomeClick
	// OutcomeDrag means a drag was committed.
	OutcomeDrag
	// OutcomeResize means a resize was committed.
	OutcomeResize
)

// String returns a human-readable name for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeClick:
		return "click"
	case OutcomeDrag:
		return "drag"
	case OutcomeResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Outcome describes how PointerUp resolved the gesture.
type Outcome struct {
	Kind OutcomeKind
	Edge constraint.Edge
	Prev constraint.Bounds
	Next constraint.Bounds
}

// Options configures a Machine.
type Options struct {
	Mapper     axis.Mapper
	Reconciler *reconcile.Reconciler
	Dispatcher *callback.Dispatcher
	// ClickThreshold is the jitter tolerance in pixels. Zero or less means
	// DefaultClickThreshold.
	ClickThreshold float64
	// Limits overrides the axis limits. When nil the axis domain is used.
	Limits *constraint.Limits
	Logger *logging.Logger
}

// Machine is the interaction state machine for one event. It is not safe
// for concurrent use; all calls come from the UI loop in arrival order.
type Machine struct {
	mapper    axis.Mapper
	rec       *reconcile.Reconciler
	dispatch  *callback.Dispatcher
	threshold float64
	limits    *constraint.Limits
	snap      *Snapshot
	logger    *logging.Logger
}

// New creates an idle Machine.
func New(opts Options) *Machine {
	threshold := opts.ClickThreshold
	if threshold <= 0 {
		threshold = DefaultClickThreshold
	}
	dispatch := opts.Dispatcher
	if dispatch == nil {
		dispatch = callback.NewDispatcher(callback.Ref{}, nil, opts.Logger)
	}
	return &Machine{
		mapper:    opts.Mapper,
		rec:       opts.Reconciler,
		dispatch:  dispatch,
		threshold: threshold,
		limits:    opts.Limits,
		logger:    logging.OrNop(opts.Logger).WithComponent("gesture"),
	}
}

// SetMapper replaces the axis mapper, e.g. after a terminal resize. An
// active gesture is cancelled because its pixel origin is meaningless on
// the new axis.
func (m *Machine) SetMapper(mapper axis.Mapper) {
	if m.Active() {
		m.Cancel()
	}
	m.mapper = mapper
}

// Mapper returns the current axis mapper.
func (m *Machine) Mapper() axis.Mapper {
	return m.mapper
}

// Resizable reports whether the event exposes resize handles. Milestones
// and events on a single-slot axis do not.
func (m *Machine) Resizable() bool {
	if m.rec.Milestone() {
		return false
	}
	return m.mapper.Config().Mode != axis.ModeSingle
}

// Active reports whether a gesture is in progress.
func (m *Machine) Active() bool {
	return m.snap != nil
}

// State returns the current state.
func (m *Machine) State() State {
	switch {
	case m.snap == nil:
		return StateIdle
	case m.snap.Kind == constraint.KindResize:
		return StateResizing
	default:
		return StateDragging
	}
}

// Snapshot returns a copy of the active gesture's snapshot.
func (m *Machine) Snapshot() (Snapshot, bool) {
	if m.snap == nil {
		return Snapshot{}, false
	}
	return *m.snap, true
}

// Preview returns the position to paint: the local position with the
// active gesture's clamped delta applied.
func (m *Machine) Preview() constraint.Bounds {
	local := m.rec.Local()
	if m.snap == nil {
		return local
	}
	return constraint.Apply(m.snap.Delta, m.snap.Kind, m.snap.Edge, local)
}

// PointerDown starts a gesture at x. A press on a handle of an event that
// is not resizable starts a drag.
func (m *Machine) PointerDown(target Target, x float64) error {
	if m.snap != nil {
		return errors.ErrGestureActive
	}

	s := &Snapshot{Kind: constraint.KindDrag, Edge: constraint.EdgeNone, OriginX: x}
	if m.Resizable() {
		switch target {
		case TargetStartHandle:
			s.Kind, s.Edge = constraint.KindResize, constraint.EdgeStart
		case TargetEndHandle:
			s.Kind, s.Edge = constraint.KindResize, constraint.EdgeEnd
		}
	}
	m.snap = s

	m.logger.Debug("gesture started",
		"target", target.String(),
		"state", m.State().String(),
		"x", x,
	)
	return nil
}

// PointerMove updates the active gesture for a pointer at x. Without an
// active gesture it returns an inactive Feedback.
func (m *Machine) PointerMove(x float64) Feedback {
	s := m.snap
	if s == nil {
		return Feedback{Preview: m.rec.Local()}
	}

	raw := x - s.OriginX
	if math.Abs(raw) > m.threshold {
		s.ExceededClickThreshold = true
	}

	cur := m.rec.Local()
	delta := m.mapper.PixelDeltaToDomain(raw)
	delta = constraint.Clamp(delta, s.Kind, s.Edge, cur, m.currentLimits(), m.rec.MinSize())
	s.Delta = delta
	s.Offset = m.mapper.DomainDeltaToPixels(delta)

	return Feedback{
		Active:  true,
		Kind:    s.Kind,
		Edge:    s.Edge,
		Offset:  s.Offset,
		Delta:   s.Delta,
		Preview: constraint.Apply(delta, s.Kind, s.Edge, cur),
	}
}

// PointerUp ends the active gesture at x.
func (m *Machine) PointerUp(x float64) (Outcome, error) {
	if m.snap == nil {
		return Outcome{}, errors.ErrNoGesture
	}
	m.PointerMove(x)

	s := *m.snap
	m.snap = nil

	if !s.ExceededClickThreshold {
		m.logger.Debug("gesture resolved as click")
		m.dispatch.NotifyClick()
		return Outcome{Kind: OutcomeClick}, nil
	}

	if s.Delta == 0 {
		m.logger.Debug("gesture ended without movement", "kind", s.Kind.String())
		return Outcome{Kind: OutcomeNone, Edge: s.Edge}, nil
	}

	prev, next := m.rec.ApplyDelta(s.Delta, s.Kind, s.Edge)
	if prev == next {
		return Outcome{Kind: OutcomeNone, Edge: s.Edge}, nil
	}

	if s.Kind == constraint.KindResize {
		m.dispatch.NotifyResize(prev, next, s.Edge)
		return Outcome{Kind: OutcomeResize, Edge: s.Edge, Prev: prev, Next: next}, nil
	}
	m.dispatch.NotifyDrag(prev, next)
	return Outcome{Kind: OutcomeDrag, Prev: prev, Next: next}, nil
}

// Cancel ends the active gesture without committing or clicking. It
// reports whether a gesture was active.
func (m *Machine) Cancel() bool {
	if m.snap == nil {
		return false
	}
	m.logger.Debug("gesture cancelled", "kind", m.snap.Kind.String(), "delta", m.snap.Delta)
	m.snap = nil
	return true
}

// DoubleClick reports a double click on an idle event. It returns false
// and does nothing while a gesture is active.
func (m *Machine) DoubleClick() bool {
	if m.snap != nil {
		m.logger.Debug("double click suppressed during gesture")
		return false
	}
	m.dispatch.NotifyDoubleClick()
	return true
}

// Actions returns the secondary actions the host supports, or nil while a
// gesture is active.
func (m *Machine) Actions() []callback.Action {
	if m.snap != nil {
		return nil
	}
	return m.dispatch.Actions()
}

// Secondary invokes a secondary action. It returns false while a gesture
// is active or when the host does not support the action.
func (m *Machine) Secondary(a callback.Action) bool {
	if m.snap != nil {
		m.logger.Debug("secondary action suppressed during gesture", "action", a.String())
		return false
	}
	return m.dispatch.NotifyAction(a)
}

func (m *Machine) currentLimits() constraint.Limits {
	if m.limits != nil {
		return *m.limits
	}
	cfg := m.mapper.Config()
	if cfg.Degenerate() {
		return constraint.Unbounded()
	}
	return constraint.LimitsFor(cfg)
}
