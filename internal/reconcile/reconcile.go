// Package reconcile keeps an event's optimistic local position consistent
// with the authoritative value owned by the host.
//
// The two values live in separate fields and are never merged. Reconciler
// rules:
//
//   - A gesture commit (ApplyDelta) writes local directly and remembers
//     the committed value as pending, so the painted event does not snap
//     back while the host persists the change.
//   - An external value (Sync) that differs from the last one seen
//     overwrites local wholesale, unless it is the echo of the pending
//     commit, in which case only the authoritative copy moves.
package reconcile

import (
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/logging"
)

// Options configures a Reconciler.
type Options struct {
	// MinSize is the minimum span size, normally one axis step.
	MinSize int64
	// Milestone marks a zero-width event; its end always equals its start.
	Milestone bool
	// Dispatcher receives position change notifications. Optional.
	Dispatcher *callback.Dispatcher
	Logger     *logging.Logger
}

// Reconciler owns the local position of one event. It is not safe for
// concurrent use; all calls come from the UI loop.
type Reconciler struct {
	authoritative constraint.Bounds
	local         constraint.Bounds
	pending       constraint.Bounds
	hasPending    bool

	minSize   int64
	milestone bool
	dispatch  *callback.Dispatcher
	logger    *logging.Logger
}

// New creates a Reconciler whose authoritative and local values both start
// at initial.
func New(initial constraint.Bounds, opts Options) *Reconciler {
	r := &Reconciler{
		authoritative: initial,
		minSize:       opts.MinSize,
		milestone:     opts.Milestone,
		dispatch:      opts.Dispatcher,
		logger:        logging.OrNop(opts.Logger).WithComponent("reconcile"),
	}
	r.local = r.normalize(initial, constraint.KindDrag, constraint.EdgeNone)
	return r
}

// Local returns the position the renderer paints.
func (r *Reconciler) Local() constraint.Bounds {
	return r.local
}

// Authoritative returns the last externally supplied position.
func (r *Reconciler) Authoritative() constraint.Bounds {
	return r.authoritative
}

// Pending returns the last committed position that the host has not yet
// echoed back.
func (r *Reconciler) Pending() (constraint.Bounds, bool) {
	return r.pending, r.hasPending
}

// Milestone reports whether the event is zero-width.
func (r *Reconciler) Milestone() bool {
	return r.milestone
}

// MinSize returns the minimum span size.
func (r *Reconciler) MinSize() int64 {
	if r.milestone {
		return 0
	}
	return r.minSize
}

// SetMinSize changes the minimum size, e.g. after the axis step changed.
// The local position is not touched until the next commit or sync.
func (r *Reconciler) SetMinSize(n int64) {
	r.minSize = n
}

// Sync feeds the host's current value. It reports whether the local
// position changed.
func (r *Reconciler) Sync(ext constraint.Bounds) bool {
	if ext == r.authoritative {
		return false
	}
	r.authoritative = ext

	if r.hasPending && ext == r.pending {
		r.hasPending = false
		r.logger.Debug("sync echoed pending commit", "start", ext.Start, "end", ext.End)
		return false
	}

	r.hasPending = false
	prev := r.local
	r.local = ext
	r.logger.Debug("sync overwrote local position",
		"prev_start", prev.Start,
		"prev_end", prev.End,
		"start", ext.Start,
		"end", ext.End,
	)
	if prev == r.local {
		return false
	}
	r.notify()
	return true
}

// ApplyDelta commits an already clamped delta to the local position and
// returns the old and new values. The result always satisfies
// end >= start + MinSize (end == start for milestones), whatever the
// delta.
func (r *Reconciler) ApplyDelta(delta int64, kind constraint.Kind, edge constraint.Edge) (prev, next constraint.Bounds) {
	prev = r.local
	next = r.normalize(constraint.Apply(delta, kind, edge, prev), kind, edge)
	if next == prev {
		return prev, prev
	}

	r.local = next
	r.pending = next
	r.hasPending = true
	r.notify()
	return prev, next
}

// normalize enforces the size invariant. For resizes the moving edge gives
// way; otherwise the end is pushed out.
func (r *Reconciler) normalize(b constraint.Bounds, kind constraint.Kind, edge constraint.Edge) constraint.Bounds {
	if r.milestone {
		if kind == constraint.KindResize && edge == constraint.EdgeEnd {
			b.Start = b.End
		} else {
			b.End = b.Start
		}
		return b
	}
	if b.End >= b.Start+r.minSize {
		return b
	}
	r.logger.Warn("position violated minimum size",
		"start", b.Start,
		"end", b.End,
		"min_size", r.minSize,
	)
	if kind == constraint.KindResize && edge == constraint.EdgeStart {
		b.Start = b.End - r.minSize
	} else {
		b.End = b.Start + r.minSize
	}
	return b
}

func (r *Reconciler) notify() {
	if r.dispatch != nil {
		r.dispatch.NotifyPositionChange(r.local)
	}
}
