// Package constraint clamps a proposed gesture delta so that the resulting
// event stays valid: no smaller than the minimum size and inside the axis
// limits when those are configured.
//
// The solver is stateless; callers pass the event's current bounds on
// every call, the same way detect.TimeoutDetector takes its inputs.
package constraint

import "github.com/Iron-Ham/planboard/internal/axis"

// Kind is the kind of interaction a delta belongs to.
type Kind int

const (
	// KindDrag moves both ends of an event together.
	KindDrag Kind = iota
	// KindResize moves one edge of an event.
	KindResize
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDrag:
		return "drag"
	case KindResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Edge identifies which edge a resize moves.
type Edge int

const (
	// EdgeNone is used for drags.
	EdgeNone Edge = iota
	// EdgeStart is the leading edge.
	EdgeStart
	// EdgeEnd is the trailing edge.
	EdgeEnd
)

// String returns the callback name of the edge.
func (e Edge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	default:
		return "none"
	}
}

// Bounds is an event's current position.
type Bounds struct {
	Start int64
	End   int64
}

// Size returns End - Start.
func (b Bounds) Size() int64 {
	return b.End - b.Start
}

// Limits are the optional axis bounds.
type Limits struct {
	Min    int64
	Max    int64
	HasMin bool
	HasMax bool
}

// Unbounded returns limits with neither bound configured.
func Unbounded() Limits {
	return Limits{}
}

// Between returns limits bounded on both sides.
func Between(lo, hi int64) Limits {
	return Limits{Min: lo, Max: hi, HasMin: true, HasMax: true}
}

// LimitsFor returns the limits implied by an axis domain.
func LimitsFor(cfg axis.Config) Limits {
	return Between(cfg.DomainStart, cfg.DomainEnd)
}

// Clamp returns the largest-magnitude delta no larger than delta that
// keeps the event valid.
//
// Rules by kind:
//   - drag: start+d >= Min and end+d <= Max
//   - resize end: end+d >= start+minSize and end+d <= Max
//   - resize start: start+d <= end-minSize and start+d >= Min
//
// When the axis is too narrow for the event, the size rule wins for
// resizes. A drag preserves size, so for drags the Min bound wins over
// the Max bound.
//
// A zero delta is returned unchanged: the pointer has not moved a whole
// step, so an event already outside its limits is not pushed back in.
func Clamp(delta int64, kind Kind, edge Edge, cur Bounds, lim Limits, minSize int64) int64 {
	if delta == 0 {
		return 0
	}
	if minSize < 0 {
		minSize = 0
	}

	switch kind {
	case KindDrag:
		if lim.HasMax && cur.End+delta > lim.Max {
			delta = lim.Max - cur.End
		}
		if lim.HasMin && cur.Start+delta < lim.Min {
			delta = lim.Min - cur.Start
		}
		return delta

	case KindResize:
		switch edge {
		case EdgeEnd:
			if lim.HasMax && cur.End+delta > lim.Max {
				delta = lim.Max - cur.End
			}
			if floor := cur.Start + minSize - cur.End; delta < floor {
				delta = floor
			}
			return delta
		case EdgeStart:
			if lim.HasMin && cur.Start+delta < lim.Min {
				delta = lim.Min - cur.Start
			}
			if ceiling := cur.End - minSize - cur.Start; delta > ceiling {
				delta = ceiling
			}
			return delta
		}
	}

	return 0
}

// Apply returns the bounds after moving them by an already clamped delta.
func Apply(delta int64, kind Kind, edge Edge, cur Bounds) Bounds {
	switch kind {
	case KindDrag:
		return Bounds{Start: cur.Start + delta, End: cur.End + delta}
	case KindResize:
		switch edge {
		case EdgeStart:
			return Bounds{Start: cur.Start + delta, End: cur.End}
		case EdgeEnd:
			return Bounds{Start: cur.Start, End: cur.End + delta}
		}
	}
	return cur
}
