// Package axis maps between screen offsets and domain positions.
//
// Two domains are supported: an ordinal slot grid (planner) where every
// position is an integer slot index, and a continuous time axis (Gantt)
// where positions are Unix milliseconds. Both share the [Mapper] contract
// so the interaction engine is written once against either.
//
// Mappers are pure and immutable; a new one is built whenever the axis
// configuration changes (for example on a terminal resize).
package axis

import (
	"fmt"
	"math"

	"github.com/Iron-Ham/planboard/internal/errors"
)

// Kind identifies the domain an axis is expressed in.
type Kind int

const (
	// KindSlot is a discrete ordinal slot grid.
	KindSlot Kind = iota
	// KindTime is a continuous timestamp axis in Unix milliseconds.
	KindTime
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSlot:
		return "slot"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "slot", "":
		return KindSlot, nil
	case "time":
		return KindTime, nil
	default:
		return KindSlot, fmt.Errorf("%w: unknown axis kind %q", errors.ErrInvalidAxis, s)
	}
}

// Mode controls how event width is derived.
type Mode string

const (
	// ModeSpan makes an event's width follow end - start.
	ModeSpan Mode = "span"
	// ModeSingle makes every event occupy exactly one slot's width.
	ModeSingle Mode = "single"
)

// Config is the immutable per-render axis configuration.
type Config struct {
	Kind        Kind
	DomainStart int64
	DomainEnd   int64
	PixelWidth  float64
	// Step is the snapping granularity. Zero means one domain unit.
	Step int64
	Mode Mode
}

// StepSize returns the effective snapping step.
func (c Config) StepSize() int64 {
	if c.Step <= 0 {
		return 1
	}
	return c.Step
}

// MinSize is the minimum span event size: one step.
func (c Config) MinSize() int64 {
	return c.StepSize()
}

// Span returns the length of the domain.
func (c Config) Span() int64 {
	return c.DomainEnd - c.DomainStart
}

// Degenerate reports whether the axis cannot map pixels to domain values.
func (c Config) Degenerate() bool {
	return c.PixelWidth <= 0 || c.Span() <= 0
}

// Validate checks for configurations that are invalid rather than merely
// degenerate. A zero-width or zero-span axis is valid and handled by the
// mapper fallbacks.
func (c Config) Validate() error {
	if c.DomainEnd < c.DomainStart {
		return fmt.Errorf("%w: domain end %d before start %d", errors.ErrInvalidAxis, c.DomainEnd, c.DomainStart)
	}
	if c.PixelWidth < 0 || math.IsNaN(c.PixelWidth) || math.IsInf(c.PixelWidth, 0) {
		return fmt.Errorf("%w: pixel width %v", errors.ErrInvalidAxis, c.PixelWidth)
	}
	if c.Step < 0 {
		return fmt.Errorf("%w: negative step %d", errors.ErrInvalidAxis, c.Step)
	}
	switch c.Mode {
	case ModeSpan, ModeSingle, "":
	default:
		return fmt.Errorf("%w: unknown mode %q", errors.ErrInvalidAxis, c.Mode)
	}
	return nil
}

// Mapper converts between pixel offsets and domain values.
//
// ToPixels and ToDomain are inverses up to snapping. The delta functions
// convert movement rather than absolute positions and are what the
// interaction engine uses while a gesture is active.
type Mapper interface {
	// ToPixels returns the pixel offset of a domain value from the axis origin.
	ToPixels(v int64) float64
	// ToDomain returns the domain value at a pixel offset. On a degenerate
	// axis it returns current unchanged.
	ToDomain(px float64, current int64) int64
	// PixelDeltaToDomain converts a pixel movement into a snapped domain
	// delta. On a degenerate axis it returns zero.
	PixelDeltaToDomain(dpx float64) int64
	// DomainDeltaToPixels converts a domain delta into a pixel movement.
	DomainDeltaToPixels(d int64) float64
	// SlotWidth is the pixel width of one step.
	SlotWidth() float64
	// Config returns the configuration the mapper was built from.
	Config() Config
}

// New returns the mapper for cfg's kind.
func New(cfg Config) Mapper {
	switch cfg.Kind {
	case KindTime:
		return &TimeMapper{cfg: cfg}
	default:
		return &SlotMapper{cfg: cfg}
	}
}

// snap rounds v to the nearest multiple of step, halves away from zero.
func snap(v float64, step int64) int64 {
	if step <= 1 {
		return int64(math.Round(v))
	}
	return int64(math.Round(v/float64(step))) * step
}

// finite reports whether f is usable as a coordinate.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
