package axis

import "time"

// TimeMapper maps a continuous time axis. Values are Unix milliseconds.
type TimeMapper struct {
	cfg Config
}

// SlotWidth returns the pixel width of one step.
func (m *TimeMapper) SlotWidth() float64 {
	if m.cfg.Degenerate() {
		return 0
	}
	return float64(m.cfg.StepSize()) / float64(m.cfg.Span()) * m.cfg.PixelWidth
}

// ToPixels returns the pixel offset of timestamp v.
func (m *TimeMapper) ToPixels(v int64) float64 {
	if m.cfg.Degenerate() {
		return 0
	}
	return float64(v-m.cfg.DomainStart) / float64(m.cfg.Span()) * m.cfg.PixelWidth
}

// ToDomain returns the timestamp at px clamped to the domain.
func (m *TimeMapper) ToDomain(px float64, current int64) int64 {
	if m.cfg.Degenerate() || !finite(px) {
		return current
	}
	v := m.cfg.DomainStart + snap(px/m.cfg.PixelWidth*float64(m.cfg.Span()), m.cfg.StepSize())
	if v < m.cfg.DomainStart {
		return m.cfg.DomainStart
	}
	if v > m.cfg.DomainEnd {
		return m.cfg.DomainEnd
	}
	return v
}

// PixelDeltaToDomain converts a pixel movement into milliseconds, snapped
// to the step.
func (m *TimeMapper) PixelDeltaToDomain(dpx float64) int64 {
	if m.cfg.Degenerate() || !finite(dpx) {
		return 0
	}
	return snap(dpx/m.cfg.PixelWidth*float64(m.cfg.Span()), m.cfg.StepSize())
}

// DomainDeltaToPixels converts a millisecond delta into pixels.
func (m *TimeMapper) DomainDeltaToPixels(d int64) float64 {
	if m.cfg.Degenerate() {
		return 0
	}
	return float64(d) / float64(m.cfg.Span()) * m.cfg.PixelWidth
}

// Config returns the mapper's configuration.
func (m *TimeMapper) Config() Config {
	return m.cfg
}

// Millis converts t to the time axis domain.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Time converts a time axis domain value back into a time.Time in UTC.
func Time(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
