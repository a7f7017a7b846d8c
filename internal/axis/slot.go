package axis

// SlotMapper maps an ordinal slot grid. Slot i starts at
// (i - DomainStart) * slotWidth pixels.
type SlotMapper struct {
	cfg Config
}

func (m *SlotMapper) slotWidth() float64 {
	if m.cfg.Degenerate() {
		return 0
	}
	return m.cfg.PixelWidth / float64(m.cfg.Span())
}

// SlotWidth returns the pixel width of one step.
func (m *SlotMapper) SlotWidth() float64 {
	return m.slotWidth() * float64(m.cfg.StepSize())
}

// ToPixels returns the pixel offset of slot v.
func (m *SlotMapper) ToPixels(v int64) float64 {
	return float64(v-m.cfg.DomainStart) * m.slotWidth()
}

// ToDomain returns the slot at px, rounded to the nearest step.
func (m *SlotMapper) ToDomain(px float64, current int64) int64 {
	w := m.slotWidth()
	if w == 0 || !finite(px) {
		return current
	}
	return m.cfg.DomainStart + snap(px/w, m.cfg.StepSize())
}

// PixelDeltaToDomain converts a pixel movement into a whole number of steps.
func (m *SlotMapper) PixelDeltaToDomain(dpx float64) int64 {
	w := m.slotWidth()
	if w == 0 || !finite(dpx) {
		return 0
	}
	return snap(dpx/w, m.cfg.StepSize())
}

// DomainDeltaToPixels converts a slot delta into pixels.
func (m *SlotMapper) DomainDeltaToPixels(d int64) float64 {
	return float64(d) * m.slotWidth()
}

// Config returns the mapper's configuration.
func (m *SlotMapper) Config() Config {
	return m.cfg
}
