package view

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/planboard/internal/axis"
)

// MinTickSpacing is the minimum number of cells between axis labels.
const MinTickSpacing = 6

// Tick is one labelled axis position.
type Tick struct {
	Pos   int
	Label string
}

var timeSteps = []time.Duration{
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// Ticks returns the label positions for an axis width cells wide. A
// degenerate axis has none.
func Ticks(m axis.Mapper, width int) []Tick {
	cfg := m.Config()
	if cfg.Degenerate() || width <= 0 {
		return nil
	}
	if cfg.Kind == axis.KindTime {
		return timeTicks(m, width)
	}
	return slotTicks(m, width)
}

func slotTicks(m axis.Mapper, width int) []Tick {
	cfg := m.Config()
	step := cfg.StepSize()
	perUnit := m.DomainDeltaToPixels(1)
	if perUnit <= 0 {
		return nil
	}
	if need := int64(math.Ceil(MinTickSpacing / perUnit)); need > step {
		step = (need + cfg.StepSize() - 1) / cfg.StepSize() * cfg.StepSize()
	}

	var ticks []Tick
	for v := cfg.DomainStart; v <= cfg.DomainEnd; v += step {
		pos := int(math.Round(m.ToPixels(v)))
		if pos >= width {
			break
		}
		ticks = append(ticks, Tick{Pos: pos, Label: strconv.FormatInt(v, 10)})
	}
	return ticks
}

func timeTicks(m axis.Mapper, width int) []Tick {
	cfg := m.Config()
	step := timeSteps[len(timeSteps)-1]
	for _, d := range timeSteps {
		if m.DomainDeltaToPixels(d.Milliseconds()) >= 2*MinTickSpacing {
			step = d
			break
		}
	}

	layout := "15:04"
	if step >= 24*time.Hour {
		layout = "Jan 2"
	}

	first := axis.Time(cfg.DomainStart).Truncate(step)
	if first.Before(axis.Time(cfg.DomainStart)) {
		first = first.Add(step)
	}
	var ticks []Tick
	for t := first; axis.Millis(t) <= cfg.DomainEnd; t = t.Add(step) {
		pos := int(math.Round(m.ToPixels(axis.Millis(t))))
		if pos >= width {
			break
		}
		ticks = append(ticks, Tick{Pos: pos, Label: t.Format(layout)})
	}
	return ticks
}

// AxisLine lays the tick labels out on one line. A label that would
// overlap its predecessor or run past the edge is dropped.
func AxisLine(ticks []Tick, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	col := 0
	for _, t := range ticks {
		w := ansi.StringWidth(t.Label)
		if t.Pos < col || t.Pos+w > width {
			continue
		}
		sb.WriteString(strings.Repeat(" ", t.Pos-col))
		sb.WriteString(t.Label)
		col = t.Pos + w + 1
		if col <= width {
			sb.WriteByte(' ')
		} else {
			col = width
		}
	}
	if col < width {
		sb.WriteString(strings.Repeat(" ", width-col))
	}
	return sb.String()
}
