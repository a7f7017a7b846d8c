package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/callback"
)

// hostCallbacks are the callbacks the model registers with its planner.
// They only run from Drain, inside Update, so they may touch model state
// freely; commands they produce are queued on m.pending.
func (m *Model) hostCallbacks() *callback.Callbacks {
	return &callback.Callbacks{
		OnClick: func(ref callback.Ref) {
			m.selected = ref
			content, ok := m.planner.Popover(ref)
			if !ok {
				content = ""
			}
			m.popover = content
			m.clampScroll()
		},
		OnDoubleClick: func(ref callback.Ref) {
			m.queue(m.openEditor(ref))
		},
		OnDrag: func(ref callback.Ref, _, _, start, end int64) {
			m.queue(m.commitMove(ref, start, end, "moved"))
		},
		OnResize: func(ref callback.Ref, _, _, start, end int64, edge string) {
			m.queue(m.commitMove(ref, start, end, "resized "+edge+" of"))
		},
		OnEdit: func(ref callback.Ref) {
			m.queue(m.openEditor(ref))
		},
		OnDelete: func(ref callback.Ref) {
			m.queue(m.deleteEvent(ref))
		},
		RenderPopover: m.renderPopover,
	}
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// commitMove writes a committed gesture into the board. The planner sees
// the new position echoed back through Sync.
func (m *Model) commitMove(ref callback.Ref, start, end int64, verb string) tea.Cmd {
	if err := m.board.MoveEvent(ref.RowID, ref.EventID, start, end); err != nil {
		return m.reportError("move failed", err)
	}
	m.planner.Sync(m.board)
	if m.popover != "" && m.selected == ref {
		m.popover, _ = m.planner.Popover(ref)
	}
	m.logger.Info("event moved", "event", ref.String(), "start", start, "end", end)
	return tea.Batch(m.persist(), m.setStatus(fmt.Sprintf("%s %s to %s", verb, ref.EventID, m.formatRange(start, end))))
}

func (m *Model) deleteEvent(ref callback.Ref) tea.Cmd {
	if err := m.board.RemoveEvent(ref.RowID, ref.EventID); err != nil {
		return m.reportError("delete failed", err)
	}
	if m.selected == ref {
		m.clearSelection()
	}
	m.planner.Sync(m.board)
	m.clampScroll()
	m.logger.Info("event deleted", "event", ref.String())
	return tea.Batch(m.persist(), m.setStatus("deleted "+ref.EventID))
}

// renderPopover describes an event for the popover panel.
func (m *Model) renderPopover(ref callback.Ref) string {
	ev, err := m.board.Find(ref.RowID, ref.EventID)
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(ev.Title())
	if i := m.board.RowIndex(ref.RowID); i >= 0 {
		b.WriteString("  ·  " + m.planner.RowTitle(i))
	}
	b.WriteString("\n")
	if ev.IsMilestone() {
		b.WriteString("milestone at " + m.formatValue(ev.Start.Value))
	} else {
		b.WriteString(m.formatRange(ev.Start.Value, ev.End.Value))
		b.WriteString("  (" + m.formatLength(ev.End.Value-ev.Start.Value) + ")")
	}
	return b.String()
}

func (m *Model) formatValue(v int64) string {
	if m.board.IsTime() {
		return axis.Time(v).Format("2006-01-02 15:04")
	}
	return strconv.FormatInt(v, 10)
}

func (m *Model) formatRange(start, end int64) string {
	if start == end {
		return m.formatValue(start)
	}
	return m.formatValue(start) + " → " + m.formatValue(end)
}

func (m *Model) formatLength(d int64) string {
	if m.board.IsTime() {
		return (time.Duration(d) * time.Millisecond).String()
	}
	if d == 1 {
		return "1 slot"
	}
	return strconv.FormatInt(d, 10) + " slots"
}
