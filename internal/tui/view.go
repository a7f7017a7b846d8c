package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/config"
	"github.com/Iron-Ham/planboard/internal/planner"
	"github.com/Iron-Ham/planboard/internal/tui/keymap"
	"github.com/Iron-Ham/planboard/internal/tui/styles"
	"github.com/Iron-Ham/planboard/internal/tui/view"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading board…"
	}

	bv := view.BoardView{
		Planner:    m.planner,
		Styles:     m.styles,
		TitleWidth: m.titleWidth(),
		Selected:   m.selected,
		Loaded:     m.rowMgr.IsLoaded,
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.headerView(), bv.Header())

	body := bv.Rows(m.visibleRows())
	for len(body) < m.bodyHeight() {
		body = append(body, "")
	}
	lines = append(lines, body...)

	if p := m.panel(); p != "" {
		lines = append(lines, p)
	}
	lines = append(lines, m.statusView(), m.helpView())
	return strings.Join(lines, "\n")
}

func (m *Model) headerView() string {
	title := m.board.Title
	if title == "" {
		title = "planboard"
	}
	line := m.styles.Title.Render(title)
	if m.dirty && !m.cfg.Board.Autosave {
		line += m.styles.StatusError.Render(" *")
	}
	if m.path != "" {
		line += "  " + m.styles.Subtitle.Render(m.path)
	}
	return ansi.Truncate(line, m.width, "…")
}

// panel is the box shown under the rows: the label editor, the action
// menu or the popover of the selected event, in that order of priority.
func (m *Model) panel() string {
	switch m.mode {
	case keymap.ModeEdit:
		return m.styles.Editor.Render(m.editor.View())
	case keymap.ModeMenu:
		items := make([]string, len(m.menu.actions))
		for i, a := range m.menu.actions {
			label := actionLabel(a.String())
			if i == m.menu.cursor {
				items[i] = m.styles.MenuSelected.Render(label)
			} else {
				items[i] = m.styles.MenuItem.Render(label)
			}
		}
		return m.styles.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	}
	if m.popover != "" {
		return m.styles.Popover.Render(m.popover)
	}
	return ""
}

func actionLabel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m *Model) statusView() string {
	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = m.styles.StatusError.Render(m.status)
	case m.status != "":
		left = m.styles.StatusOK.Render(m.status)
	default:
		if ref, ok := m.Selected(); ok {
			left = ref.String()
		}
	}

	right := ""
	if n := m.planner.RowCount(); n > 0 {
		vis := m.visibleRows()
		if len(vis) > 0 {
			right = fmt.Sprintf("rows %d-%d of %d", vis[0]+1, vis[len(vis)-1]+1, n)
		}
	}

	inner := m.width - 2
	if inner < 0 {
		inner = 0
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return m.styles.StatusBar.Render(ansi.Truncate(left, inner, "…"))
	}
	return m.styles.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) helpView() string {
	switch m.mode {
	case keymap.ModeEdit:
		return m.styles.Subtitle.Render("enter save • esc cancel")
	case keymap.ModeMenu:
		return m.styles.Subtitle.Render("↑/↓ choose • enter run • esc close")
	}
	return m.help.View(m.keys)
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func titleColumn(configured, width int) int {
	w := configured
	if limit := width / 3; w > limit {
		w = limit
	}
	if w < MinTitleWidth {
		w = MinTitleWidth
	}
	return w
}

// Render draws b once, width cells wide, with every row loaded and no
// interaction. It backs the render command.
func Render(b *board.Board, width int, cfg *config.Config) string {
	if cfg == nil {
		cfg = config.Default()
	}
	tw := titleColumn(cfg.TUI.TitleWidth, width)
	axisWidth := width - tw - 1
	if axisWidth < 0 {
		axisWidth = 0
	}

	st := styles.New(styles.ThemeName(cfg.TUI.Theme))
	p := planner.New(planner.Options{
		Board:       b,
		PixelWidth:  float64(axisWidth),
		HandleWidth: float64(cfg.Interaction.HandleWidth),
	})
	bv := view.BoardView{Planner: p, Styles: st, TitleWidth: tw}

	indices := make([]int, p.RowCount())
	for i := range indices {
		indices[i] = i
	}

	title := b.Title
	if title == "" {
		title = "planboard"
	}
	lines := []string{st.Title.Render(title), bv.Header()}
	lines = append(lines, bv.Rows(indices)...)
	return strings.Join(lines, "\n")
}
