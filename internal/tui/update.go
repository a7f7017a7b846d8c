package tui

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/event"
	"github.com/Iron-Ham/planboard/internal/gesture"
	"github.com/Iron-Ham/planboard/internal/tui/keymap"
	tuimsg "github.com/Iron-Ham/planboard/internal/tui/msg"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncVisible()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.planner.SetPixelWidth(float64(m.axisWidth()))
		m.clampScroll()
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.BlurMsg:
		if m.planner.CancelGesture() {
			m.logger.Debug("gesture cancelled on focus loss")
		}
		return nil

	case tuimsg.DrainMsg:
		n := m.planner.Drain()
		cmds := m.pending
		m.pending = nil
		if n > 0 {
			m.logger.Debug("callbacks drained", "count", n)
		}
		return tea.Batch(cmds...)

	case tuimsg.ScheduledMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		return nil

	case tuimsg.BoardReloadedMsg:
		return m.applyBoard(msg.Board)

	case tuimsg.WatchErrorMsg:
		m.publish(event.NewBoardReloadedEvent(m.path, 0, msg.Err))
		return m.reportError("reload failed", msg.Err)

	case tuimsg.SavedMsg:
		if msg.Superseded {
			m.logger.Debug("save superseded", "gen", msg.Gen)
			return nil
		}
		if msg.Err != nil {
			m.dirty = true
			return m.reportError("save failed", msg.Err)
		}
		if msg.Gen != m.saveGen {
			// A newer snapshot is still on its way to disk.
			return nil
		}
		m.dirty = false
		return m.setStatus("saved " + msg.Path)

	case tuimsg.ErrMsg:
		return m.reportError("unexpected error", msg.Err)

	case tuimsg.ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}
		return nil
	}

	if m.mode == keymap.ModeEdit {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(1)
		return nil
	}

	if m.mode == keymap.ModeEdit {
		return nil
	}
	row, px, inRow := m.pointer(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if m.mode == keymap.ModeMenu {
			m.closeMenu()
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.pointerDown(row, px, inRow)
		case tea.MouseButtonRight:
			if !inRow || !m.rowMgr.IsLoaded(row) {
				return nil
			}
			ref, actions := m.planner.Secondary(row, px)
			if len(actions) > 0 {
				m.openMenu(ref, actions)
			}
			return nil
		}

	case tea.MouseActionMotion:
		if _, ok := m.planner.Captured(); !ok {
			return nil
		}
		m.planner.PointerMove(px)
		return tuimsg.Drain()

	case tea.MouseActionRelease:
		res, err := m.planner.PointerUp(px)
		if err != nil {
			return nil
		}
		m.afterGesture(res.Ref, res.Outcome)
		return tuimsg.Drain()
	}
	return nil
}

func (m *Model) pointerDown(row int, px float64, inRow bool) tea.Cmd {
	if !inRow || !m.rowMgr.IsLoaded(row) {
		m.clearSelection()
		return nil
	}
	hit, err := m.planner.PointerDown(row, px)
	switch {
	case errors.Is(err, errors.ErrNoTarget):
		m.clearSelection()
		return nil
	case err != nil:
		m.logger.Debug("pointer down ignored", "row", row, "error", err)
		return nil
	}
	m.logger.Debug("gesture started", "event", hit.Ref.String(), "target", hit.Target.String())
	return tuimsg.Drain()
}

// afterGesture turns two clicks on the same event inside the configured
// window into a double click.
func (m *Model) afterGesture(ref callback.Ref, out gesture.Outcome) {
	if out.Kind != gesture.OutcomeClick {
		m.last = clickRecord{}
		return
	}
	now := m.now()
	if m.last.ref == ref && now.Sub(m.last.at) <= m.cfg.Interaction.DoubleClickWindow() {
		m.last = clickRecord{}
		m.planner.DoubleClickEvent(ref)
		return
	}
	m.last = clickRecord{ref: ref, at: now}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	cmd := m.keys.Lookup(m.mode, msg)

	switch m.mode {
	case keymap.ModeEdit:
		switch cmd {
		case keymap.CmdConfirm:
			return m.commitEdit()
		case keymap.CmdCancel:
			m.closeEditor()
			return nil
		}
		var c tea.Cmd
		m.editor, c = m.editor.Update(msg)
		return c

	case keymap.ModeMenu:
		switch cmd {
		case keymap.CmdMenuUp:
			if m.menu.cursor > 0 {
				m.menu.cursor--
			}
		case keymap.CmdMenuDown:
			if m.menu.cursor < len(m.menu.actions)-1 {
				m.menu.cursor++
			}
		case keymap.CmdConfirm:
			ref, action := m.menu.ref, m.menu.actions[m.menu.cursor]
			m.closeMenu()
			if m.planner.Invoke(ref, action) {
				return tuimsg.Drain()
			}
		case keymap.CmdCancel:
			m.closeMenu()
		case keymap.CmdQuit:
			return m.quit()
		}
		return nil
	}

	switch cmd {
	case keymap.CmdScrollUp:
		m.scrollBy(-1)
	case keymap.CmdScrollDown:
		m.scrollBy(1)
	case keymap.CmdPageUp:
		m.scrollBy(-max(1, m.bodyHeight()))
	case keymap.CmdPageDown:
		m.scrollBy(max(1, m.bodyHeight()))
	case keymap.CmdEdit:
		return m.invokeSelected(callback.ActionEdit)
	case keymap.CmdDelete:
		return m.invokeSelected(callback.ActionDelete)
	case keymap.CmdMenu:
		if ref, ok := m.Selected(); ok {
			if actions := m.planner.Actions(ref); len(actions) > 0 {
				m.openMenu(ref, actions)
			}
		}
	case keymap.CmdSave:
		if m.path == "" {
			return m.setError("no file to save to")
		}
		return m.save()
	case keymap.CmdReload:
		if m.path == "" {
			return nil
		}
		return tuimsg.Reload(m.path)
	case keymap.CmdCancel:
		switch {
		case m.planner.CancelGesture():
			return m.setStatus("gesture cancelled")
		case m.popover != "":
			m.popover = ""
		default:
			m.clearSelection()
		}
	case keymap.CmdToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.clampScroll()
	case keymap.CmdQuit:
		return m.quit()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.planner.CancelGesture()
	m.quitting = true
	return tea.Quit
}

func (m *Model) invokeSelected(a callback.Action) tea.Cmd {
	ref, ok := m.Selected()
	if !ok {
		return nil
	}
	if !m.planner.Invoke(ref, a) {
		return nil
	}
	return tuimsg.Drain()
}

// applyBoard replaces the model's board with one read from disk.
func (m *Model) applyBoard(b *board.Board) tea.Cmd {
	data, err := board.Marshal(b)
	if err == nil {
		if current, err := board.Marshal(m.board); err == nil && bytes.Equal(data, current) {
			m.logger.Debug("reloaded board unchanged")
			return nil
		}
		if m.isStaleEcho(data) {
			m.logger.Debug("ignoring reload of an older save")
			return nil
		}
	}
	m.board = b
	changed := m.planner.Sync(b)
	m.dirty = false
	m.recent = nil

	if ref, ok := m.Selected(); ok {
		if _, exists := m.planner.Controller(ref); !exists {
			m.clearSelection()
		} else if m.popover != "" {
			m.popover, _ = m.planner.Popover(ref)
		}
	}
	if m.mode == keymap.ModeEdit {
		if _, exists := m.planner.Controller(m.editing); !exists {
			m.closeEditor()
		}
	}
	if m.mode == keymap.ModeMenu {
		if _, exists := m.planner.Controller(m.menu.ref); !exists {
			m.closeMenu()
		}
	}
	m.clampScroll()

	m.publish(event.NewBoardReloadedEvent(m.path, b.EventCount(), nil))
	m.logger.Info("board reloaded", "events", b.EventCount(), "changed", changed)
	return tea.Batch(tuimsg.Drain(), m.setStatus(fmt.Sprintf("reloaded (%d changed)", changed)))
}

// isStaleEcho reports whether data is one of our own snapshots that the
// board has moved past: an older one, or the latest while unsaved edits
// sit on top of it. The watcher sees every save.
func (m *Model) isStaleEcho(data []byte) bool {
	for _, snap := range m.recent {
		if (snap.gen < m.saveGen || m.dirty) && bytes.Equal(snap.data, data) {
			return true
		}
	}
	return false
}

func (m *Model) openMenu(ref callback.Ref, actions []callback.Action) {
	m.menu = menuState{ref: ref, actions: actions}
	m.selected = ref
	m.mode = keymap.ModeMenu
	m.clampScroll()
}

func (m *Model) closeMenu() {
	m.menu = menuState{}
	m.mode = keymap.ModeNormal
}

func (m *Model) openEditor(ref callback.Ref) tea.Cmd {
	ev, err := m.board.Find(ref.RowID, ref.EventID)
	if err != nil {
		return nil
	}
	m.menu = menuState{}
	m.editing = ref
	m.selected = ref
	m.mode = keymap.ModeEdit
	m.editor.SetValue(ev.Label)
	m.editor.CursorEnd()
	m.clampScroll()
	return m.editor.Focus()
}

func (m *Model) closeEditor() {
	m.editor.Blur()
	m.editor.Reset()
	m.editing = callback.Ref{}
	m.mode = keymap.ModeNormal
}

func (m *Model) commitEdit() tea.Cmd {
	ref := m.editing
	label := strings.TrimSpace(m.editor.Value())
	m.closeEditor()
	if label == "" {
		return m.setError("label cannot be empty")
	}
	if err := m.board.RenameEvent(ref.RowID, ref.EventID, label); err != nil {
		return m.reportError("rename failed", err)
	}
	m.planner.Sync(m.board)
	if m.popover != "" {
		m.popover, _ = m.planner.Popover(ref)
	}
	return tea.Batch(tuimsg.Drain(), m.persist(), m.setStatus("renamed "+ref.String()))
}

func (m *Model) clearSelection() {
	m.selected = callback.Ref{}
	m.popover = ""
}

// persist saves a copy of the board when autosave is on.
func (m *Model) persist() tea.Cmd {
	m.dirty = true
	if m.path == "" || !m.cfg.Board.Autosave {
		return nil
	}
	return m.save()
}

// save hands the next numbered snapshot of the board to the saver.
func (m *Model) save() tea.Cmd {
	snap := m.board.Clone()
	m.saveGen++
	if data, err := board.Marshal(snap); err == nil {
		m.recent = append(m.recent, snapshot{gen: m.saveGen, data: data})
		if len(m.recent) > maxRecentSnapshots {
			m.recent = m.recent[len(m.recent)-maxRecentSnapshots:]
		}
	}
	return m.saver.Save(m.path, snap, m.saveGen)
}

func (m *Model) setStatus(text string) tea.Cmd {
	return m.showStatus(text, false)
}

func (m *Model) setError(text string) tea.Cmd {
	m.logger.Warn("status error", "message", text)
	return m.showStatus(text, true)
}

// reportError shows err on the status line and logs it at its severity.
// Errors not marked user facing are shown as fallback only.
func (m *Model) reportError(fallback string, err error) tea.Cmd {
	sev := errors.GetSeverity(err)
	args := []any{"error", err.Error(), "severity", sev.String()}
	switch sev {
	case errors.SeverityError:
		m.logger.Error(fallback, args...)
	case errors.SeverityWarning:
		m.logger.Warn(fallback, args...)
	default:
		m.logger.Debug(fallback, args...)
	}

	text := fallback
	if errors.IsUserFacing(err) {
		text = err.Error()
	}
	return m.showStatus(text, sev >= errors.SeverityWarning)
}

func (m *Model) showStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status, m.statusErr = text, isErr
	if m.statusTTL < 0 {
		return nil
	}
	return tuimsg.ClearStatusAfter(m.statusTTL, m.statusSeq)
}

func (m *Model) publish(e event.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}
