// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are grouped by input mode; the same key may mean different
// commands in different modes.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
type Mode string

const (
	ModeNormal Mode = "normal" // Board interaction
	ModeMenu   Mode = "menu"   // Secondary action menu is open
	ModeEdit   Mode = "edit"   // Editing an event label
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdNone       Command = ""
	CmdScrollUp   Command = "scroll_up"
	CmdScrollDown Command = "scroll_down"
	CmdPageUp     Command = "page_up"
	CmdPageDown   Command = "page_down"
	CmdEdit       Command = "edit"
	CmdDelete     Command = "delete"
	CmdMenu       Command = "menu"
	CmdSave       Command = "save"
	CmdReload     Command = "reload"
	CmdCancel     Command = "cancel"
	CmdToggleHelp Command = "toggle_help"
	CmdQuit       Command = "quit"
)

// Menu and edit mode commands
const (
	CmdMenuUp   Command = "menu_up"
	CmdMenuDown Command = "menu_down"
	CmdConfirm  Command = "confirm"
)

// KeyMap holds every binding. It implements help.KeyMap for normal mode.
type KeyMap struct {
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Menu       key.Binding
	Save       key.Binding
	Reload     key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding

	MenuUp   key.Binding
	MenuDown key.Binding
	Confirm  key.Binding
}

// Default returns the default key bindings.
func Default() *KeyMap {
	return &KeyMap{
		ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "scroll down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit label")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete event")),
		Menu:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "actions")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		MenuUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "previous")),
		MenuDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "next")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	}
}

// Lookup returns the command bound to msg in mode, or CmdNone. In edit
// mode only confirm and cancel are bound; every other key belongs to the
// text input.
func (k *KeyMap) Lookup(mode Mode, msg tea.KeyMsg) Command {
	switch mode {
	case ModeEdit:
		switch {
		case key.Matches(msg, k.Confirm):
			return CmdConfirm
		case key.Matches(msg, k.Cancel):
			return CmdCancel
		}
		return CmdNone

	case ModeMenu:
		switch {
		case key.Matches(msg, k.MenuUp):
			return CmdMenuUp
		case key.Matches(msg, k.MenuDown):
			return CmdMenuDown
		case key.Matches(msg, k.Confirm):
			return CmdConfirm
		case key.Matches(msg, k.Cancel):
			return CmdCancel
		case key.Matches(msg, k.Quit):
			return CmdQuit
		}
		return CmdNone
	}

	bindings := []struct {
		b   key.Binding
		cmd Command
	}{
		{k.ScrollUp, CmdScrollUp},
		{k.ScrollDown, CmdScrollDown},
		{k.PageUp, CmdPageUp},
		{k.PageDown, CmdPageDown},
		{k.Edit, CmdEdit},
		{k.Delete, CmdDelete},
		{k.Menu, CmdMenu},
		{k.Save, CmdSave},
		{k.Reload, CmdReload},
		{k.Cancel, CmdCancel},
		{k.Help, CmdToggleHelp},
		{k.Quit, CmdQuit},
	}
	for _, bc := range bindings {
		if key.Matches(msg, bc.b) {
			return bc.cmd
		}
	}
	return CmdNone
}

// ShortHelp implements help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Edit, k.Delete, k.Menu},
		{k.Save, k.Reload, k.Cancel},
		{k.Help, k.Quit},
	}
}
