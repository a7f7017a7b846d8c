// Package msg defines the message types used by the TUI's Bubbletea event
// loop and the command factories that produce them.
//
// Messages that originate outside the loop (file watcher, row load timers)
// are delivered with tea.Program.Send; everything else is returned from a
// tea.Cmd.
package msg
