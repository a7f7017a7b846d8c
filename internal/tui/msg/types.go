package msg

import "github.com/Iron-Ham/planboard/internal/board"

// DrainMsg asks the model to run the deferred host callbacks. It is issued
// after every handled pointer message so that callbacks run once the
// pointer handler has returned.
type DrainMsg struct{}

// ScheduledMsg carries a timer callback onto the event loop.
type ScheduledMsg struct {
	Fn func()
}

// BoardReloadedMsg carries a board that was re-read from disk.
type BoardReloadedMsg struct {
	Board *board.Board
}

// WatchErrorMsg reports a failed reload. The previous board stays in use.
type WatchErrorMsg struct {
	Err error
}

// SavedMsg reports the result of writing snapshot Gen of the board.
// Superseded is set when a newer snapshot was already on disk and this
// one was not written.
type SavedMsg struct {
	Path       string
	Gen        uint64
	Err        error
	Superseded bool
}

// ErrMsg wraps an error to be displayed in the UI.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg clears the status line if it still shows message Seq.
type ClearStatusMsg struct {
	Seq int
}
