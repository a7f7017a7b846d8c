package msg

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/planboard/internal/board"
)

// Drain returns a command that sends a DrainMsg.
func Drain() tea.Cmd {
	return func() tea.Msg {
		return DrainMsg{}
	}
}

// Saver orders board writes. Save commands run on their own goroutines
// and may start in any order; a snapshot older than the one already
// written is dropped instead of overwriting it.
type Saver struct {
	mu      sync.Mutex
	written uint64
}

// Save returns a command that writes b to path off the event loop. gen
// must increase with every snapshot handed to this Saver. The caller
// passes a copy it will not mutate.
func (s *Saver) Save(path string, b *board.Board, gen uint64) tea.Cmd {
	return func() tea.Msg {
		s.mu.Lock()
		defer s.mu.Unlock()

		if gen <= s.written {
			return SavedMsg{Path: path, Gen: gen, Superseded: true}
		}
		if err := board.Save(path, b); err != nil {
			return SavedMsg{Path: path, Gen: gen, Err: err}
		}
		s.written = gen
		return SavedMsg{Path: path, Gen: gen}
	}
}

// Reload returns a command that re-reads the board at path.
func Reload(path string) tea.Cmd {
	return func() tea.Msg {
		b, err := board.Load(path)
		if err != nil {
			return WatchErrorMsg{Err: err}
		}
		return BoardReloadedMsg{Board: b}
	}
}

// ClearStatusAfter returns a command that sends a ClearStatusMsg for seq
// after d.
func ClearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
