package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/logging"
	"github.com/Iron-Ham/planboard/internal/rows"
	tuimsg "github.com/Iron-Ham/planboard/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   *Model
	opts    Options
	logger  *logging.Logger
}

// New creates a new TUI application. Row load timers are posted into the
// program's event loop, so opts.Scheduler is replaced.
func New(opts Options) *App {
	a := &App{opts: opts, logger: logging.OrNop(opts.Logger).WithComponent("app")}
	opts.Scheduler = rows.PostScheduler{Post: func(fn func()) {
		a.send(tuimsg.ScheduledMsg{Fn: fn})
	}}
	a.model = NewModel(opts)
	return a
}

// Model returns the application's model.
func (a *App) Model() *Model {
	return a.model
}

func (a *App) send(m tea.Msg) {
	if a.program != nil {
		a.program.Send(m)
	}
}

// Run starts the program and blocks until it exits.
func (a *App) Run() error {
	defer a.model.Close()

	options := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if a.model.cfg.TUI.Mouse {
		options = append(options, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.model, options...)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.Quit())
		}
	}()

	if a.opts.Path != "" && a.model.cfg.Board.Watch {
		w, err := board.NewWatcher(a.opts.Path, a.opts.Logger)
		if err != nil {
			a.logger.Warn("board watcher unavailable", "error", err)
		} else {
			w.SetCallbacks(
				func(b *board.Board) { a.send(tuimsg.BoardReloadedMsg{Board: b}) },
				func(err error) { a.send(tuimsg.WatchErrorMsg{Err: err}) },
			)
			if err := w.Start(); err != nil {
				a.logger.Warn("board watcher failed to start", "error", err)
			}
			defer w.Stop()
		}
	}

	_, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}
