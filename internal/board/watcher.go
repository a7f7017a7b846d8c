package board

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/logging"
)

// DefaultDebounce collapses the burst of events editors produce for one
// save.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reloads a board file when something rewrites it.
//
// The parent directory is watched rather than the file, because editors
// and Save both replace the file by renaming over it. Parse failures are
// reported to the error callback and the watcher keeps running.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	onChange func(*Board)
	onError  func(error)

	logger   *logging.Logger
	mu       sync.RWMutex
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewWatcher creates a watcher for the board at path. Call Start to begin
// watching.
func NewWatcher(path string, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   logging.OrNop(logger).WithComponent("watcher").WithBoard(abs),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetCallbacks sets the reload and error callbacks. They are called from
// the watcher goroutine.
func (w *Watcher) SetCallbacks(onChange func(*Board), onError func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = onChange
	w.onError = onError
}

// SetDebounce changes the quiet period before a reload. It must be called
// before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching the board's directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	go w.watchLoop()
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit. It is
// safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
		if w.started {
			<-w.doneCh
		}
	})
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if pending {
				pending = false
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

func (w *Watcher) reload() {
	w.mu.RLock()
	onChange, onError := w.onChange, w.onError
	w.mu.RUnlock()

	b, err := Load(w.path)
	if err != nil {
		// The previous board stays in use.
		var be *errors.BoardError
		if errors.As(err, &be) {
			be.WithSeverity(errors.SeverityWarning)
		}
		w.logger.Warn("board reload failed", "error", err.Error())
		if onError != nil {
			onError(err)
		}
		return
	}
	w.logger.Debug("board reloaded", "rows", len(b.Rows), "events", b.EventCount())
	if onChange != nil {
		onChange(b)
	}
}
