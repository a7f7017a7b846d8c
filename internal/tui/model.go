// Package tui hosts a planner in a full-screen terminal UI.
//
// The Model owns a board, a planner.Planner laid out on it and a
// rows.Manager driving the row placeholders. Pointer input is translated to
// planner calls; the deferred host callbacks those calls produce are run
// on the next DrainMsg, after the Update that caused them has returned.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/config"
	"github.com/Iron-Ham/planboard/internal/event"
	"github.com/Iron-Ham/planboard/internal/logging"
	"github.com/Iron-Ham/planboard/internal/planner"
	"github.com/Iron-Ham/planboard/internal/rows"
	"github.com/Iron-Ham/planboard/internal/tui/keymap"
	tuimsg "github.com/Iron-Ham/planboard/internal/tui/msg"
	"github.com/Iron-Ham/planboard/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
)

// Layout constants
const (
	HeaderHeight     = 2 // title line + axis labels
	MinTitleWidth    = 4
	DefaultStatusTTL = 4 * time.Second
)

// Options configures a Model.
type Options struct {
	// Path is where edits are saved. Empty disables saving.
	Path   string
	Board  *board.Board
	Config *config.Config
	Bus    *event.Bus
	Logger *logging.Logger
	// Scheduler drives row load timers. Nil uses real timers that fire on
	// their own goroutines; App installs one that posts into the event loop.
	Scheduler rows.Scheduler
	// Now is the clock used for double-click detection.
	Now func() time.Time
	// StatusTTL is how long status messages stay up. Zero means
	// DefaultStatusTTL; negative keeps them until replaced.
	StatusTTL time.Duration
}

type menuState struct {
	ref     callback.Ref
	actions []callback.Action
	cursor  int
}

type snapshot struct {
	gen  uint64
	data []byte
}

// maxRecentSnapshots bounds how many saved encodings are remembered.
const maxRecentSnapshots = 8

type clickRecord struct {
	ref callback.Ref
	at  time.Time
}

// Model is the Bubbletea model for a board.
type Model struct {
	path    string
	board   *board.Board
	cfg     *config.Config
	bus     *event.Bus
	logger  *logging.Logger
	planner *planner.Planner
	rowMgr  *rows.Manager
	unsub   func()

	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model
	editor textinput.Model

	mode   keymap.Mode
	width  int
	height int
	scroll int

	selected callback.Ref
	popover  string
	menu     menuState
	editing  callback.Ref
	last     clickRecord

	status    string
	statusErr bool
	statusSeq int
	statusTTL time.Duration
	dirty     bool

	// saveGen numbers board snapshots handed to saver. recent holds the
	// encodings of the last few so their watcher echoes can be told apart
	// from outside edits.
	saver   *tuimsg.Saver
	saveGen uint64
	recent  []snapshot

	// pending collects commands produced by host callbacks during a drain.
	pending  []tea.Cmd
	quitting bool
	now      func() time.Time
}

// NewModel creates a Model. The board is owned by the model from here on.
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	b := opts.Board
	if b == nil {
		b = &board.Board{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.StatusTTL
	if ttl == 0 {
		ttl = DefaultStatusTTL
	}
	logger := logging.OrNop(opts.Logger).WithComponent("tui")

	editor := textinput.New()
	editor.Prompt = "label: "
	editor.CharLimit = 80

	m := &Model{
		path:      opts.Path,
		board:     b,
		cfg:       cfg,
		bus:       opts.Bus,
		logger:    logger,
		styles:    styles.New(styles.ThemeName(cfg.TUI.Theme)),
		keys:      keymap.Default(),
		help:      help.New(),
		editor:    editor,
		mode:      keymap.ModeNormal,
		statusTTL: ttl,
		saver:     &tuimsg.Saver{},
		now:       now,
	}

	m.planner = planner.New(planner.Options{
		Board:          b,
		ClickThreshold: cfg.Interaction.ClickThreshold,
		HandleWidth:    float64(cfg.Interaction.HandleWidth),
		Callbacks:      m.hostCallbacks(),
		Bus:            opts.Bus,
		Logger:         opts.Logger,
	})
	m.rowMgr = rows.NewManager(rows.Options{
		Delay:     cfg.Rows.LoadDelay(),
		Scheduler: opts.Scheduler,
		Logger:    opts.Logger,
	})
	m.unsub = m.rowMgr.Subscribe(m.onRowChanges)
	return m
}

// Close releases the row manager and its timers.
func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.rowMgr.Close()
}

// Board returns the model's current board.
func (m *Model) Board() *board.Board {
	return m.board
}

// Planner returns the planner laid out on the board.
func (m *Model) Planner() *planner.Planner {
	return m.planner
}

// Rows returns the row state manager.
func (m *Model) Rows() *rows.Manager {
	return m.rowMgr
}

// Selected returns the selected event, if any.
func (m *Model) Selected() (callback.Ref, bool) {
	return m.selected, m.selected != callback.Ref{}
}

// Mode returns the current input mode.
func (m *Model) Mode() keymap.Mode {
	return m.mode
}

// Status returns the status line text and whether it is an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) onRowChanges(changes []rows.Change) {
	if m.bus == nil {
		return
	}
	for _, c := range changes {
		m.bus.Publish(event.NewRowStateEvent(c.Index, c.From.String(), c.To.String()))
	}
}

// titleWidth is the configured title column, narrowed on small terminals.
func (m *Model) titleWidth() int {
	return titleColumn(m.cfg.TUI.TitleWidth, m.width)
}

// axisWidth is the number of cells right of the title column and separator.
func (m *Model) axisWidth() int {
	w := m.width - m.titleWidth() - 1
	if w < 0 {
		return 0
	}
	return w
}

func (m *Model) footerHeight() int {
	return 1 + lineCount(m.helpView())
}

func (m *Model) bodyHeight() int {
	h := m.height - HeaderHeight - m.footerHeight() - lineCount(m.panel())
	if h < 0 {
		return 0
	}
	return h
}

// visibleRows returns the row indices on screen.
func (m *Model) visibleRows() []int {
	n := m.planner.RowCount()
	end := m.scroll + m.bodyHeight()
	if end > n {
		end = n
	}
	if m.scroll >= end {
		return nil
	}
	out := make([]int, 0, end-m.scroll)
	for i := m.scroll; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func (m *Model) clampScroll() {
	maxScroll := m.planner.RowCount() - m.bodyHeight()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) scrollBy(n int) {
	m.scroll += n
	m.clampScroll()
}

// syncVisible reports the on-screen rows to the row manager.
func (m *Model) syncVisible() {
	if m.width == 0 {
		return
	}
	if err := m.rowMgr.SetVisible(m.visibleRows()); err != nil {
		m.logger.Debug("visible rows not updated", "error", err)
	}
}

// pointer maps a terminal cell to a row index and an axis pixel at the
// middle of the cell.
func (m *Model) pointer(x, y int) (row int, px float64, ok bool) {
	px = float64(x-m.titleWidth()-1) + 0.5
	line := y - HeaderHeight
	if line < 0 || line >= m.bodyHeight() {
		return -1, px, false
	}
	row = m.scroll + line
	if row >= m.planner.RowCount() {
		return -1, px, false
	}
	return row, px, true
}
