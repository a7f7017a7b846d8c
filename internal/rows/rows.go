// Package rows tracks the load state of virtualized rows.
//
// A row that becomes visible while unloaded enters Loading and gets its own
// one-shot timer; when the timer fires the row becomes Loaded. A row that
// leaves the visible set returns to Unloaded at once and its timer is
// cancelled. There is no warm state: scrolling a row out and back in
// starts a fresh cycle.
package rows

import (
	"sort"
	"sync"
	"time"

	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/logging"
)

// State is a row's load state.
type State int

const (
	// Unloaded rows paint nothing.
	Unloaded State = iota
	// Loading rows paint a placeholder.
	Loading
	// Loaded rows paint their content.
	Loaded
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Change is one row's transition.
type Change struct {
	Index int
	From  State
	To    State
}

// Listener receives every transition caused by a single call, in row
// order.
type Listener func(changes []Change)

// DefaultLoadDelay is the Loading to Loaded delay used when none is given.
const DefaultLoadDelay = 150 * time.Millisecond

// Options configures a Manager.
type Options struct {
	// Delay is the time a row spends in Loading. Zero or less loads
	// visible rows immediately.
	Delay     time.Duration
	Scheduler Scheduler
	Logger    *logging.Logger
}

type pendingLoad struct {
	token uint64
	stop  func() bool
}

// Manager owns the per-row state machine. It is safe for concurrent use,
// so timers may fire on their own goroutines; listeners are always called
// without the lock held.
type Manager struct {
	mu        sync.Mutex
	states    map[int]State
	timers    map[int]pendingLoad
	visible   map[int]bool
	listeners map[uint64]Listener
	nextSub   uint64
	nextToken uint64
	closed    bool

	delay     time.Duration
	scheduler Scheduler
	logger    *logging.Logger
}

// NewManager creates a Manager with no rows observed.
func NewManager(opts Options) *Manager {
	sched := opts.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Manager{
		states:    make(map[int]State),
		timers:    make(map[int]pendingLoad),
		visible:   make(map[int]bool),
		listeners: make(map[uint64]Listener),
		delay:     opts.Delay,
		scheduler: sched,
		logger:    logging.OrNop(opts.Logger).WithComponent("rows"),
	}
}

// State returns the state of row i. Rows never observed are Unloaded.
func (m *Manager) State(i int) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[i]
}

// IsLoaded reports whether row i is Loaded.
func (m *Manager) IsLoaded(i int) bool {
	return m.State(i) == Loaded
}

// Visible returns the current visible set in ascending order.
func (m *Manager) Visible() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, 0, len(m.visible))
	for i := range m.visible {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Subscribe registers l and returns a function that removes it.
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// MarkVisible adds rows to the visible set.
func (m *Manager) MarkVisible(indices ...int) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.ErrManagerClosed
	}
	var changes []Change
	for _, i := range dedupe(indices) {
		if m.visible[i] {
			continue
		}
		m.visible[i] = true
		changes = m.enter(i, changes)
	}
	m.mu.Unlock()

	m.fanOut(changes)
	return nil
}

// MarkInvisible removes rows from the visible set.
func (m *Manager) MarkInvisible(indices ...int) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.ErrManagerClosed
	}
	var changes []Change
	for _, i := range dedupe(indices) {
		if !m.visible[i] {
			continue
		}
		delete(m.visible, i)
		changes = m.leave(i, changes)
	}
	m.mu.Unlock()

	m.fanOut(changes)
	return nil
}

// SetVisible replaces the visible set, diffing it against the current one.
// Rows leaving are processed before rows entering.
func (m *Manager) SetVisible(indices []int) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.ErrManagerClosed
	}

	next := make(map[int]bool, len(indices))
	for _, i := range indices {
		next[i] = true
	}

	var leaving, entering []int
	for i := range m.visible {
		if !next[i] {
			leaving = append(leaving, i)
		}
	}
	for i := range next {
		if !m.visible[i] {
			entering = append(entering, i)
		}
	}
	sort.Ints(leaving)
	sort.Ints(entering)

	var changes []Change
	for _, i := range leaving {
		delete(m.visible, i)
		changes = m.leave(i, changes)
	}
	for _, i := range entering {
		m.visible[i] = true
		changes = m.enter(i, changes)
	}
	m.mu.Unlock()

	m.fanOut(changes)
	return nil
}

// Close cancels every pending timer, clears all state and drops all
// listeners. Later calls return ErrManagerClosed; Close itself is
// idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true

	cancelled := 0
	for i, p := range m.timers {
		if p.stop() {
			cancelled++
		}
		delete(m.timers, i)
	}
	m.states = make(map[int]State)
	m.visible = make(map[int]bool)
	m.listeners = make(map[uint64]Listener)

	m.logger.Debug("row manager closed", "cancelled_timers", cancelled)
}

// enter must be called with m.mu held.
func (m *Manager) enter(i int, changes []Change) []Change {
	if m.states[i] != Unloaded {
		return changes
	}
	if m.delay <= 0 {
		m.states[i] = Loaded
		return append(changes, Change{Index: i, From: Unloaded, To: Loaded})
	}

	m.states[i] = Loading
	m.nextToken++
	token := m.nextToken
	stop := m.scheduler.AfterFunc(m.delay, func() { m.loaded(i, token) })
	m.timers[i] = pendingLoad{token: token, stop: stop}
	return append(changes, Change{Index: i, From: Unloaded, To: Loading})
}

// leave must be called with m.mu held.
func (m *Manager) leave(i int, changes []Change) []Change {
	if p, ok := m.timers[i]; ok {
		p.stop()
		delete(m.timers, i)
	}
	from := m.states[i]
	delete(m.states, i)
	if from == Unloaded {
		return changes
	}
	return append(changes, Change{Index: i, From: from, To: Unloaded})
}

// loaded is the timer callback. A timer whose token no longer matches the
// row's pending load is stale and does nothing.
func (m *Manager) loaded(i int, token uint64) {
	m.mu.Lock()
	p, ok := m.timers[i]
	if m.closed || !ok || p.token != token || m.states[i] != Loading {
		m.mu.Unlock()
		m.logger.Debug("stale row timer ignored", "row", i)
		return
	}
	delete(m.timers, i)
	m.states[i] = Loaded
	m.mu.Unlock()

	m.fanOut([]Change{{Index: i, From: Loading, To: Loaded}})
}

// fanOut notifies every listener once. Listeners are snapshotted so they
// may subscribe, unsubscribe or call back into the manager.
func (m *Manager) fanOut(changes []Change) {
	if len(changes) == 0 {
		return
	}

	m.mu.Lock()
	ids := make([]uint64, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	for _, c := range changes {
		m.logger.Debug("row state changed", "row", c.Index, "from", c.From.String(), "to", c.To.String())
	}
	for _, l := range listeners {
		l(changes)
	}
}

func dedupe(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
