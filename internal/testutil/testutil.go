// Package testutil provides testing utilities for planboard tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/planboard/internal/callback"
)

// WriteBoard writes a board file into a temporary directory and returns
// its path. The directory is cleaned up when the test completes.
func WriteBoard(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write board file: %v", err)
	}
	return path
}

// ManualScheduler is a deterministic timer source. Timers fire only when
// Advance moves the fake clock past their deadline.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	id int
	at time.Duration
	fn func()
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[int]*manualTimer)}
}

// AfterFunc schedules fn to run d after the current fake time. The returned
// function cancels the timer and reports whether it was still pending.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = &manualTimer{id: id, at: s.now + d, fn: fn}

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.timers[id]; !ok {
			return false
		}
		delete(s.timers, id)
		return true
	}
}

// Advance moves the fake clock forward by d and fires every timer that
// became due, in deadline order. Timer functions run without the
// scheduler lock held. It returns the number of timers fired.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for id, tm := range s.timers {
		if tm.at <= s.now {
			due = append(due, tm)
			delete(s.timers, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})
	for _, tm := range due {
		tm.fn()
	}
	return len(due)
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Recorder captures host callback invocations as strings, e.g.
// "drag ops/deploy 2 4 0 2".
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Callbacks returns a full callback set that records into r, including
// Edit and Delete.
func (r *Recorder) Callbacks() *callback.Callbacks {
	return &callback.Callbacks{
		OnClick:       func(ref callback.Ref) { r.add("click %s", ref) },
		OnDoubleClick: func(ref callback.Ref) { r.add("dblclick %s", ref) },
		OnDrag: func(ref callback.Ref, ps, pe, s, e int64) {
			r.add("drag %s %d %d %d %d", ref, ps, pe, s, e)
		},
		OnResize: func(ref callback.Ref, ps, pe, s, e int64, edge string) {
			r.add("resize %s %d %d %d %d %s", ref, ps, pe, s, e, edge)
		},
		OnPositionChange: func(ref callback.Ref, s, e int64) { r.add("position %s %d %d", ref, s, e) },
		OnEdit:           func(ref callback.Ref) { r.add("edit %s", ref) },
		OnDelete:         func(ref callback.Ref) { r.add("delete %s", ref) },
	}
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Filter returns the recorded calls whose first word is kind.
func (r *Recorder) Filter(kind string) []string {
	var out []string
	for _, c := range r.Calls() {
		if len(c) >= len(kind) && c[:len(kind)] == kind && (len(c) == len(kind) || c[len(kind)] == ' ') {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
