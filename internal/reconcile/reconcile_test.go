package reconcile

import (
	"testing"

	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
)

func b(start, end int64) constraint.Bounds {
	return constraint.Bounds{Start: start, End: end}
}

func newTracked(t *testing.T, initial constraint.Bounds, opts Options) (*Reconciler, *callback.Queue, *[]constraint.Bounds) {
	t.Helper()
	q := callback.NewQueue(nil)
	d := callback.NewDispatcher(callback.Ref{RowID: "r", EventID: "e"}, q, nil)
	var seen []constraint.Bounds
	d.SetCallbacks(&callback.Callbacks{
		OnPositionChange: func(_ callback.Ref, s, e int64) { seen = append(seen, b(s, e)) },
	})
	opts.Dispatcher = d
	return New(initial, opts), q, &seen
}

func TestSync_OverwritesRegardlessOfHistory(t *testing.T) {
	r, q, seen := newTracked(t, b(2, 4), Options{MinSize: 1})

	r.ApplyDelta(3, constraint.KindDrag, constraint.EdgeNone)
	r.ApplyDelta(-1, constraint.KindResize, constraint.EdgeEnd)
	if got := r.Local(); got != b(5, 6) {
		t.Fatalf("Local() after commits = %v", got)
	}

	if !r.Sync(b(0, 9)) {
		t.Fatal("Sync with a new value should change local")
	}
	if got := r.Local(); got != b(0, 9) {
		t.Errorf("Local() = %v, want {0 9}", got)
	}
	if got := r.Authoritative(); got != b(0, 9) {
		t.Errorf("Authoritative() = %v, want {0 9}", got)
	}
	if _, ok := r.Pending(); ok {
		t.Error("Sync should clear the pending commit")
	}

	q.Drain()
	if len(*seen) != 3 || (*seen)[2] != b(0, 9) {
		t.Errorf("position changes = %v", *seen)
	}
}

func TestSync_UnchangedValueIsIgnored(t *testing.T) {
	r, q, seen := newTracked(t, b(2, 4), Options{MinSize: 1})

	r.ApplyDelta(2, constraint.KindDrag, constraint.EdgeNone)
	if r.Sync(b(2, 4)) {
		t.Error("re-sending the same external value must not overwrite local")
	}
	if got := r.Local(); got != b(4, 6) {
		t.Errorf("Local() = %v, want optimistic {4 6}", got)
	}
	q.Drain()
	if len(*seen) != 1 {
		t.Errorf("position changes = %v, want only the commit", *seen)
	}
}

func TestSync_EchoOfPendingCommit(t *testing.T) {
	r, _, _ := newTracked(t, b(2, 4), Options{MinSize: 1})

	_, next := r.ApplyDelta(3, constraint.KindDrag, constraint.EdgeNone)
	if p, ok := r.Pending(); !ok || p != next {
		t.Fatalf("Pending() = %v, %v", p, ok)
	}

	if r.Sync(next) {
		t.Error("echo of our own commit should not report a local change")
	}
	if r.Authoritative() != next || r.Local() != next {
		t.Errorf("authoritative = %v, local = %v, want both %v", r.Authoritative(), r.Local(), next)
	}
	if _, ok := r.Pending(); ok {
		t.Error("echo should clear pending")
	}
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name      string
		initial   constraint.Bounds
		milestone bool
		delta     int64
		kind      constraint.Kind
		edge      constraint.Edge
		want      constraint.Bounds
	}{
		{"drag", b(2, 4), false, -2, constraint.KindDrag, constraint.EdgeNone, b(0, 2)},
		{"resize end", b(2, 4), false, 6, constraint.KindResize, constraint.EdgeEnd, b(2, 10)},
		{"resize start", b(2, 4), false, -2, constraint.KindResize, constraint.EdgeStart, b(0, 4)},
		{"end below min size", b(2, 4), false, -5, constraint.KindResize, constraint.EdgeEnd, b(2, 3)},
		{"start past end", b(2, 4), false, 5, constraint.KindResize, constraint.EdgeStart, b(3, 4)},
		{"milestone drag", b(5, 5), true, 2, constraint.KindDrag, constraint.EdgeNone, b(7, 7)},
		{"milestone resize collapses", b(5, 5), true, 2, constraint.KindResize, constraint.EdgeEnd, b(7, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.initial, Options{MinSize: 1, Milestone: tt.milestone})
			prev, next := r.ApplyDelta(tt.delta, tt.kind, tt.edge)
			if prev != tt.initial {
				t.Errorf("prev = %v, want %v", prev, tt.initial)
			}
			if next != tt.want {
				t.Errorf("next = %v, want %v", next, tt.want)
			}
			if r.Local() != tt.want {
				t.Errorf("Local() = %v, want %v", r.Local(), tt.want)
			}
			if r.Authoritative() != tt.initial {
				t.Errorf("ApplyDelta must not touch authoritative, got %v", r.Authoritative())
			}
		})
	}
}

func TestApplyDelta_ZeroIsNoop(t *testing.T) {
	r, q, seen := newTracked(t, b(2, 4), Options{MinSize: 1})

	prev, next := r.ApplyDelta(0, constraint.KindDrag, constraint.EdgeNone)
	if prev != next {
		t.Errorf("zero delta changed position: %v -> %v", prev, next)
	}
	if _, ok := r.Pending(); ok {
		t.Error("zero delta should not record a pending commit")
	}
	q.Drain()
	if len(*seen) != 0 {
		t.Errorf("zero delta notified %v", *seen)
	}
}

func TestApplyDelta_SizeInvariantHolds(t *testing.T) {
	for minSize := int64(1); minSize <= 3; minSize++ {
		for delta := int64(-12); delta <= 12; delta++ {
			for _, edge := range []constraint.Edge{constraint.EdgeStart, constraint.EdgeEnd} {
				r := New(b(4, 8), Options{MinSize: minSize})
				_, next := r.ApplyDelta(delta, constraint.KindResize, edge)
				if next.End < next.Start+minSize {
					t.Fatalf("minSize=%d delta=%d edge=%v: %v violates size", minSize, delta, edge, next)
				}
			}
		}
	}
}

func TestNew_NormalizesInitialLocal(t *testing.T) {
	r := New(b(6, 3), Options{MinSize: 2})
	if got := r.Local(); got != b(6, 8) {
		t.Errorf("Local() = %v, want {6 8}", got)
	}
	if got := r.Authoritative(); got != b(6, 3) {
		t.Errorf("Authoritative() = %v, want raw {6 3}", got)
	}

	m := New(b(5, 9), Options{Milestone: true})
	if got := m.Local(); got != b(5, 5) {
		t.Errorf("milestone Local() = %v, want {5 5}", got)
	}
	if m.MinSize() != 0 {
		t.Errorf("milestone MinSize() = %d", m.MinSize())
	}
}
