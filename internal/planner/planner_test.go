package planner

import (
	"reflect"
	"testing"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/errors"
	"github.com/Iron-Ham/planboard/internal/event"
	"github.com/Iron-Ham/planboard/internal/gesture"
	"github.com/Iron-Ham/planboard/internal/testutil"
)

var (
	deploy = callback.Ref{RowID: "ops", EventID: "deploy"}
	freeze = callback.Ref{RowID: "ops", EventID: "freeze"}
	build  = callback.Ref{RowID: "dev", EventID: "build"}
)

// testBoard is a 10-slot axis; at 100px wide each slot is 10px.
func testBoard() *board.Board {
	return &board.Board{
		Title: "Release",
		Axis:  board.AxisSpec{Start: board.Slot(0), End: board.Slot(10), Step: 1},
		Rows: []board.Row{
			{ID: "ops", Title: "Operations", Events: []board.Event{
				{ID: "deploy", Start: board.Slot(2), End: board.Slot(4), Label: "Deploy"},
				{ID: "freeze", Kind: board.KindMilestone, Start: board.Slot(7)},
			}},
			{ID: "dev", Events: []board.Event{
				{ID: "build", Start: board.Slot(0), End: board.Slot(1)},
			}},
		},
	}
}

func newPlanner(t *testing.T, b *board.Board) (*Planner, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	p := New(Options{Board: b, PixelWidth: 100, Callbacks: rec.Callbacks()})
	return p, rec
}

func gestureAt(t *testing.T, p *Planner, row int, from float64, moves ...float64) Result {
	t.Helper()
	if _, err := p.PointerDown(row, from); err != nil {
		t.Fatalf("PointerDown(%d, %v): %v", row, from, err)
	}
	last := from
	for _, x := range moves {
		if _, ok := p.PointerMove(x); !ok {
			t.Fatalf("PointerMove(%v) not routed", x)
		}
		last = x
	}
	res, err := p.PointerUp(last)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	return res
}

func TestLayout(t *testing.T) {
	p, _ := newPlanner(t, testBoard())

	ops := p.Layout(0)
	if len(ops) != 2 {
		t.Fatalf("Layout(0) returned %d primitives, want 2", len(ops))
	}

	d := ops[0]
	if d.Ref != deploy || d.X != 20 || d.Width != 20 || d.Label != "Deploy" || d.Kind != board.KindSpan {
		t.Errorf("deploy primitive = %+v", d)
	}
	if !d.StartHandle || !d.EndHandle {
		t.Errorf("deploy should expose both handles: %+v", d)
	}

	f := ops[1]
	if f.Ref != freeze || f.X != 70 || f.Width != DefaultMarkerWidth || f.Label != "freeze" {
		t.Errorf("freeze primitive = %+v", f)
	}
	if f.StartHandle || f.EndHandle {
		t.Error("milestone should expose no handles")
	}

	if got := p.Layout(5); got != nil {
		t.Errorf("Layout(out of range) = %v, want nil", got)
	}
	if p.RowCount() != 2 || p.RowTitle(0) != "Operations" || p.RowTitle(1) != "dev" || p.RowTitle(9) != "" {
		t.Error("row accessors mismatch")
	}
}

func TestHandles(t *testing.T) {
	tests := []struct {
		width      float64
		start, end bool
	}{
		{0, false, false},
		{1, false, true},
		{2, false, true},
		{3, true, true},
		{20, true, true},
	}
	for _, tt := range tests {
		s, e := handles(tt.width, 1)
		if s != tt.start || e != tt.end {
			t.Errorf("handles(%v, 1) = %v, %v; want %v, %v", tt.width, s, e, tt.start, tt.end)
		}
	}
}

func TestHitTest(t *testing.T) {
	p, _ := newPlanner(t, testBoard())

	tests := []struct {
		name   string
		row    int
		x      float64
		ok     bool
		ref    callback.Ref
		target gesture.Target
	}{
		{"body", 0, 25, true, deploy, gesture.TargetBody},
		{"start handle", 0, 20.5, true, deploy, gesture.TargetStartHandle},
		{"end handle", 0, 39.5, true, deploy, gesture.TargetEndHandle},
		{"just past the end", 0, 40, false, callback.Ref{}, gesture.TargetBody},
		{"milestone", 0, 70.5, true, freeze, gesture.TargetBody},
		{"empty space", 0, 50, false, callback.Ref{}, gesture.TargetBody},
		{"other row", 1, 5, true, build, gesture.TargetBody},
		{"missing row", 4, 5, false, callback.Ref{}, gesture.TargetBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := p.HitTest(tt.row, tt.x)
			if ok != tt.ok {
				t.Fatalf("HitTest ok = %v, want %v", ok, tt.ok)
			}
			if ok && (hit.Ref != tt.ref || hit.Target != tt.target) {
				t.Errorf("HitTest = %+v, want %v %v", hit, tt.ref, tt.target)
			}
		})
	}
}

func TestDragPastAxisStartClamps(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	res := gestureAt(t, p, 0, 30, 0, -20)
	if res.Ref != deploy || res.Outcome.Kind != gesture.OutcomeDrag {
		t.Fatalf("result = %+v", res)
	}

	if calls := rec.Calls(); len(calls) != 0 {
		t.Fatalf("callbacks ran before drain: %v", calls)
	}
	p.Drain()

	if got := rec.Filter("drag"); !reflect.DeepEqual(got, []string{"drag ops/deploy 2 4 0 2"}) {
		t.Errorf("drag calls = %v", got)
	}
	if got := rec.Filter("position"); !reflect.DeepEqual(got, []string{"position ops/deploy 0 2"}) {
		t.Errorf("position calls = %v", got)
	}
	if prims := p.Layout(0); prims[0].X != 0 || prims[0].Width != 20 {
		t.Errorf("deploy after drag = %+v", prims[0])
	}
}

func TestResizeEnd(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	res := gestureAt(t, p, 0, 39.5, 89.5)
	if res.Outcome.Kind != gesture.OutcomeResize || res.Outcome.Edge != constraint.EdgeEnd {
		t.Fatalf("outcome = %+v", res.Outcome)
	}
	p.Drain()
	if got := rec.Filter("resize"); !reflect.DeepEqual(got, []string{"resize ops/deploy 2 4 2 9 end"}) {
		t.Errorf("resize calls = %v", got)
	}
}

func TestClickDoesNotMove(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	res := gestureAt(t, p, 0, 25, 26, 24)
	if res.Outcome.Kind != gesture.OutcomeClick {
		t.Fatalf("outcome = %v, want click", res.Outcome.Kind)
	}
	p.Drain()
	if got := rec.Calls(); !reflect.DeepEqual(got, []string{"click ops/deploy"}) {
		t.Errorf("calls = %v", got)
	}
	if b, _ := p.Bounds(deploy); b != (constraint.Bounds{Start: 2, End: 4}) {
		t.Errorf("bounds after click = %+v", b)
	}
}

func TestMilestoneDragsFromAnyPoint(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	res := gestureAt(t, p, 0, 70.5, 90.5)
	if res.Ref != freeze || res.Outcome.Kind != gesture.OutcomeDrag {
		t.Fatalf("result = %+v", res)
	}
	p.Drain()
	if got := rec.Filter("drag"); !reflect.DeepEqual(got, []string{"drag ops/freeze 7 7 9 9"}) {
		t.Errorf("drag calls = %v", got)
	}
}

func TestSingleModeHasNoHandles(t *testing.T) {
	b := testBoard()
	b.Axis.Mode = "single"
	p, _ := newPlanner(t, b)

	d := p.Layout(0)[0]
	if d.Width != 10 || d.StartHandle || d.EndHandle {
		t.Fatalf("single mode primitive = %+v", d)
	}

	hit, err := p.PointerDown(0, 29.5)
	if err != nil || hit.Target != gesture.TargetBody {
		t.Fatalf("PointerDown = %+v, %v", hit, err)
	}
	c, _ := p.Controller(deploy)
	if c.State() != gesture.StateDragging {
		t.Errorf("state = %v, want dragging", c.State())
	}
}

func TestPointerCapture(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	if _, err := p.PointerDown(0, 50); !errors.Is(err, errors.ErrNoTarget) {
		t.Fatalf("PointerDown on empty space = %v, want ErrNoTarget", err)
	}
	if _, err := p.PointerUp(50); !errors.Is(err, errors.ErrNoGesture) {
		t.Fatalf("PointerUp without gesture = %v, want ErrNoGesture", err)
	}
	if _, ok := p.PointerMove(10); ok {
		t.Fatal("PointerMove routed without capture")
	}

	if _, err := p.PointerDown(0, 25); err != nil {
		t.Fatal(err)
	}
	if ref, ok := p.Captured(); !ok || ref != deploy {
		t.Fatalf("Captured() = %v, %v", ref, ok)
	}
	if _, err := p.PointerDown(1, 5); !errors.Is(err, errors.ErrGestureActive) {
		t.Fatalf("second PointerDown = %v, want ErrGestureActive", err)
	}

	// The pointer leaves the event but capture keeps the gesture on it.
	fb, ok := p.PointerMove(65)
	if !ok || fb.Preview != (constraint.Bounds{Start: 6, End: 8}) {
		t.Fatalf("PointerMove = %+v, %v", fb, ok)
	}
	if prims := p.Layout(0); prims[0].Offset != 40 || prims[0].X != 60 || prims[0].State != gesture.StateDragging {
		t.Errorf("preview primitive = %+v", prims[0])
	}

	if p.DoubleClick(1, 5) {
		t.Error("double click accepted during gesture")
	}
	if ref, actions := p.Secondary(1, 5); actions != nil || ref != (callback.Ref{}) {
		t.Error("secondary actions offered during gesture")
	}
	if p.Invoke(build, callback.ActionEdit) {
		t.Error("Invoke accepted during gesture")
	}

	if !p.CancelGesture() {
		t.Fatal("CancelGesture() = false")
	}
	if p.CancelGesture() {
		t.Error("second CancelGesture() = true")
	}
	p.Drain()
	if got := rec.Calls(); len(got) != 0 {
		t.Errorf("cancelled gesture produced callbacks: %v", got)
	}
	if b, _ := p.Bounds(deploy); b != (constraint.Bounds{Start: 2, End: 4}) {
		t.Errorf("bounds after cancel = %+v", b)
	}
}

func TestDoubleClickAndActions(t *testing.T) {
	p, rec := newPlanner(t, testBoard())

	if !p.DoubleClick(0, 25) {
		t.Fatal("DoubleClick on idle event = false")
	}
	if p.DoubleClick(0, 50) {
		t.Error("DoubleClick on empty space = true")
	}

	ref, actions := p.Secondary(0, 25)
	if ref != deploy || !reflect.DeepEqual(actions, []callback.Action{callback.ActionEdit, callback.ActionDelete}) {
		t.Fatalf("Secondary = %v, %v", ref, actions)
	}
	if !p.Invoke(deploy, callback.ActionDelete) {
		t.Fatal("Invoke(Delete) = false")
	}
	p.Drain()

	want := []string{"dblclick ops/deploy", "delete ops/deploy"}
	if got := rec.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestActionsHiddenWithoutHostCallbacks(t *testing.T) {
	p := New(Options{
		Board:      testBoard(),
		PixelWidth: 100,
		Callbacks:  &callback.Callbacks{OnEdit: func(callback.Ref) {}},
	})

	if got := p.Actions(deploy); !reflect.DeepEqual(got, []callback.Action{callback.ActionEdit}) {
		t.Errorf("Actions() = %v, want [Edit]", got)
	}
	if p.Invoke(deploy, callback.ActionDelete) {
		t.Error("Invoke(Delete) without OnDelete = true")
	}

	p.SetCallbacks(nil)
	if got := p.Actions(deploy); len(got) != 0 {
		t.Errorf("Actions() with no callbacks = %v", got)
	}
}

func TestPopover(t *testing.T) {
	p := New(Options{
		Board:      testBoard(),
		PixelWidth: 100,
		Callbacks: &callback.Callbacks{RenderPopover: func(ref callback.Ref) string {
			if ref == build {
				panic("boom")
			}
			return "about " + ref.String()
		}},
	})

	if got, ok := p.Popover(deploy); !ok || got != "about ops/deploy" {
		t.Errorf("Popover(deploy) = %q, %v", got, ok)
	}
	if got, ok := p.Popover(build); ok || got != "" {
		t.Errorf("Popover of panicking renderer = %q, %v", got, ok)
	}
	if _, ok := p.Popover(callback.Ref{RowID: "x", EventID: "y"}); ok {
		t.Error("Popover of unknown event reported content")
	}
}

func TestSyncEchoAndExternalChange(t *testing.T) {
	p, rec := newPlanner(t, testBoard())
	gestureAt(t, p, 0, 30, -20)
	p.Drain()
	rec.Reset()

	// The host persists the drag and feeds it back.
	echo := testBoard()
	if err := echo.MoveEvent("ops", "deploy", 0, 2); err != nil {
		t.Fatal(err)
	}
	if n := p.Sync(echo); n != 0 {
		t.Errorf("Sync(echo) changed %d events, want 0", n)
	}
	p.Drain()
	if got := rec.Calls(); len(got) != 0 {
		t.Errorf("echo produced callbacks: %v", got)
	}

	// Another writer moves the event.
	ext := echo.Clone()
	if err := ext.MoveEvent("ops", "deploy", 5, 7); err != nil {
		t.Fatal(err)
	}
	if n := p.Sync(ext); n != 1 {
		t.Errorf("Sync(external) changed %d events, want 1", n)
	}
	p.Drain()
	if got := rec.Calls(); !reflect.DeepEqual(got, []string{"position ops/deploy 5 7"}) {
		t.Errorf("calls = %v", got)
	}
	if prims := p.Layout(0); prims[0].X != 50 {
		t.Errorf("deploy X = %v, want 50", prims[0].X)
	}
}

func TestSyncAddsAndDropsControllers(t *testing.T) {
	p, _ := newPlanner(t, testBoard())

	next := testBoard()
	if err := next.RemoveEvent("dev", "build"); err != nil {
		t.Fatal(err)
	}
	next.Rows[0].Events = append(next.Rows[0].Events, board.Event{ID: "review", Start: board.Slot(8), End: board.Slot(10)})
	p.Sync(next)

	if _, ok := p.Controller(build); ok {
		t.Error("removed event still has a controller")
	}
	if _, ok := p.Controller(callback.Ref{RowID: "ops", EventID: "review"}); !ok {
		t.Error("added event has no controller")
	}
	if got := len(p.Layout(0)); got != 3 {
		t.Errorf("Layout(0) has %d primitives, want 3", got)
	}
	if got := len(p.Layout(1)); got != 0 {
		t.Errorf("Layout(1) has %d primitives, want 0", got)
	}
}

func TestSyncDroppingCapturedEventReleasesCapture(t *testing.T) {
	p, _ := newPlanner(t, testBoard())
	if _, err := p.PointerDown(1, 5); err != nil {
		t.Fatal(err)
	}

	next := testBoard()
	if err := next.RemoveEvent("dev", "build"); err != nil {
		t.Fatal(err)
	}
	p.Sync(next)

	if _, ok := p.Captured(); ok {
		t.Error("capture kept on a removed event")
	}
	if _, err := p.PointerDown(0, 25); err != nil {
		t.Errorf("PointerDown after release = %v", err)
	}
}

func TestSyncKindChangeRebuildsController(t *testing.T) {
	p, _ := newPlanner(t, testBoard())

	next := testBoard()
	next.Rows[0].Events[0].Kind = board.KindMilestone
	p.Sync(next)

	c, _ := p.Controller(deploy)
	if c.Resizable() {
		t.Error("event turned milestone is still resizable")
	}
	if b := c.Local(); b != (constraint.Bounds{Start: 2, End: 2}) {
		t.Errorf("milestone bounds = %+v", b)
	}
}

func TestSetPixelWidthCancelsGesture(t *testing.T) {
	p, rec := newPlanner(t, testBoard())
	if _, err := p.PointerDown(0, 25); err != nil {
		t.Fatal(err)
	}
	p.PointerMove(60)

	p.SetPixelWidth(200)
	if _, ok := p.Captured(); ok {
		t.Fatal("capture survived a width change")
	}
	if prims := p.Layout(0); prims[0].X != 40 || prims[0].Width != 40 {
		t.Errorf("deploy at 200px = %+v", prims[0])
	}
	p.Drain()
	if got := rec.Calls(); len(got) != 0 {
		t.Errorf("width change produced callbacks: %v", got)
	}
}

func TestBusReceivesDomainEvents(t *testing.T) {
	bus := event.NewBus(nil)
	var got []string
	bus.SubscribeAll(func(e event.Event) { got = append(got, e.EventType()) })

	p := New(Options{Board: testBoard(), PixelWidth: 100, Bus: bus})
	gestureAt(t, p, 0, 25)
	gestureAt(t, p, 0, 30, 50)
	p.DoubleClick(1, 5)

	ext := testBoard()
	if err := ext.MoveEvent("dev", "build", 3, 4); err != nil {
		t.Fatal(err)
	}
	p.Sync(ext)

	if len(got) != 0 {
		t.Fatalf("bus events published before drain: %v", got)
	}
	p.Drain()

	want := []string{event.TypeClicked, event.TypeDragged, event.TypeDoubleClicked, event.TypeSynced}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bus events = %v, want %v", got, want)
	}
}

func TestDegenerateAxisNeverMoves(t *testing.T) {
	p, rec := newPlanner(t, testBoard())
	p.SetPixelWidth(0)

	// Everything collapses onto x=0; only the milestone keeps a width.
	if _, ok := p.HitTest(0, 0); !ok {
		t.Fatal("no event hit at origin of zero-width axis")
	}
	res := gestureAt(t, p, 0, 0, 500)
	if res.Outcome.Kind != gesture.OutcomeNone {
		t.Errorf("outcome on zero-width axis = %v, want none", res.Outcome.Kind)
	}
	p.Drain()
	if got := rec.Filter("drag"); len(got) != 0 {
		t.Errorf("drag on zero-width axis reported: %v", got)
	}
}

func TestSubStepJitterDoesNotMoveOutOfRangeEvent(t *testing.T) {
	// Built directly, so the board never went through Validate.
	b := testBoard()
	b.Rows[0].Events[0].Start = board.Slot(-5)
	b.Rows[0].Events[0].End = board.Slot(2)
	p, rec := newPlanner(t, b)

	// 4px is past the click threshold but under half a slot.
	res := gestureAt(t, p, 0, 5, 9)
	if res.Outcome.Kind == gesture.OutcomeDrag {
		t.Fatalf("outcome = %+v, want no commit", res.Outcome)
	}
	p.Drain()
	if got := rec.Filter("drag"); len(got) != 0 {
		t.Errorf("drag calls = %v", got)
	}
	if got, _ := p.Bounds(deploy); got != (constraint.Bounds{Start: -5, End: 2}) {
		t.Errorf("bounds = %+v, want unchanged -5..2", got)
	}
}
