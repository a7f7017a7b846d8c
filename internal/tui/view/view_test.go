package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/planner"
	"github.com/Iron-Ham/planboard/internal/tui/styles"
)

func testBoard() *board.Board {
	return &board.Board{
		Axis: board.AxisSpec{Start: board.Slot(0), End: board.Slot(10), Step: 1},
		Rows: []board.Row{
			{ID: "ops", Title: "Operations", Events: []board.Event{
				{ID: "deploy", Start: board.Slot(2), End: board.Slot(4), Label: "Deploy"},
				{ID: "freeze", Kind: board.KindMilestone, Start: board.Slot(7)},
			}},
			{ID: "dev", Events: []board.Event{
				{ID: "build", Start: board.Slot(0), End: board.Slot(1), Label: "B"},
			}},
		},
	}
}

func newView(width float64, titleWidth int) BoardView {
	p := planner.New(planner.Options{Board: testBoard(), PixelWidth: width})
	return BoardView{Planner: p, Styles: styles.New(styles.ThemeMono), TitleWidth: titleWidth}
}

func TestSlotTicks(t *testing.T) {
	m := axis.New(axis.Config{Kind: axis.KindSlot, DomainStart: 0, DomainEnd: 10, PixelWidth: 40, Step: 1})
	ticks := Ticks(m, 40)

	// 4 cells per slot needs every second slot to keep 6 cells apart.
	want := []Tick{{0, "0"}, {8, "2"}, {16, "4"}, {24, "6"}, {32, "8"}}
	if len(ticks) != len(want) {
		t.Fatalf("Ticks() = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %v, want %v", i, ticks[i], want[i])
		}
	}
}

func TestTimeTicks(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	m := axis.New(axis.Config{
		Kind:        axis.KindTime,
		DomainStart: axis.Millis(start),
		DomainEnd:   axis.Millis(start.Add(10 * time.Hour)),
		PixelWidth:  100,
	})
	ticks := Ticks(m, 100)
	// 10 cells per hour; the first step of at least 12 cells is 3h.
	if len(ticks) != 4 || ticks[0].Label != "00:00" || ticks[1].Label != "03:00" || ticks[1].Pos != 30 {
		t.Errorf("Ticks() = %v", ticks)
	}
}

func TestTicksDegenerate(t *testing.T) {
	m := axis.New(axis.Config{Kind: axis.KindSlot, DomainStart: 3, DomainEnd: 3, PixelWidth: 40})
	if ticks := Ticks(m, 40); ticks != nil {
		t.Errorf("Ticks() on zero span = %v", ticks)
	}
}

func TestAxisLine(t *testing.T) {
	tests := []struct {
		name  string
		ticks []Tick
		width int
		want  string
	}{
		{"spaced", []Tick{{0, "0"}, {5, "5"}}, 8, "0    5  "},
		{"overlap dropped", []Tick{{0, "100"}, {2, "2"}, {5, "5"}}, 8, "100  5  "},
		{"edge dropped", []Tick{{0, "0"}, {7, "10"}}, 8, "0       "},
		{"flush to edge", []Tick{{6, "10"}}, 8, "      10"},
		{"zero width", []Tick{{0, "0"}}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AxisLine(tt.ticks, tt.width)
			if got != tt.want {
				t.Errorf("AxisLine() = %q, want %q", got, tt.want)
			}
			if ansi.StringWidth(got) != tt.width {
				t.Errorf("AxisLine() width = %d, want %d", ansi.StringWidth(got), tt.width)
			}
		})
	}
}

func TestRowPainting(t *testing.T) {
	v := newView(40, 6)
	rows := v.Rows([]int{0, 1})
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d lines", len(rows))
	}

	// 4 cells per slot: deploy covers cells 8-15, freeze sits at 28.
	gap := func(n int) string { return strings.Repeat(" ", n) }
	ops := ansi.Strip(rows[0])
	wantOps := "Opera…│" + "·" + gap(7) + "▌Deploy▐" + "·" + gap(7) + "·" + gap(3) + "◆" + gap(3) + "·" + gap(7)
	if ops != wantOps {
		t.Errorf("row 0 = %q\n want %q", ops, wantOps)
	}

	dev := ansi.Strip(rows[1])
	if !strings.HasPrefix(dev, "dev   │▌B ▐") {
		t.Errorf("row 1 = %q", dev)
	}
	for i, line := range rows {
		if w := ansi.StringWidth(line); w != 6+1+40 {
			t.Errorf("row %d width = %d, want 47", i, w)
		}
	}
}

func TestRowPlaceholder(t *testing.T) {
	v := newView(20, 4)
	v.Loaded = func(i int) bool { return i != 1 }

	rows := v.Rows([]int{0, 1})
	if strings.Contains(ansi.Strip(rows[0]), GlyphPlaceholder) {
		t.Error("loaded row painted as placeholder")
	}
	if got := ansi.Strip(rows[1]); got != "dev │"+strings.Repeat(GlyphPlaceholder, 20) {
		t.Errorf("placeholder row = %q", got)
	}
}

func TestRowShowsDragPreview(t *testing.T) {
	v := newView(40, 4)
	if _, err := v.Planner.PointerDown(0, 10.5); err != nil {
		t.Fatal(err)
	}
	v.Planner.PointerMove(18.5)

	got := ansi.Strip(v.Row(0))
	if !strings.Contains(got[strings.Index(got, GlyphSeparator):], "  ▌Deploy▐") {
		t.Errorf("dragged row = %q", got)
	}
	if idx := strings.Index(got, "▌"); ansi.StringWidth(got[:idx]) != 4+1+16 {
		t.Errorf("preview starts at column %d, want 21", ansi.StringWidth(got[:idx]))
	}
}

func TestHeaderAlignsWithRows(t *testing.T) {
	v := newView(40, 6)
	header := ansi.Strip(v.Header())
	if !strings.HasPrefix(header, "      │0       2") {
		t.Errorf("Header() = %q", header)
	}
}

func TestCellsWideCharacters(t *testing.T) {
	buf := newCells(6)
	buf.write(0, "日本語", 0)
	plain := func(int) lipgloss.Style { return lipgloss.NewStyle() }
	if got := buf.render(plain); got != "日本語" {
		t.Fatalf("render = %q", got)
	}

	// Splitting a wide character blanks its other half.
	buf.set(3, "x", 1)
	got := buf.render(plain)
	if got != "日 x語" {
		t.Errorf("render after split = %q", got)
	}
	if ansi.StringWidth(got) != 6 {
		t.Errorf("width after split = %d, want 6", ansi.StringWidth(got))
	}
}

func TestSelectedRowTitle(t *testing.T) {
	v := newView(20, 4)
	v.Selected = callback.Ref{RowID: "dev", EventID: "build"}
	// Only checks that selection does not change layout.
	if w := ansi.StringWidth(v.Row(1)); w != 25 {
		t.Errorf("selected row width = %d, want 25", w)
	}
}
