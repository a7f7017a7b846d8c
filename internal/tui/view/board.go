package view

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sourcegraph/conc/iter"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/callback"
	"github.com/Iron-Ham/planboard/internal/gesture"
	"github.com/Iron-Ham/planboard/internal/planner"
	"github.com/Iron-Ham/planboard/internal/tui/styles"
)

// Glyphs used when painting rows.
const (
	GlyphStartHandle = "▌"
	GlyphEndHandle   = "▐"
	GlyphMilestone   = "◆"
	GlyphGrid        = "·"
	GlyphPlaceholder = "░"
	GlyphSeparator   = "│"
)

// BoardView renders the rows of a planner.
type BoardView struct {
	Planner    *planner.Planner
	Styles     *styles.Styles
	TitleWidth int
	Selected   callback.Ref
	// Loaded reports whether row i shows content. Nil means every row does.
	Loaded func(i int) bool
}

// AxisWidth returns the number of cells the axis spans.
func (v BoardView) AxisWidth() int {
	return int(v.Planner.Mapper().Config().PixelWidth)
}

// Header returns the axis label line, aligned with the rows.
func (v BoardView) Header() string {
	width := v.AxisWidth()
	line := AxisLine(Ticks(v.Planner.Mapper(), width), width)
	return strings.Repeat(" ", v.TitleWidth) + v.Styles.Separator.Render(GlyphSeparator) + v.Styles.Axis.Render(line)
}

type rowJob struct {
	index  int
	title  string
	loaded bool
	prims  []planner.Primitive
}

// Rows renders the given rows. Layout is computed on the calling goroutine;
// painting runs in parallel.
func (v BoardView) Rows(indices []int) []string {
	ticks := Ticks(v.Planner.Mapper(), v.AxisWidth())
	jobs := make([]rowJob, len(indices))
	for n, i := range indices {
		jobs[n] = rowJob{
			index:  i,
			title:  v.Planner.RowTitle(i),
			loaded: v.Loaded == nil || v.Loaded(i),
		}
		if jobs[n].loaded {
			jobs[n].prims = v.Planner.Layout(i)
		}
	}
	return iter.Map(jobs, func(job *rowJob) string {
		return v.paint(*job, ticks)
	})
}

// Row renders a single row.
func (v BoardView) Row(i int) string {
	return v.Rows([]int{i})[0]
}

func (v BoardView) paint(job rowJob, ticks []Tick) string {
	title := ansi.Truncate(job.title, v.TitleWidth, "…")
	titleStyle := v.Styles.RowTitle
	if v.Selected.RowID != "" && rowHasRef(job.prims, v.Selected) {
		titleStyle = v.Styles.RowSelected
	}
	prefix := titleStyle.Width(v.TitleWidth).MaxWidth(v.TitleWidth).Render(title) + v.Styles.Separator.Render(GlyphSeparator)

	width := v.AxisWidth()
	if width <= 0 {
		return prefix
	}
	if !job.loaded {
		return prefix + v.Styles.Placeholder.Render(strings.Repeat(GlyphPlaceholder, width))
	}

	buf := newCells(width)
	for _, t := range ticks {
		buf.set(t.Pos, GlyphGrid, ownerGrid)
	}
	for n, p := range job.prims {
		paintPrimitive(buf, n, p)
	}
	return prefix + buf.render(func(owner int) lipgloss.Style {
		switch owner {
		case ownerEmpty:
			return lipgloss.NewStyle()
		case ownerGrid:
			return v.Styles.Grid
		}
		p := job.prims[owner]
		if p.Kind == board.KindMilestone {
			st := v.Styles.Milestone
			if p.Ref == v.Selected {
				st = st.Underline(true)
			}
			return st
		}
		return v.Styles.Event(p.Color, p.Ref == v.Selected, p.State != gesture.StateIdle)
	})
}

func rowHasRef(prims []planner.Primitive, ref callback.Ref) bool {
	for _, p := range prims {
		if p.Ref == ref {
			return true
		}
	}
	return false
}

// extent returns the cells a primitive covers. Every primitive covers at
// least one cell so a collapsed event stays visible.
func extent(p planner.Primitive) (lo, hi int) {
	lo = int(math.Round(p.X))
	hi = int(math.Round(p.X + p.Width))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func paintPrimitive(buf *cells, owner int, p planner.Primitive) {
	lo, hi := extent(p)

	switch p.Kind {
	case board.KindMilestone:
		buf.set(lo, GlyphMilestone, owner)
		return
	case board.KindSpan:
	default:
		return
	}

	for c := lo; c < hi; c++ {
		buf.set(c, " ", owner)
	}
	textLo, textHi := lo, hi
	hw := int(math.Max(1, math.Round(p.HandleWidth)))
	if p.StartHandle {
		for c := lo; c < lo+hw && c < hi; c++ {
			buf.set(c, GlyphStartHandle, owner)
		}
		textLo += hw
	}
	if p.EndHandle {
		for c := hi - hw; c < hi; c++ {
			if c >= lo {
				buf.set(c, GlyphEndHandle, owner)
			}
		}
		textHi -= hw
	}

	label := p.Label
	if p.Icon != "" {
		label = p.Icon + " " + label
	}
	if avail := textHi - textLo; avail > 0 {
		buf.write(textLo, ansi.Truncate(label, avail, "…"), owner)
	}
}

const (
	ownerEmpty = -2
	ownerGrid  = -1
)

type cell struct {
	s     string
	owner int
	// cont marks the second column of a wide character.
	cont bool
}

type cells struct {
	c []cell
}

func newCells(width int) *cells {
	buf := &cells{c: make([]cell, width)}
	for i := range buf.c {
		buf.c[i] = cell{s: " ", owner: ownerEmpty}
	}
	return buf
}

// set paints one narrow cell, clearing any wide character it splits.
func (b *cells) set(i int, s string, owner int) {
	if i < 0 || i >= len(b.c) {
		return
	}
	if b.c[i].cont && i > 0 {
		b.c[i-1].s = " "
	}
	if i+1 < len(b.c) && b.c[i+1].cont {
		b.c[i+1] = cell{s: " ", owner: b.c[i+1].owner}
	}
	b.c[i] = cell{s: s, owner: owner}
}

// write paints s from column i, one grapheme at a time.
func (b *cells) write(i int, s string, owner int) {
	col := i
	for _, r := range s {
		g := string(r)
		w := ansi.StringWidth(g)
		switch {
		case w == 0:
			continue
		case w == 2:
			if col+1 >= len(b.c) {
				return
			}
			b.set(col, g, owner)
			b.set(col+1, "", owner)
			b.c[col+1].cont = true
		default:
			b.set(col, g, owner)
		}
		col += w
	}
}

func (b *cells) render(style func(owner int) lipgloss.Style) string {
	var sb strings.Builder
	start := 0
	for i := 1; i <= len(b.c); i++ {
		if i < len(b.c) && b.c[i].owner == b.c[start].owner {
			continue
		}
		var run strings.Builder
		for _, c := range b.c[start:i] {
			run.WriteString(c.s)
		}
		sb.WriteString(style(b.c[start].owner).Render(run.String()))
		start = i
	}
	return sb.String()
}
