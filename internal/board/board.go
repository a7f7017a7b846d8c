// Package board is the planboard data model and its YAML file format.
//
// A board file looks like:
//
//	title: Release plan
//	axis:
//	  kind: slot        # or "time"
//	  start: 0
//	  end: 10
//	  step: 1           # "15m" on a time axis
//	  mode: span        # or "single"
//	rows:
//	  - id: infra
//	    title: Infrastructure
//	    events:
//	      - id: deploy
//	        start: 2
//	        end: 4
//	        label: Deploy
//	      - id: freeze
//	        kind: milestone
//	        start: 6
//
// On a time axis, start and end may be RFC3339 timestamps.
package board

import (
	"fmt"

	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/constraint"
	"github.com/Iron-Ham/planboard/internal/errors"
)

// Kind is the event variant.
type Kind string

const (
	// KindSpan events occupy [Start, End).
	KindSpan Kind = "span"
	// KindMilestone events sit at a single position; End is ignored.
	KindMilestone Kind = "milestone"
)

// AxisSpec is the axis section of a board file.
type AxisSpec struct {
	Kind  string `yaml:"kind,omitempty"`
	Start Point  `yaml:"start"`
	End   Point  `yaml:"end"`
	Step  Step   `yaml:"step,omitempty"`
	Mode  string `yaml:"mode,omitempty"`
}

// Event is one scheduled item.
type Event struct {
	ID    string `yaml:"id"`
	Kind  Kind   `yaml:"kind,omitempty"`
	Start Point  `yaml:"start"`
	End   Point  `yaml:"end,omitempty"`
	Label string `yaml:"label,omitempty"`
	Color string `yaml:"color,omitempty"`
	Icon  string `yaml:"icon,omitempty"`
}

// Row is a horizontal lane of events.
type Row struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title,omitempty"`
	Events []Event `yaml:"events,omitempty"`
}

// Board is a whole board file.
type Board struct {
	Title string   `yaml:"title,omitempty"`
	Axis  AxisSpec `yaml:"axis"`
	Rows  []Row    `yaml:"rows"`
}

// EventKind returns the event's kind, treating an empty kind as a span.
func (e *Event) EventKind() Kind {
	if e.Kind == "" {
		return KindSpan
	}
	return e.Kind
}

// IsMilestone reports whether the event is a milestone.
func (e *Event) IsMilestone() bool {
	return e.EventKind() == KindMilestone
}

// Bounds returns the event position. A milestone's end equals its start.
func (e *Event) Bounds() constraint.Bounds {
	if e.IsMilestone() {
		return constraint.Bounds{Start: e.Start.Value, End: e.Start.Value}
	}
	return constraint.Bounds{Start: e.Start.Value, End: e.End.Value}
}

// Title returns the label, or the ID when there is none.
func (e *Event) Title() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// AxisConfig returns the axis configuration for a render pixelWidth wide.
// Unknown kinds fall back to a slot axis; Validate reports them.
func (b *Board) AxisConfig(pixelWidth float64) axis.Config {
	kind, _ := axis.ParseKind(b.Axis.Kind)
	mode := axis.Mode(b.Axis.Mode)
	if mode == "" {
		mode = axis.ModeSpan
	}
	return axis.Config{
		Kind:        kind,
		DomainStart: b.Axis.Start.Value,
		DomainEnd:   b.Axis.End.Value,
		PixelWidth:  pixelWidth,
		Step:        int64(b.Axis.Step),
		Mode:        mode,
	}
}

// IsTime reports whether the board uses a time axis.
func (b *Board) IsTime() bool {
	return b.Axis.Kind == axis.KindTime.String()
}

// RowIndex returns the index of the row with id, or -1.
func (b *Board) RowIndex(rowID string) int {
	for i := range b.Rows {
		if b.Rows[i].ID == rowID {
			return i
		}
	}
	return -1
}

// Find returns the event with the given IDs. The pointer refers into b.
func (b *Board) Find(rowID, eventID string) (*Event, error) {
	ri := b.RowIndex(rowID)
	if ri < 0 {
		return nil, errors.NewNotFoundError("row", rowID)
	}
	row := &b.Rows[ri]
	for i := range row.Events {
		if row.Events[i].ID == eventID {
			return &row.Events[i], nil
		}
	}
	return nil, errors.NewNotFoundError("event", eventID)
}

// MoveEvent sets an event's position.
func (b *Board) MoveEvent(rowID, eventID string, start, end int64) error {
	ev, err := b.Find(rowID, eventID)
	if err != nil {
		return errors.NewBoardError("failed to move event", err).WithRow(rowID).WithEvent(eventID)
	}
	if !ev.IsMilestone() && end < start {
		return errors.NewBoardError("failed to move event",
			errors.NewValidationError("end before start").WithField("end").WithValue(end),
		).WithRow(rowID).WithEvent(eventID)
	}

	isTime := b.IsTime()
	ev.Start = Point{Value: start, Time: isTime}
	if ev.IsMilestone() {
		ev.End = Point{}
	} else {
		ev.End = Point{Value: end, Time: isTime}
	}
	return nil
}

// RenameEvent sets an event's label.
func (b *Board) RenameEvent(rowID, eventID, label string) error {
	ev, err := b.Find(rowID, eventID)
	if err != nil {
		return errors.NewBoardError("failed to rename event", err).WithRow(rowID).WithEvent(eventID)
	}
	ev.Label = label
	return nil
}

// RemoveEvent deletes an event from its row.
func (b *Board) RemoveEvent(rowID, eventID string) error {
	if _, err := b.Find(rowID, eventID); err != nil {
		return errors.NewBoardError("failed to remove event", err).WithRow(rowID).WithEvent(eventID)
	}
	row := &b.Rows[b.RowIndex(rowID)]
	kept := row.Events[:0]
	for _, ev := range row.Events {
		if ev.ID != eventID {
			kept = append(kept, ev)
		}
	}
	row.Events = kept
	return nil
}

// Clone returns a deep copy of b.
func (b *Board) Clone() *Board {
	out := *b
	out.Rows = make([]Row, len(b.Rows))
	for i, row := range b.Rows {
		out.Rows[i] = row
		out.Rows[i].Events = append([]Event(nil), row.Events...)
	}
	return &out
}

// EventCount returns the number of events on the board.
func (b *Board) EventCount() int {
	n := 0
	for _, row := range b.Rows {
		n += len(row.Events)
	}
	return n
}

// Validate checks the board and returns every problem joined into one
// error that matches errors.ErrBoardInvalid.
func (b *Board) Validate() error {
	var problems []error
	add := func(field string, value any, format string, args ...any) {
		problems = append(problems,
			errors.NewValidationError(fmt.Sprintf(format, args...)).WithField(field).WithValue(value))
	}

	if _, err := axis.ParseKind(b.Axis.Kind); err != nil {
		add("axis.kind", b.Axis.Kind, "must be slot or time")
	}
	switch axis.Mode(b.Axis.Mode) {
	case "", axis.ModeSpan, axis.ModeSingle:
	default:
		add("axis.mode", b.Axis.Mode, "must be span or single")
	}
	if b.Axis.End.Value < b.Axis.Start.Value {
		add("axis.end", b.Axis.End, "must not be before axis.start %s", b.Axis.Start)
	}
	if b.Axis.Step < 0 {
		add("axis.step", int64(b.Axis.Step), "must not be negative")
	}
	minSize := int64(b.Axis.Step)
	if minSize < 1 {
		minSize = 1
	}
	axisOK := b.Axis.End.Value >= b.Axis.Start.Value
	outside := func(p Point) bool {
		return axisOK && (p.Value < b.Axis.Start.Value || p.Value > b.Axis.End.Value)
	}

	rowIDs := make(map[string]bool, len(b.Rows))
	for ri, row := range b.Rows {
		rowField := fmt.Sprintf("rows[%d]", ri)
		if row.ID == "" {
			add(rowField+".id", nil, "is required")
		} else if rowIDs[row.ID] {
			add(rowField+".id", row.ID, "duplicate row id")
		}
		rowIDs[row.ID] = true

		eventIDs := make(map[string]bool, len(row.Events))
		for ei, ev := range row.Events {
			field := fmt.Sprintf("%s.events[%d]", rowField, ei)
			if ev.ID == "" {
				add(field+".id", nil, "is required")
			} else if eventIDs[ev.ID] {
				add(field+".id", ev.ID, "duplicate event id in row %q", row.ID)
			}
			eventIDs[ev.ID] = true

			switch ev.EventKind() {
			case KindSpan:
				if outside(ev.Start) {
					add(field+".start", ev.Start, "outside the axis %s..%s", b.Axis.Start, b.Axis.End)
				}
				switch {
				case ev.End.Value <= ev.Start.Value:
					add(field+".end", ev.End, "must be after start %s", ev.Start)
				case outside(ev.End):
					add(field+".end", ev.End, "outside the axis %s..%s", b.Axis.Start, b.Axis.End)
				case ev.End.Value-ev.Start.Value < minSize:
					add(field+".end", ev.End, "span is shorter than one axis step (%d)", minSize)
				}
			case KindMilestone:
				if outside(ev.Start) {
					add(field+".start", ev.Start, "outside the axis %s..%s", b.Axis.Start, b.Axis.End)
				}
			default:
				add(field+".kind", string(ev.Kind), "must be span or milestone")
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.NewBoardError(fmt.Sprintf("%d validation problem(s)", len(problems)),
		errors.Join(append([]error{errors.ErrBoardInvalid}, problems...)...))
}

// Problems returns the individual validation errors inside err.
func Problems(err error) []*errors.ValidationError {
	var out []*errors.ValidationError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(*errors.ValidationError); ok {
			out = append(out, ve)
			return
		}
		if j, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range j.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return out
}
