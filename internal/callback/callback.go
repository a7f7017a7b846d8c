// Package callback is the host-facing notification surface of the
// interaction engine.
//
// Host callbacks never run inside a pointer handler. The [Dispatcher] logs
// each notification and hands the call to a [Queue]; the host drains the
// queue from its event loop once the handler has returned, so a callback
// that mutates board state cannot re-enter the gesture that produced it.
package callback

import "fmt"

// Ref identifies the event a notification is about.
type Ref struct {
	RowID   string
	EventID string
}

// String returns "row/event".
func (r Ref) String() string {
	return r.RowID + "/" + r.EventID
}

// Callbacks holds the host's callback functions.
// Each field is optional; nil callbacks are skipped.
type Callbacks struct {
	// OnClick is called when a gesture ends without exceeding the click threshold.
	OnClick func(ref Ref)

	// OnDoubleClick is called for a double click on an idle event.
	OnDoubleClick func(ref Ref)

	// OnDrag is called once per committed drag with the old and new bounds.
	OnDrag func(ref Ref, prevStart, prevEnd, start, end int64)

	// OnResize is called once per committed resize. Edge is "start" or "end".
	OnResize func(ref Ref, prevStart, prevEnd, start, end int64, edge string)

	// OnPositionChange mirrors every change of the painted position,
	// including external syncs.
	OnPositionChange func(ref Ref, start, end int64)

	// OnEdit enables the Edit secondary action.
	OnEdit func(ref Ref)

	// OnDelete enables the Delete secondary action.
	OnDelete func(ref Ref)

	// RenderPopover returns the popover content for an event. It may panic;
	// see SafeRender.
	RenderPopover func(ref Ref) string
}

// Action is a secondary (context menu) action.
type Action int

const (
	// ActionEdit opens the event for editing.
	ActionEdit Action = iota
	// ActionDelete removes the event.
	ActionDelete
)

// String returns the menu label of the action.
func (a Action) String() string {
	switch a {
	case ActionEdit:
		return "Edit"
	case ActionDelete:
		return "Delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Actions returns the secondary actions the host supports. An action whose
// callback is nil is not offered at all.
func (c *Callbacks) Actions() []Action {
	if c == nil {
		return nil
	}
	var out []Action
	if c.OnEdit != nil {
		out = append(out, ActionEdit)
	}
	if c.OnDelete != nil {
		out = append(out, ActionDelete)
	}
	return out
}

// Supports reports whether a is one of c.Actions().
func (c *Callbacks) Supports(a Action) bool {
	for _, have := range c.Actions() {
		if have == a {
			return true
		}
	}
	return false
}

// SafeRender calls render and recovers a panic, treating it as no content.
// The second result is false when render was nil, panicked, or returned
// an empty string.
func SafeRender(render func() string) (content string, ok bool) {
	if render == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			content, ok = "", false
		}
	}()
	content = render()
	return content, content != ""
}
