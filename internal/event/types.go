package event

import "time"

// Event is the interface that all events implement.
type Event interface {
	// EventType returns the "category.action" identifier.
	EventType() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeClicked       = "event.clicked"
	TypeDoubleClicked = "event.double_clicked"
	TypeDragged       = "event.dragged"
	TypeResized       = "event.resized"
	TypeAction        = "event.action"
	TypeSynced        = "event.synced"
	TypeRowState      = "row.state_changed"
	TypeBoardReloaded = "board.reloaded"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Target identifies the board event an interaction event is about.
type Target struct {
	RowID   string
	EventID string
}

// ClickedEvent is emitted when a gesture resolves as a click.
type ClickedEvent struct {
	baseEvent
	Target
}

// NewClickedEvent creates a ClickedEvent.
func NewClickedEvent(rowID, eventID string) ClickedEvent {
	return ClickedEvent{baseEvent: newBaseEvent(TypeClicked), Target: Target{rowID, eventID}}
}

// DoubleClickedEvent is emitted for a double click on an idle event.
type DoubleClickedEvent struct {
	baseEvent
	Target
}

// NewDoubleClickedEvent creates a DoubleClickedEvent.
func NewDoubleClickedEvent(rowID, eventID string) DoubleClickedEvent {
	return DoubleClickedEvent{baseEvent: newBaseEvent(TypeDoubleClicked), Target: Target{rowID, eventID}}
}

// DraggedEvent is emitted after a drag commit.
type DraggedEvent struct {
	baseEvent
	Target
	PrevStart, PrevEnd int64
	Start, End         int64
}

// NewDraggedEvent creates a DraggedEvent.
func NewDraggedEvent(rowID, eventID string, prevStart, prevEnd, start, end int64) DraggedEvent {
	return DraggedEvent{
		baseEvent: newBaseEvent(TypeDragged),
		Target:    Target{rowID, eventID},
		PrevStart: prevStart,
		PrevEnd:   prevEnd,
		Start:     start,
		End:       end,
	}
}

// ResizedEvent is emitted after a resize commit.
type ResizedEvent struct {
	baseEvent
	Target
	PrevStart, PrevEnd int64
	Start, End         int64
	Edge               string // "start" or "end"
}

// NewResizedEvent creates a ResizedEvent.
func NewResizedEvent(rowID, eventID string, prevStart, prevEnd, start, end int64, edge string) ResizedEvent {
	return ResizedEvent{
		baseEvent: newBaseEvent(TypeResized),
		Target:    Target{rowID, eventID},
		PrevStart: prevStart,
		PrevEnd:   prevEnd,
		Start:     start,
		End:       end,
		Edge:      edge,
	}
}

// ActionEvent is emitted when a secondary action is chosen.
type ActionEvent struct {
	baseEvent
	Target
	Action string // "Edit" or "Delete"
}

// NewActionEvent creates an ActionEvent.
func NewActionEvent(rowID, eventID, action string) ActionEvent {
	return ActionEvent{baseEvent: newBaseEvent(TypeAction), Target: Target{rowID, eventID}, Action: action}
}

// SyncedEvent is emitted when an external value overwrote an event's
// local position.
type SyncedEvent struct {
	baseEvent
	Target
	Start, End int64
}

// NewSyncedEvent creates a SyncedEvent.
func NewSyncedEvent(rowID, eventID string, start, end int64) SyncedEvent {
	return SyncedEvent{baseEvent: newBaseEvent(TypeSynced), Target: Target{rowID, eventID}, Start: start, End: end}
}

// RowStateEvent is emitted for every row load state transition.
type RowStateEvent struct {
	baseEvent
	Index    int
	From, To string
}

// NewRowStateEvent creates a RowStateEvent.
func NewRowStateEvent(index int, from, to string) RowStateEvent {
	return RowStateEvent{baseEvent: newBaseEvent(TypeRowState), Index: index, From: from, To: to}
}

// BoardReloadedEvent is emitted when the board file was re-read after an
// external change. Err is set when the new content could not be used.
type BoardReloadedEvent struct {
	baseEvent
	Path   string
	Events int
	Err    error
}

// NewBoardReloadedEvent creates a BoardReloadedEvent.
func NewBoardReloadedEvent(path string, events int, err error) BoardReloadedEvent {
	return BoardReloadedEvent{baseEvent: newBaseEvent(TypeBoardReloaded), Path: path, Events: events, Err: err}
}
