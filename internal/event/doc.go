// Package event provides a pub-sub event bus for planboard.
//
// The planner publishes what happened to the board (clicks, committed drags
// and resizes, external syncs, row load transitions, file reloads) and
// anything that wants to observe it subscribes, without either side
// knowing about the other. The TUI uses it for its status line; tests use
// it to assert on engine behavior.
//
// # Main Types
//
//   - [Event]: interface implemented by every event, providing EventType() and Timestamp()
//   - [Bus]: synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Types
//
// Event types follow the pattern "category.action":
//   - event.clicked, event.double_clicked
//   - event.dragged, event.resized
//   - event.action (Edit/Delete chosen from the secondary menu)
//   - event.synced (an external value overwrote the local position)
//   - row.state_changed
//   - board.reloaded
//
// # Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeDragged, func(e event.Event) {
//	    d := e.(event.DraggedEvent)
//	    fmt.Printf("%s moved to %d-%d\n", d.EventID, d.Start, d.End)
//	})
//
// Handlers are called synchronously on the publishing goroutine. A
// panicking handler is logged and does not stop delivery to the others.
package event
