// Package planner composes the interaction engine into a board of rows.
//
// A [Planner] owns one [Controller] per event. A controller pairs the
// event's reconciler with its gesture machine and callback dispatcher, all
// sharing one callback queue. The planner lays events out along the axis,
// hit-tests pointer positions, routes a captured pointer stream to the
// controller it went down on, and reconciles the whole board against
// external values on Sync.
//
// Pixels are terminal cells when the planner is hosted by the TUI, but the
// planner itself only ever sees float64 offsets from the axis origin.
package planner
