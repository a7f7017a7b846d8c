// Package view renders a planner into fixed-width terminal lines.
//
// One terminal cell is one axis pixel. Rows are painted into a cell buffer
// so that later events overwrite earlier ones the same way the planner's
// hit test resolves overlaps, then grouped into styled runs.
package view
