// Package errors provides centralized error definitions and error handling
// utilities for planboard. It defines sentinel errors for the interaction
// engine and the board store, typed errors that carry board context, and
// classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - BoardError: errors loading, saving, or editing a board file, with
//     optional path, row and event context
//
// Semantic errors:
//   - NotFoundError: a row or event could not be found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewBoardError("failed to save board", cause).WithPath(path)
//	if errors.Is(err, errors.ErrBoardInvalid) { ... }
//	if errors.IsUserFacing(err) { ... }
//
// Degenerate geometry and lost pointer capture are not errors: the
// interaction engine resolves them with defined fallbacks and never
// returns an error for them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Axis and interaction sentinel errors
var (
	// ErrInvalidAxis indicates an axis configuration that cannot be rendered.
	ErrInvalidAxis = New("invalid axis configuration")
	// ErrGestureActive indicates a pointer-down while another gesture is in progress.
	ErrGestureActive = New("gesture already active")
	// ErrNoGesture indicates a gesture operation with no active gesture.
	ErrNoGesture = New("no active gesture")
	// ErrNoTarget indicates a pointer event that did not land on an event.
	ErrNoTarget = New("no event under pointer")
)

// Board sentinel errors
var (
	// ErrBoardInvalid indicates that a board file failed validation.
	ErrBoardInvalid = New("board is invalid")
	// ErrRowNotFound indicates that a row could not be found.
	ErrRowNotFound = New("row not found")
	// ErrEventNotFound indicates that an event could not be found.
	ErrEventNotFound = New("event not found")
)

// General sentinel errors
var (
	// ErrManagerClosed indicates use of a manager after teardown.
	ErrManagerClosed = New("manager closed")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PlanboardError is the base interface for planboard errors.
type PlanboardError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// in the status line.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// BoardError represents errors related to a board file.
//
// Example:
//
//	err := errors.NewBoardError("failed to move event", errors.ErrEventNotFound)
//	err = err.WithPath("plan.yaml").WithRow("infra").WithEvent("deploy")
//	fmt.Println(err) // "board error [path=plan.yaml, row=infra, event=deploy]: failed to move event: event not found"
type BoardError struct {
	baseError
	Path    string
	RowID   string
	EventID string
}

// NewBoardError creates a new BoardError.
func NewBoardError(message string, cause error) *BoardError {
	return &BoardError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the board file path to the error context.
func (e *BoardError) WithPath(path string) *BoardError {
	e.Path = path
	return e
}

// WithRow adds a row ID to the error context.
func (e *BoardError) WithRow(id string) *BoardError {
	e.RowID = id
	return e
}

// WithEvent adds an event ID to the error context.
func (e *BoardError) WithEvent(id string) *BoardError {
	e.EventID = id
	return e
}

// WithSeverity sets the error severity.
func (e *BoardError) WithSeverity(s Severity) *BoardError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *BoardError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.RowID != "" {
		parts = append(parts, fmt.Sprintf("row=%s", e.RowID))
	}
	if e.EventID != "" {
		parts = append(parts, fmt.Sprintf("event=%s", e.EventID))
	}

	prefix := "board error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("board error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *BoardError) Is(target error) bool {
	if _, ok := target.(*BoardError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a row or event that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("event", "deploy")
//	fmt.Println(err) // "event 'deploy' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target. A NotFoundError for a row
// or an event also matches the corresponding sentinel.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	switch e.ResourceType {
	case "row":
		return target == ErrRowNotFound
	case "event":
		return target == ErrEventNotFound
	}
	return false
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("end before start")
//	err = err.WithField("rows[0].events[1].end").WithValue(3)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return errors.Is(target, ErrInvalidInput)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error is safe to show in the UI.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var pbErr PlanboardError
	if As(err, &pbErr) {
		return pbErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of err, defaulting to SeverityError for
// errors that do not carry one.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var pbErr PlanboardError
	if As(err, &pbErr) {
		return pbErr.Severity()
	}
	return SeverityError
}
