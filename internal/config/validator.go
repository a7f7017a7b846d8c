package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "interaction.handle_width")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of built-in themes
func ValidThemes() []string {
	return []string{"default", "mono", "nord", "dracula"}
}

// ValidAxisModes returns the list of valid axis modes
func ValidAxisModes() []string {
	return []string{"span", "single"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateInteraction()...)
	errors = append(errors, c.validateRows()...)
	errors = append(errors, c.validateAxis()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateInteraction() []ValidationError {
	var errors []ValidationError

	if c.Interaction.ClickThreshold < 0 {
		errors = append(errors, ValidationError{
			Field:   "interaction.click_threshold",
			Value:   c.Interaction.ClickThreshold,
			Message: "must be non-negative",
		})
	}

	if c.Interaction.DoubleClickMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "interaction.double_click_ms",
			Value:   c.Interaction.DoubleClickMs,
			Message: "must be non-negative",
		})
	}

	const maxDoubleClickMs = 5000
	if c.Interaction.DoubleClickMs > maxDoubleClickMs {
		errors = append(errors, ValidationError{
			Field:   "interaction.double_click_ms",
			Value:   c.Interaction.DoubleClickMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxDoubleClickMs),
		})
	}

	if c.Interaction.HandleWidth < 1 || c.Interaction.HandleWidth > 4 {
		errors = append(errors, ValidationError{
			Field:   "interaction.handle_width",
			Value:   c.Interaction.HandleWidth,
			Message: "must be between 1 and 4",
		})
	}

	return errors
}

func (c *Config) validateRows() []ValidationError {
	var errors []ValidationError

	if c.Rows.LoadDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "rows.load_delay_ms",
			Value:   c.Rows.LoadDelayMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateAxis() []ValidationError {
	var errors []ValidationError

	if c.Axis.DefaultStep < 1 {
		errors = append(errors, ValidationError{
			Field:   "axis.default_step",
			Value:   c.Axis.DefaultStep,
			Message: "must be at least 1",
		})
	}

	if c.Axis.DefaultMode != "" && !slices.Contains(ValidAxisModes(), c.Axis.DefaultMode) {
		errors = append(errors, ValidationError{
			Field:   "axis.default_mode",
			Value:   c.Axis.DefaultMode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidAxisModes(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	const minTitleWidth, maxTitleWidth = 4, 60
	if c.TUI.TitleWidth < minTitleWidth || c.TUI.TitleWidth > maxTitleWidth {
		errors = append(errors, ValidationError{
			Field:   "tui.title_width",
			Value:   c.TUI.TitleWidth,
			Message: fmt.Sprintf("must be between %d and %d", minTitleWidth, maxTitleWidth),
		})
	}

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
