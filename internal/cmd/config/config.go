// Package config provides CLI commands for managing planboard configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/planboard/internal/config"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify planboard configuration",
	Long: `View or modify planboard configuration.

Without arguments, displays the effective configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  planboard config set rows.load_delay_ms 0
  planboard config set tui.theme nord
  planboard config set board.autosave false

Valid keys:
  interaction.click_threshold - Cells a press may move and still be a click
  interaction.double_click_ms - Maximum gap between the clicks of a double click
  interaction.handle_width    - Width of the resize handles in cells (1-4)
  rows.load_delay_ms          - Time a row shows its placeholder after scrolling in
  axis.default_step           - Snapping step for slot boards that set none
  axis.default_mode           - Event width for boards that set none: span, single
  tui.title_width             - Width of the row title column
  tui.theme                   - Color theme: default, mono, nord, dracula
  tui.mouse                   - Enable mouse input (true/false)
  board.watch                 - Reload the board when the file changes (true/false)
  board.autosave              - Save after every edit (true/false)
  logging.enabled             - Write a debug log (true/false)
  logging.level               - Log level: debug, info, warn, error
  logging.dir                 - Log directory (default: <config dir>/logs)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/planboard/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  planboard config reset                 # Reset all to defaults
  planboard config reset tui.theme       # Reset only tui.theme to default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind is how a config value is parsed from the command line.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

var validKeys = map[string]keyKind{
	"interaction.click_threshold": kindFloat,
	"interaction.double_click_ms": kindInt,
	"interaction.handle_width":    kindInt,
	"rows.load_delay_ms":          kindInt,
	"axis.default_step":           kindInt,
	"axis.default_mode":           kindString,
	"tui.title_width":             kindInt,
	"tui.theme":                   kindString,
	"tui.mouse":                   kindBool,
	"board.watch":                 kindBool,
	"board.autosave":              kindBool,
	"logging.enabled":             kindBool,
	"logging.level":               kindString,
	"logging.dir":                 kindString,
}

func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"interaction.click_threshold": d.Interaction.ClickThreshold,
		"interaction.double_click_ms": d.Interaction.DoubleClickMs,
		"interaction.handle_width":    d.Interaction.HandleWidth,
		"rows.load_delay_ms":          d.Rows.LoadDelayMs,
		"axis.default_step":           d.Axis.DefaultStep,
		"axis.default_mode":           d.Axis.DefaultMode,
		"tui.title_width":             d.TUI.TitleWidth,
		"tui.theme":                   d.TUI.Theme,
		"tui.mouse":                   d.TUI.Mouse,
		"board.watch":                 d.Board.Watch,
		"board.autosave":              d.Board.Autosave,
		"logging.enabled":             d.Logging.Enabled,
		"logging.level":               d.Logging.Level,
		"logging.dir":                 d.Logging.Dir,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := appconfig.Get()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	writeConfig(out, cfg)
	return nil
}

func writeConfig(out io.Writer, cfg *appconfig.Config) {
	fmt.Fprintln(out, "interaction:")
	fmt.Fprintf(out, "  click_threshold: %v\n", cfg.Interaction.ClickThreshold)
	fmt.Fprintf(out, "  double_click_ms: %d\n", cfg.Interaction.DoubleClickMs)
	fmt.Fprintf(out, "  handle_width: %d\n", cfg.Interaction.HandleWidth)

	fmt.Fprintln(out, "rows:")
	fmt.Fprintf(out, "  load_delay_ms: %d\n", cfg.Rows.LoadDelayMs)

	fmt.Fprintln(out, "axis:")
	fmt.Fprintf(out, "  default_step: %d\n", cfg.Axis.DefaultStep)
	fmt.Fprintf(out, "  default_mode: %s\n", cfg.Axis.DefaultMode)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  title_width: %d\n", cfg.TUI.TitleWidth)
	fmt.Fprintf(out, "  theme: %s\n", cfg.TUI.Theme)
	fmt.Fprintf(out, "  mouse: %v\n", cfg.TUI.Mouse)

	fmt.Fprintln(out, "board:")
	fmt.Fprintf(out, "  watch: %v\n", cfg.Board.Watch)
	fmt.Fprintf(out, "  autosave: %v\n", cfg.Board.Autosave)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.ResolveDir())
}

// parseValue converts value to the type key holds.
func parseValue(key, value string) (any, error) {
	kind, ok := validKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'planboard config set --help' to see valid keys", key)
	}

	switch kind {
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case kindInt:
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return v, nil
	case kindFloat:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		return v, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)

	// Range checks live in the validator; run it before touching the file.
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	configFile, err := writeConfigFile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func writeConfigFile() (string, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// defaultConfigContent is the commented file written by config init.
const defaultConfigContent = `# Planboard Configuration

# Pointer gesture recognition
interaction:
  # Cells a press may move and still count as a click
  click_threshold: 0.5
  # Maximum gap between the two clicks of a double click
  double_click_ms: 400
  # Width of each resize handle in cells (1-4)
  handle_width: 1

# Row placeholders
rows:
  # How long a row shows its placeholder after scrolling into view
  load_delay_ms: 150

# Defaults for boards that leave these out
axis:
  default_step: 1
  # span: events are as wide as their range; single: one step wide
  default_mode: span

# TUI (terminal user interface) settings
tui:
  title_width: 18
  # Options: default, mono, nord, dracula
  theme: default
  mouse: true

# Board file handling
board:
  # Reload the board when another program rewrites it
  watch: true
  # Save after every drag, resize, rename and delete
  autosave: true

# Debug logging
logging:
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Defaults to the logs directory next to this file
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'planboard config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize planboard's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/planboard/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: PLANBOARD_* (e.g., PLANBOARD_TUI_THEME)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	// Find an editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := defaultValues()

	if len(args) == 0 {
		keys := make([]string, 0, len(defaults))
		for key := range defaults {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			viper.Set(key, defaults[key])
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'planboard config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfigFile()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
