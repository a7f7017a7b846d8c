package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete planboard configuration
type Config struct {
	Interaction InteractionConfig `mapstructure:"interaction"`
	Rows        RowsConfig        `mapstructure:"rows"`
	Axis        AxisConfig        `mapstructure:"axis"`
	TUI         TUIConfig         `mapstructure:"tui"`
	Board       BoardConfig       `mapstructure:"board"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// InteractionConfig controls pointer gesture recognition
type InteractionConfig struct {
	// ClickThreshold is the movement, in cells, a gesture may make and still
	// count as a click (default: 0.5, so any whole-cell move drags)
	ClickThreshold float64 `mapstructure:"click_threshold"`
	// DoubleClickMs is the maximum gap between two clicks on the same event
	// for them to count as a double click (default: 400)
	DoubleClickMs int `mapstructure:"double_click_ms"`
	// HandleWidth is the width, in cells, of the resize strips at each end
	// of a span event (default: 1)
	HandleWidth int `mapstructure:"handle_width"`
}

// RowsConfig controls virtualized row loading
type RowsConfig struct {
	// LoadDelayMs is how long a newly visible row shows a placeholder before
	// its content is painted. 0 loads immediately (default: 150)
	LoadDelayMs int `mapstructure:"load_delay_ms"`
}

// AxisConfig holds axis defaults used when a board file leaves them out
type AxisConfig struct {
	// DefaultStep is the snapping step (default: 1)
	DefaultStep int64 `mapstructure:"default_step"`
	// DefaultMode is "span" or "single" (default: "span")
	DefaultMode string `mapstructure:"default_mode"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// TitleWidth is the width of the row title column (default: 18, min: 4, max: 60)
	TitleWidth int `mapstructure:"title_width"`
	// Theme is one of default, mono, nord, dracula (default: "default")
	Theme string `mapstructure:"theme"`
	// Mouse enables mouse reporting (default: true)
	Mouse bool `mapstructure:"mouse"`
}

// BoardConfig controls board file handling
type BoardConfig struct {
	// Watch reloads the board when another program rewrites it (default: true)
	Watch bool `mapstructure:"watch"`
	// Autosave writes committed drags, resizes and edits back to the file (default: true)
	Autosave bool `mapstructure:"autosave"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled turns on file logging (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is one of debug, info, warn, error (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the log directory. Empty means <config dir>/logs
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Interaction: InteractionConfig{
			ClickThreshold: 0.5,
			DoubleClickMs:  400,
			HandleWidth:    1,
		},
		Rows: RowsConfig{
			LoadDelayMs: 150,
		},
		Axis: AxisConfig{
			DefaultStep: 1,
			DefaultMode: "span",
		},
		TUI: TUIConfig{
			TitleWidth: 18,
			Theme:      "default",
			Mouse:      true,
		},
		Board: BoardConfig{
			Watch:    true,
			Autosave: true,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     "",
		},
	}
}

// DoubleClickWindow returns the double click window as a time.Duration
func (c *InteractionConfig) DoubleClickWindow() time.Duration {
	return time.Duration(c.DoubleClickMs) * time.Millisecond
}

// LoadDelay returns the row load delay as a time.Duration
func (c *RowsConfig) LoadDelay() time.Duration {
	return time.Duration(c.LoadDelayMs) * time.Millisecond
}

// ResolveDir returns the log directory, defaulting to <config dir>/logs
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return c.Dir
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Interaction defaults
	viper.SetDefault("interaction.click_threshold", defaults.Interaction.ClickThreshold)
	viper.SetDefault("interaction.double_click_ms", defaults.Interaction.DoubleClickMs)
	viper.SetDefault("interaction.handle_width", defaults.Interaction.HandleWidth)

	// Rows defaults
	viper.SetDefault("rows.load_delay_ms", defaults.Rows.LoadDelayMs)

	// Axis defaults
	viper.SetDefault("axis.default_step", defaults.Axis.DefaultStep)
	viper.SetDefault("axis.default_mode", defaults.Axis.DefaultMode)

	// TUI defaults
	viper.SetDefault("tui.title_width", defaults.TUI.TitleWidth)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.mouse", defaults.TUI.Mouse)

	// Board defaults
	viper.SetDefault("board.watch", defaults.Board.Watch)
	viper.SetDefault("board.autosave", defaults.Board.Autosave)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planboard"
	}
	return filepath.Join(home, ".config", "planboard")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
