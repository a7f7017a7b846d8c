package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/planboard/internal/axis"
	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/cmd/config"
	appconfig "github.com/Iron-Ham/planboard/internal/config"
	"github.com/Iron-Ham/planboard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "planboard",
	Short: "Interactive timeline and planner boards in the terminal",
	Long: `Planboard shows a YAML board of rows and events on a shared slot or
time axis. Events can be dragged, resized, renamed and deleted with the
mouse; changes are written back to the board file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/planboard/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	config.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath("$HOME/.config/planboard")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PLANBOARD")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PLANBOARD_ROWS_LOAD_DELAY_MS for rows.load_delay_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig returns the validated configuration.
func loadConfig() (*appconfig.Config, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger opens the debug log when logging is enabled and returns a
// discarding logger otherwise.
func newLogger(cfg *appconfig.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
}

// loadBoard reads the board at path and fills axis settings the file
// leaves out from the configuration. The default step is skipped when
// the board's spans are shorter than it.
func loadBoard(path string, cfg *appconfig.Config) (*board.Board, error) {
	b, err := board.Load(path)
	if err != nil {
		return nil, err
	}
	if b.Axis.Step == 0 && !b.IsTime() && cfg.Axis.DefaultStep > 1 {
		b.Axis.Step = board.Step(cfg.Axis.DefaultStep)
		// A default step longer than one of the file's spans would make
		// the board unsavable; keep the file's own step then.
		if b.Validate() != nil {
			b.Axis.Step = 0
		}
	}
	if b.Axis.Mode == "" && cfg.Axis.DefaultMode != string(axis.ModeSpan) {
		b.Axis.Mode = cfg.Axis.DefaultMode
	}
	return b, nil
}
