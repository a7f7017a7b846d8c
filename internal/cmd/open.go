package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/planboard/internal/event"
	"github.com/Iron-Ham/planboard/internal/tui"
)

var openCmd = &cobra.Command{
	Use:   "open <board.yaml>",
	Short: "Open a board in the interactive UI",
	Long: `Open a board in the interactive terminal UI.

Drag an event's body to move it, drag its edges to resize it, click it to
see its details and double-click it to rename it. Right-click opens the
action menu. Changes are saved back to the file unless board.autosave is
off, and the file is reloaded when another program rewrites it.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("open needs an interactive terminal; use 'planboard render' for static output")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() { _ = logger.Close() }()
	logger = logger.WithBoard(args[0])

	b, err := loadBoard(args[0], cfg)
	if err != nil {
		return err
	}
	logger.Info("opening board", "rows", len(b.Rows), "events", b.EventCount())

	app := tui.New(tui.Options{
		Path:   args[0],
		Board:  b,
		Config: cfg,
		Bus:    event.NewBus(logger),
		Logger: logger,
	})
	return app.Run()
}
