package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/planboard/internal/tui"
)

// DefaultRenderWidth is used when stdout is not a terminal and no width
// is given.
const DefaultRenderWidth = 100

var renderWidth int

var renderCmd = &cobra.Command{
	Use:   "render <board.yaml>",
	Short: "Print a board without the interactive UI",
	Long: `Print a board once, with every row loaded, and exit.

The width defaults to the terminal width, or 100 columns when the output
is not a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "output width in columns (default: terminal width)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := loadBoard(args[0], cfg)
	if err != nil {
		return err
	}

	width := renderWidth
	if width <= 0 {
		width = terminalWidth()
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Render(b, width, cfg))
	return nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultRenderWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultRenderWidth
	}
	return w
}
