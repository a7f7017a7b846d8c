package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/planboard/internal/board"
	"github.com/Iron-Ham/planboard/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate <board.yaml>",
	Short: "Check a board file for problems",
	Long: `Load a board file and report every problem found in it.

Exits with a non-zero status when the file cannot be read or is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	b, err := board.Load(path)
	if err == nil {
		fmt.Fprintf(out, "%s: ok (%d rows, %d events)\n", path, len(b.Rows), b.EventCount())
		return nil
	}

	problems := board.Problems(err)
	if len(problems) == 0 {
		return err
	}
	fmt.Fprintf(out, "%s: %d problem(s)\n", path, len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p.Error())
	}
	return fmt.Errorf("%s: %w", path, errors.ErrBoardInvalid)
}
