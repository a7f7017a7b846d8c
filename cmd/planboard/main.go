// Command planboard shows and edits timeline boards in the terminal.
package main

import (
	"os"

	"github.com/Iron-Ham/planboard/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
