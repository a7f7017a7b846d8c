// Package logging provides structured logging for planboard.
//
// The package wraps log/slog with a JSON handler. Child loggers carry
// persistent attributes so that every line written while handling a
// gesture can be tied back to the board, row and event it concerns:
//
//	logger, err := logging.NewLogger(dir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	evLogger := logger.WithBoard("plan.yaml").WithRow(3).WithEvent("deploy")
//	evLogger.Info("drag committed", "start", 2, "end", 4)
//
// The TUI owns the terminal, so interactive sessions always log to a file
// in the configured directory or to [NopLogger]. With an empty directory
// logs go to stderr, which is only appropriate for non-interactive
// commands.
//
// All types in this package are safe for concurrent use.
package logging
