package logger

import (
	"log/slog"
	"os"
)

// FatalWithLogger logs at error level and exits, used only during start-up
// before the application owns the process.
func FatalWithLogger(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
