package util

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/thushan/narrador/internal/env"
)

/*
   references:
   - https://no-color.org/
   - https://github.com/sitkevij/no_color
*/

// IsTerminal checks if stdout is a terminal using go-isatty
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldUseColors determines if coloured output should be used.
// NO_COLOR wins, then FORCE_COLOR, then NARRADOR_FORCE_COLORS, then the tty check.
func ShouldUseColors() bool {
	if env.GetEnvOrDefault("NO_COLOR", "") != "" {
		return false
	}

	if forceColor := env.GetEnvOrDefault("FORCE_COLOR", ""); forceColor != "" {
		return forceColor != "0"
	}

	return env.GetEnvBoolOrDefault("NARRADOR_FORCE_COLORS", IsTerminal())
}
