package logger

import (
	"log/slog"

	"github.com/thushan/narrador/internal/util"
	"github.com/thushan/narrador/theme"
)

// StyledLogger is the logging contract used throughout narrador. The pretty
// implementation colours model names and counts for terminals, the plain one
// keeps messages untouched for JSON/file output and tests.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithModel(msg string, model string, args ...any)
	WarnWithModel(msg string, model string, args ...any)
	ErrorWithModel(msg string, model string, args ...any)
	InfoModelChange(oldModel, newModel string)

	WarnWithContext(msg string, model string, ctx LogContext)

	GetUnderlying() *slog.Logger
	WithRequestID(requestID string) StyledLogger
	With(args ...any) StyledLogger
}

// LogContext separates what the operator sees on the terminal from the
// detailed payload that only lands in the log file.
type LogContext struct {
	UserArgs     []any
	DetailedArgs []any
}

// NewWithTheme builds the slog logger and wraps it in the styled logger that
// suits the output: pretty for colour terminals, plain otherwise.
func NewWithTheme(cfg *Config) (*slog.Logger, StyledLogger, func(), error) {
	logger, cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if util.ShouldUseColors() {
		return logger, NewPrettyStyledLogger(logger, theme.GetTheme(cfg.Theme)), cleanup, nil
	}
	return logger, NewPlainStyledLogger(logger), cleanup, nil
}

func appendDetailed(model string, ctx LogContext) []any {
	allArgs := make([]any, 0, len(ctx.UserArgs)+len(ctx.DetailedArgs)+2)
	allArgs = append(allArgs, "model", model)
	allArgs = append(allArgs, ctx.UserArgs...)
	allArgs = append(allArgs, ctx.DetailedArgs...)
	return allArgs
}
