package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/thushan/narrador/theme"
)

// PrettyStyledLogger implements StyledLogger with pterm formatting
type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, theme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PrettyStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PrettyStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PrettyStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PrettyStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, pterm.Style{sl.Theme.Counts}.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	sl.logger.Info(sl.withModel(msg, model), args...)
}

func (sl *PrettyStyledLogger) WarnWithModel(msg string, model string, args ...any) {
	sl.logger.Warn(sl.withModel(msg, model), args...)
}

func (sl *PrettyStyledLogger) ErrorWithModel(msg string, model string, args ...any) {
	sl.logger.Error(sl.withModel(msg, model), args...)
}

func (sl *PrettyStyledLogger) InfoModelChange(oldModel, newModel string) {
	styledMsg := fmt.Sprintf("Current model changed from %s to %s",
		sl.Theme.Muted.Sprint(oldModel),
		pterm.Style{sl.Theme.Model}.Sprint(newModel))
	sl.logger.Info(styledMsg)
}

func (sl *PrettyStyledLogger) WarnWithContext(msg string, model string, ctx LogContext) {
	sl.logger.Warn(sl.withModel(msg, model), ctx.UserArgs...)

	if len(ctx.DetailedArgs) > 0 {
		detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
		sl.logger.WarnContext(detailedCtx, msg, appendDetailed(model, ctx)...)
	}
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

func (sl *PrettyStyledLogger) withModel(msg, model string) string {
	return fmt.Sprintf("%s %s", msg, pterm.Style{sl.Theme.Model}.Sprint(model))
}
