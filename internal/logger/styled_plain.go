package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// PlainStyledLogger implements StyledLogger without formatting
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{
		logger: logger,
	}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PlainStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PlainStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PlainStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PlainStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s (%d)", msg, count), args...)
}

func (sl *PlainStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	sl.logger.Info(fmt.Sprintf("%s %s", msg, model), args...)
}

func (sl *PlainStyledLogger) WarnWithModel(msg string, model string, args ...any) {
	sl.logger.Warn(fmt.Sprintf("%s %s", msg, model), args...)
}

func (sl *PlainStyledLogger) ErrorWithModel(msg string, model string, args ...any) {
	sl.logger.Error(fmt.Sprintf("%s %s", msg, model), args...)
}

func (sl *PlainStyledLogger) InfoModelChange(oldModel, newModel string) {
	sl.logger.Info("Current model changed", "from", oldModel, "to", newModel)
}

func (sl *PlainStyledLogger) WarnWithContext(msg string, model string, ctx LogContext) {
	sl.logger.Warn(fmt.Sprintf("%s %s", msg, model), ctx.UserArgs...)

	if len(ctx.DetailedArgs) > 0 {
		detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
		sl.logger.WarnContext(detailedCtx, msg, appendDetailed(model, ctx)...)
	}
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{
		logger: sl.logger.With(args...),
	}
}
