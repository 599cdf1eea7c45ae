package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thushan/narrador/internal/util"
	"github.com/thushan/narrador/theme"
)

type Config struct {
	Level      string
	LogDir     string
	Theme      string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	FileOutput bool
}

const (
	DefaultLogOutputName  = "narrador.log"
	DefaultDetailedCookie = "detailed"

	timestampKey    = "timestamp"
	timestampLayout = "2006-01-02 15:04:05"
)

// New builds the process logger. Stdout gets pterm on colour terminals and
// JSON otherwise. With FileOutput a rotated JSON file receives everything,
// including the detailed attempt payloads that never reach stdout.
func New(cfg *Config) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)

	handler := &detailHandler{out: stdoutHandler(level, theme.GetTheme(cfg.Theme))}
	cleanup := func() {}

	if cfg.FileOutput {
		rotator, err := openLogFile(cfg)
		if err != nil {
			return nil, nil, err
		}
		handler.file = jsonHandler(rotator, level)
		cleanup = func() { _ = rotator.Close() }
	}

	return slog.New(handler), cleanup, nil
}

func stdoutHandler(level slog.Level, appTheme *theme.Theme) slog.Handler {
	if !util.ShouldUseColors() {
		return jsonHandler(os.Stdout, level)
	}

	plogger := pterm.DefaultLogger.
		WithLevel(ptermLevel(level)).
		WithWriter(os.Stdout).
		WithFormatter(pterm.LogFormatterColorful).
		WithKeyStyles(map[string]pterm.Style{
			"level": *appTheme.Info,
			"msg":   *appTheme.Info,
			"time":  *appTheme.Muted,
		})
	return pterm.NewSlogHandler(plogger)
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: flattenAttr,
	})
}

func openLogFile(cfg *Config) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", cfg.LogDir, err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, DefaultLogOutputName),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}, nil
}

// flattenAttr keeps JSON lines greppable: short timestamps, no escape codes
// from styled model names, and complex values rendered as strings.
func flattenAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String(timestampKey, a.Value.Time().Format(timestampLayout))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if str := a.Value.String(); strings.ContainsRune(str, '\x1b') {
			return slog.String(a.Key, stripAnsiCodes(str))
		}
	case slog.KindAny:
		return slog.String(a.Key, fmt.Sprintf("%v", a.Value.Any()))
	}
	return a
}

// detailHandler sends regular records to stdout and the optional file.
// Records logged under the detailed context key go to the file only.
type detailHandler struct {
	out  slog.Handler
	file slog.Handler
}

func (h *detailHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.out.Enabled(ctx, level) {
		return true
	}
	return h.file != nil && h.file.Enabled(ctx, level)
}

func (h *detailHandler) Handle(ctx context.Context, record slog.Record) error {
	if !isDetailed(ctx) && h.out.Enabled(ctx, record.Level) {
		if err := h.out.Handle(ctx, record); err != nil {
			return err
		}
	}
	if h.file != nil && h.file.Enabled(ctx, record.Level) {
		return h.file.Handle(ctx, record)
	}
	return nil
}

func (h *detailHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &detailHandler{out: h.out.WithAttrs(attrs)}
	if h.file != nil {
		next.file = h.file.WithAttrs(attrs)
	}
	return next
}

func (h *detailHandler) WithGroup(name string) slog.Handler {
	next := &detailHandler{out: h.out.WithGroup(name)}
	if h.file != nil {
		next.file = h.file.WithGroup(name)
	}
	return next
}

func isDetailed(ctx context.Context) bool {
	detailed, _ := ctx.Value(DefaultDetailedCookie).(bool)
	return detailed
}

// parseLevel accepts slog's level names plus "warning"; anything else is info
func parseLevel(level string) slog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level < slog.LevelInfo:
		return pterm.LogLevelDebug
	case level < slog.LevelWarn:
		return pterm.LogLevelInfo
	case level < slog.LevelError:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}
