package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init configures the package logger for the given environment. Production
// writes JSON, everything else writes human readable text.
func Init(env string) {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	var h slog.Handler
	switch strings.ToLower(env) {
	case "production", "prod":
		opts.AddSource = true
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	log = slog.New(h).With("service", "kenyamart", "env", env)
	slog.SetDefault(log)
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	log.Log(context.Background(), slog.LevelError, msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets callers pass a bare error as the only argument, which is how
// most call sites report failures.
func normalize(args []any) []any {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case error:
			return []any{slog.String("error", v.Error())}
		case slog.Attr:
			return args
		default:
			return []any{slog.Any("detail", v)}
		}
	}
	return args
}
