package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
)

var base = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Init() {
	SetOutput(os.Stdout)
	Info("logger initialized", nil)
}

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	base = slog.New(slog.NewJSONHandler(w, nil))
}

func Info(msg string, fields map[string]any) {
	base.Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	base.Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	base.Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	base.Error(msg, append(attrs(fields), slog.Bool("fatal", true))...)
	os.Exit(1)
}

// attrs flattens fields in key order so lines stay diffable.
func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
