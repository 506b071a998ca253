package logging

import (
	"io"
	"log/slog"
)

// SetupJSON makes a JSON logger writing to w at level the slog default and
// returns it. Every record carries the service name.
func SetupJSON(w io.Writer, service string, level slog.Level) *slog.Logger {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	).With("service", service)
	slog.SetDefault(logger)

	return logger
}
