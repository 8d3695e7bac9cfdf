package logger

import "log/slog"

// NewNope returns a logger that drops every record.
// It is the App and dispatcher default until a logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
