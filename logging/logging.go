// Package logging constructs the application's structured logger.
package logging

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger. In the dev environment the level drops
// to debug.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
