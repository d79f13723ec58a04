// Package obs contains observability utilities such as logging.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
var Logger *slog.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// InitLogger initializes the global Logger with a JSON handler. The level is
// taken from LOG_LEVEL (debug|info|warn|error), defaulting to info.
func InitLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	Logger = slog.New(h)
	slog.SetDefault(Logger)
}
