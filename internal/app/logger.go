package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/pbxgraph/internal/config"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. Unknown
// levels fall back to info.
func newLogger(cfg config.Log, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}

	return slog.New(handler)
}
