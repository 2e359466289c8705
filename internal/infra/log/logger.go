package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"coderr/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
}

// New creates and initializes slog.Logger. When a log file is configured the
// output is duplicated into a size-rotated file that is closed on stop.
func New(params Params) (*slog.Logger, error) {
	logger, closer, err := build(params.Config.Env.Log, os.Stdout)
	if err != nil {
		return nil, err
	}

	if closer != nil {
		params.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return closer.Close()
			},
		})
	}

	return logger, nil
}

func build(cfg config.Log, stdout io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	out := stdout
	var closer io.Closer
	if path := strings.TrimSpace(cfg.File.Path); path != "" {
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		out = io.MultiWriter(stdout, rotator)
		closer = rotator
	}

	// Initialize slog logger with JSON format and specified log level
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Pretty {
		return slog.New(slog.NewTextHandler(out, opts)), closer, nil
	}

	return slog.New(slog.NewJSONHandler(out, opts)), closer, nil
}

// parseLogLevel converts string log level to slog.Level. Empty means info.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
