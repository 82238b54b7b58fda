package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how the logger is built
type Config struct {
	Level  string
	Format string
	// Output defaults to stderr so stdout only carries the report.
	Output io.Writer
}

// New creates a zap logger from the configuration
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	switch strings.ToLower(format) {
	case "", FormatConsole:
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.TimeKey = ""
		return zapcore.NewConsoleEncoder(config), nil
	case FormatJSON:
		config := zap.NewProductionEncoderConfig()
		config.LevelKey = "level"
		config.TimeKey = "time"
		config.MessageKey = "message"
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(config), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

// LevelFromVerbosity turns repeated -v/-q flags into a level name. Info is the
// default; each -v lowers the threshold by one level and each -q raises it.
func LevelFromVerbosity(verbose, quiet int) string {
	level := int(zapcore.InfoLevel) - verbose + quiet
	if level < int(zapcore.DebugLevel) {
		level = int(zapcore.DebugLevel)
	}
	if level > int(zapcore.FatalLevel) {
		level = int(zapcore.FatalLevel)
	}
	return zapcore.Level(level).String()
}

// WithRunID tags every entry of the returned logger with the given run id, or
// a fresh one when id is empty.
func WithRunID(l *zap.Logger, id string) *zap.Logger {
	if id == "" {
		id = uuid.NewString()
	}
	return l.With(zap.String("run_id", id))
}
