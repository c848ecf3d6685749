package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"search-agent/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type LoggerAdapter struct {
	sugar *zap.SugaredLogger
}

type Config struct {
	Level       string
	Development bool
	// Dir enables an additional JSON log file named after the service.
	Dir     string
	Service string
}

func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Service: "search-agent",
	}
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.Service))
		zcfg.OutputPaths = append(zcfg.OutputPaths, filepath.Join(cfg.Dir, filename))
	}

	base, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if cfg.Service != "" {
		base = base.With(zap.String("service", cfg.Service))
	}

	return &LoggerAdapter{sugar: base.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *LoggerAdapter {
	return &LoggerAdapter{sugar: zap.NewNop().Sugar()}
}

// Zap exposes the underlying logger for libraries that want one.
func (l *LoggerAdapter) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.With(key, value)}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...)}
}

func (l *LoggerAdapter) Close() error {
	err := l.sugar.Sync()
	// stdout/stderr cannot be synced on most terminals.
	if err != nil && (strings.Contains(err.Error(), "invalid argument") || strings.Contains(err.Error(), "inappropriate ioctl")) {
		return nil
	}
	return err
}

// sanitize makes a name safe for use in a file name.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "app"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
