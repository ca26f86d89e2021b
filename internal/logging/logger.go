// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

type Config struct {
	Level  string
	Format string
	// File enables a rotating log file next to stdout when set.
	File         string
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
	LogstashAddr string
}

// Logger is a logrus logger plus the resources it owns.
type Logger struct {
	*logrus.Logger
	closers []io.Closer
}

func New(cfg Config) (*Logger, error) {
	logger := logrus.New()

	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	}

	out := &Logger{Logger: logger}
	var output io.Writer = os.Stdout
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 50),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 14),
			Compress:   true,
		}
		out.closers = append(out.closers, file)
		output = io.MultiWriter(os.Stdout, file)
	}
	logger.SetOutput(output)

	if cfg.LogstashAddr != "" {
		hook, err := NewLogstashHook(cfg.LogstashAddr)
		if err != nil {
			return nil, err
		}
		logger.AddHook(hook)
		out.closers = append(out.closers, hook)
	}
	return out, nil
}

func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
