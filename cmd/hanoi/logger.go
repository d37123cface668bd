package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/npratt/hanoi/internal/config"
)

// PlayLoggerResult holds the logger used while a game is on screen.
type PlayLoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *PlayLoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupPlayLogger creates a logger that writes to a rotating file at path
// instead of stderr, so log lines never land on the board. The caller must
// close the result.
func SetupPlayLogger(path string, level slog.Leveler, rotationCfg config.LogRotationConfig) (*PlayLoggerResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &PlayLoggerResult{
		Logger:   newJSONLogger(writer, level),
		LogFile:  writer,
		FilePath: path,
	}, nil
}

func newJSONLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
