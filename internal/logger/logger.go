// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger configures the structured diagnostic logger. Command
// output meant for the user is written directly to the command's writer;
// this logger carries diagnostics only.
package logger

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w at info level, or debug level when
// verbose is set, and installs it as the slog default.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	}))
	slog.SetDefault(l)
	return l
}
