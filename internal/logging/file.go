package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures a rotating log file.
type FileOptions struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileLogger returns a JSON logger writing to a size-rotated file. The
// returned closer flushes and closes the current file.
//
// The interactive client logs here so that sync chatter never interleaves
// with the prompt on stdout.
func NewFileLogger(opts FileOptions) (*SlogLogger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
		Compress:   true,
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return NewSlogLogger(slog.New(h)), w
}
