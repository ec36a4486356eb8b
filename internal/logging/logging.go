// Package logging sets up the process-wide zerolog logger. Every sink renders
// events as plain lines: "timestamp - logger - LEVEL - message key=value".
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NameField carries the component name that prefixes every line.
const NameField = "logger"

type Options struct {
	// File is the append-only log file. Empty disables the file sink.
	File  string
	Level string
	// Console defaults to os.Stdout.
	Console io.Writer
}

var root atomic.Pointer[zerolog.Logger]

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(NewLineWriter(os.Stderr)).With().Timestamp().Logger()
	root.Store(&l)
}

// Setup replaces the root logger. The returned closer releases the file sink.
func Setup(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{NewLineWriter(console)}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
		}
		writers = append(writers, NewLineWriter(file))
		closer = file
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
	root.Store(&l)
	return closer, nil
}

// Named returns a child of the root logger tagged with name.
func Named(name string) zerolog.Logger {
	return root.Load().With().Str(NameField, name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
