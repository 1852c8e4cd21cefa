// Package logging provides the leveled, structured logger used by the
// pipeline package and the cmd/meteorcam entry point.
//
// Grounded on lkumar3-iitr-Sensor-Logger/utils/logger.go
// (_examples/lkumar3-iitr-Sensor-Logger/utils/logger.go)'s singleton
// init/Close/level shape, rebuilt on github.com/rs/zerolog for structured
// (field-based) output instead of that file's fmt.Sprintf-formatted
// stdlib log.Logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger writing to stdout and, optionally, a log file.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// New constructs a Logger at the given minimum level, writing to stdout and
// additionally to logPath if non-empty. An unopenable logPath is reported
// on stderr and otherwise ignored (stdout logging still works).
func New(level string, logPath string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro

	writers := []io.Writer{os.Stdout}

	var f *os.File
	if logPath != "" {
		var err error
		f, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			os.Stderr.WriteString("logging: could not open log file " + logPath + ": " + err.Error() + "\n")
		} else {
			writers = append(writers, f)
		}
	}

	zl := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	zl = zl.Level(parseLevel(level))

	return &Logger{zl: zl, file: f}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Close flushes and closes the log file, if one was opened.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

// With returns a child logger scoped to a named component, e.g.
// logger.With("capture") annotates every subsequent record with
// component=capture.
func (l *Logger) With(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger(), file: l.file}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal logs at fatal level and terminates the process (zerolog.Event.Msg
// calls os.Exit(1) for events built at FatalLevel).
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }
