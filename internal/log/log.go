// Package log is the zerolog logger shared by the nodeid binaries.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

func init() {
	// prettify if stderr is a console
	if isTerminal(os.Stderr) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New returns a logger writing to w at the named level ("" means info).
// Terminals get console formatting.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), err
		}
	}
	if isTerminal(w) {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Set replaces the package logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// Info starts a new message with info level.
//
// You must call Msg on the returned event in order to send the event.
func Info() *zerolog.Event {
	return logger.Info()
}

// Error starts a new message with error level.
func Error() *zerolog.Event {
	return logger.Error()
}
