// Package log provides the component loggers used across the server.
package log

import (
	"errors"
	"io"
	"time"

	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/rs/zerolog"
)

const colorReset = "\033[0m"

// Logger writes human readable, leveled lines tagged with a component name.
type Logger struct {
	zl zerolog.Logger
}

var _ i.Logger = &Logger{}

// New creates a Logger for the named component. color is an ANSI escape
// sequence used for the component tag.
func New(name, color string, w io.Writer) (*Logger, error) {
	if name == "" {
		return nil, errors.New("logger needs a component name")
	}
	if w == nil {
		return nil, errors.New("logger needs a writer")
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    color == "",
	}
	tag := "[" + name + "]"
	if color != "" {
		tag = color + tag + colorReset
	}
	out.FormatMessage = func(m interface{}) string {
		if m == nil {
			return tag
		}
		return tag + " " + m.(string)
	}

	return &Logger{zl: zerolog.New(out).With().Timestamp().Logger()}, nil
}

// WithLevel returns a copy that drops messages below level.
func (l *Logger) WithLevel(level zerolog.Level) *Logger {
	return &Logger{zl: l.zl.Level(level)}
}

func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.zl.Error().Msg(msg)
}
