// Package log wraps slog with a per-component attribute, so every line names
// the part of the application it came from.
package log

import (
	"log/slog"
	"os"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentService = "service"
	ComponentMirror  = "mirror"
	ComponentNotify  = "notify"
	ComponentCLI     = "cli"
)

// Logger carries the component attribute in the embedded slog.Logger, so it
// survives when the embedded logger is handed to other packages.
type Logger struct {
	*slog.Logger
	handler   slog.Handler
	component string
}

// New creates a text-handler logger at the given level.
func New(level slog.Level, component string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{
		Logger:    slog.New(handler).With("component", component),
		handler:   handler,
		component: component,
	}
}

// WithComponent returns a logger for a different component sharing the same
// handler.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.handler).With("component", component),
		handler:   l.handler,
		component: component,
	}
}

// With returns a logger with extra attributes attached.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		handler:   l.handler,
		component: l.component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string { return l.component }

// SetDefault installs the wrapped slog.Logger as the process default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
