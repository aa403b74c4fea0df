package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Severity tags a notification
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Notifier shows a short message to the shopper. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a plain function to Notifier
type Func func(message string, severity Severity)

func (f Func) Notify(message string, severity Severity) {
	f(message, severity)
}

// Send delivers through n, tolerating a nil notifier
func Send(n Notifier, message string, severity Severity) {
	if n == nil {
		return
	}
	n.Notify(message, severity)
}

// LogNotifier records notifications in the structured log
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	level := slog.LevelInfo
	if severity == Error {
		level = slog.LevelWarn
	}
	n.logger.Log(context.Background(), level, "notification", "message", message, "severity", string(severity))
}

// WriterNotifier prints "[severity] message" lines
type WriterNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", severity, message)
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(message string, severity Severity) {
	for _, n := range m {
		Send(n, message, severity)
	}
}
