package main

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Notifier surfaces short lived feedback about user actions.
type Notifier interface {
	Success(title, message string)
	Info(title, message string)
	Error(title, message string)
}

var _ Notifier = (*ConsoleNotifier)(nil)

// ConsoleNotifier prints one line per notification. It is meant for
// stderr so that stdout only carries the command output.
type ConsoleNotifier struct {
	logger *zap.Logger
	mu     sync.Mutex
	out    io.Writer
}

func NewConsoleNotifier(logger *zap.Logger, out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger, out: out}
}

func (n *ConsoleNotifier) Success(title, message string) {
	n.write("ok", title, message)
	n.logger.Info(message, zap.String("notify.kind", "success"), zap.String("notify.title", title))
}

func (n *ConsoleNotifier) Info(title, message string) {
	n.write("info", title, message)
	n.logger.Info(message, zap.String("notify.kind", "info"), zap.String("notify.title", title))
}

func (n *ConsoleNotifier) Error(title, message string) {
	n.write("error", title, message)
	n.logger.Warn(message, zap.String("notify.kind", "error"), zap.String("notify.title", title))
}

func (n *ConsoleNotifier) write(kind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if title != "" {
		fmt.Fprintf(n.out, "[%s] %s: %s\n", kind, title, message)
		return
	}
	fmt.Fprintf(n.out, "[%s] %s\n", kind, message)
}

// UserMessage gives the text to show for err. Backend failures show
// the message extracted from the response body.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
