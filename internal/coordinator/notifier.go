package coordinator

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info(msg, zap.String("notification", "success"))
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Error(msg, zap.String("notification", "error"))
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) {
	n.print("✓", msg)
}

func (n *WriterNotifier) Error(msg string) {
	n.print("✗", msg)
}

func (n *WriterNotifier) print(mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", mark, msg)
}
