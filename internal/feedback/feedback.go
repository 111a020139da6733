// Package feedback announces session outcomes outside the spoken dialogue.
package feedback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mfelder/voxfill/internal/config"
)

// Notifier is the dialogue-facing announcement contract.
type Notifier interface {
	Success(ctx context.Context)
	MissingFields(ctx context.Context, fields []string)
}

// New selects the configured backend. A disabled config yields a silent
// notifier.
func New(cfg config.FeedbackConfig, out io.Writer, logger *slog.Logger) Notifier {
	if !cfg.Enable {
		return Silent{}
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Backend), "log") {
		return NewLog(logger)
	}
	return NewTerminal(out)
}

// Silent discards all announcements.
type Silent struct{}

func (Silent) Success(context.Context)                 {}
func (Silent) MissingFields(context.Context, []string) {}

// Terminal writes human-readable announcements to a stream, usually stdout.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a terminal notifier writing to out.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = io.Discard
	}
	return &Terminal{out: out}
}

// Success announces a completed form.
func (t *Terminal) Success(context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "form complete: all required fields filled")
}

// MissingFields lists the fields still unfilled after a turn.
func (t *Terminal) MissingFields(_ context.Context, fields []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "form incomplete: missing %s\n", strings.Join(fields, ", "))
}

// Log routes announcements through the structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a logger-backed notifier.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Log{logger: logger}
}

// Success announces a completed form.
func (l *Log) Success(context.Context) {
	l.logger.Info("form complete")
}

// MissingFields lists the fields still unfilled after a turn.
func (l *Log) MissingFields(_ context.Context, fields []string) {
	l.logger.Info("form incomplete", "missing", fields)
}
