// Package report decouples the preparation pipelines from any concrete
// output sink. Core packages emit stage boundaries, counters and warnings
// to a Reporter instead of printing.
package report

import (
	"log/slog"
	"os"
	"strings"
)

// Reporter receives progress events from the pipelines.
type Reporter interface {
	// Stage marks a stage boundary (e.g. "merge", "dedup").
	Stage(name string, args ...any)
	// Count reports an accumulated metric for the current stage.
	Count(metric string, n int, args ...any)
	// Warn reports a degraded but non-fatal condition.
	Warn(msg string, args ...any)
	// Debug reports per-record noise (skipped lines, dropped rows).
	Debug(msg string, args ...any)
}

// Nop discards all events.
var Nop Reporter = nop{}

type nop struct{}

func (nop) Stage(string, ...any)      {}
func (nop) Count(string, int, ...any) {}
func (nop) Warn(string, ...any)       {}
func (nop) Debug(string, ...any)      {}

// Log is a Reporter backed by log/slog.
type Log struct {
	internal *slog.Logger
}

// NewLog creates a slog-backed reporter writing to stderr at the given
// level ("debug", "info", "warn", "error"; anything else means info).
func NewLog(level string) *Log {
	lvl := new(slog.LevelVar)

	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "info":
		lvl.Set(slog.LevelInfo)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})

	return &Log{internal: slog.New(handler)}
}

func (l *Log) Stage(name string, args ...any) {
	l.internal.Info("stage "+name, args...)
}

func (l *Log) Count(metric string, n int, args ...any) {
	l.internal.Info(metric, append([]any{"count", n}, args...)...)
}

func (l *Log) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

func (l *Log) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Recorder captures events for assertions in tests.
type Recorder struct {
	Stages   []string
	Counts   map[string]int
	Warnings []string
	Debugs   []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Counts: map[string]int{}}
}

func (r *Recorder) Stage(name string, args ...any) {
	r.Stages = append(r.Stages, name)
}

func (r *Recorder) Count(metric string, n int, args ...any) {
	r.Counts[metric] += n
}

func (r *Recorder) Warn(msg string, args ...any) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Recorder) Debug(msg string, args ...any) {
	r.Debugs = append(r.Debugs, msg)
}
