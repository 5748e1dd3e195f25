// Package logging provides categorized zap loggers for entrybot.
// Every entry is written to stderr and tagged with its category and the run id.
// There is no log file: progress and errors are meant for the operator watching the console.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config, platform checks
	CategoryFetch   Category = "fetch"   // Remote record source
	CategoryTactile Category = "tactile" // Editor process launch and termination
	CategoryDesktop Category = "desktop" // Focus checks and keystroke synthesis
	CategoryOutput  Category = "output"  // Output files
	CategoryBatch   Category = "batch"   // Per-record orchestration
)

// Options controls how Initialize builds the root logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	RunID  string
}

// Logger wraps a sugared zap logger bound to one category.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	root      = zap.NewNop()
	rootMu    sync.RWMutex
	loggers   = make(map[Category]*Logger)
	loggersMu sync.Mutex
)

// Initialize builds the process-wide logger. Should be called once at startup.
func Initialize(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	cfg.Encoding = "console"
	if strings.EqualFold(opts.Format, "json") {
		cfg.Encoding = "json"
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	if cfg.Encoding == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if opts.RunID != "" {
		l = l.With(zap.String("run", opts.RunID))
	}
	Use(l)
	return l, nil
}

// Use installs l as the root logger and drops cached category loggers.
// Passing nil installs a no-op logger.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	rootMu.Lock()
	root = l
	rootMu.Unlock()

	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
}

// Root returns the current root logger.
func Root() *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Root().Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    Root().With(zap.String("category", string(category))).Sugar(),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message. The root logger attaches a stacktrace at this level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying additional key/value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootError logs error to the boot category
func BootError(format string, args ...interface{}) {
	Get(CategoryBoot).Error(format, args...)
}

// Fetch logs to the fetch category
func Fetch(format string, args ...interface{}) {
	Get(CategoryFetch).Info(format, args...)
}

// FetchDebug logs debug to the fetch category
func FetchDebug(format string, args ...interface{}) {
	Get(CategoryFetch).Debug(format, args...)
}

// FetchWarn logs warning to the fetch category
func FetchWarn(format string, args ...interface{}) {
	Get(CategoryFetch).Warn(format, args...)
}

// Tactile logs to the tactile category
func Tactile(format string, args ...interface{}) {
	Get(CategoryTactile).Info(format, args...)
}

// TactileDebug logs debug to the tactile category
func TactileDebug(format string, args ...interface{}) {
	Get(CategoryTactile).Debug(format, args...)
}

// TactileWarn logs warning to the tactile category
func TactileWarn(format string, args ...interface{}) {
	Get(CategoryTactile).Warn(format, args...)
}

// DesktopDebug logs debug to the desktop category
func DesktopDebug(format string, args ...interface{}) {
	Get(CategoryDesktop).Debug(format, args...)
}

// DesktopWarn logs warning to the desktop category
func DesktopWarn(format string, args ...interface{}) {
	Get(CategoryDesktop).Warn(format, args...)
}

// Output logs to the output category
func Output(format string, args ...interface{}) {
	Get(CategoryOutput).Info(format, args...)
}

// Batch logs to the batch category
func Batch(format string, args ...interface{}) {
	Get(CategoryBatch).Info(format, args...)
}

// BatchDebug logs debug to the batch category
func BatchDebug(format string, args ...interface{}) {
	Get(CategoryBatch).Debug(format, args...)
}

// BatchWarn logs warning to the batch category
func BatchWarn(format string, args ...interface{}) {
	Get(CategoryBatch).Warn(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
