package harness

// Logger defines the interface for harness logging.
// The harness uses structured logging with key-value pairs so that
// implementing applications can control how harness logs appear.
//
// The Logger interface uses variadic arguments in key-value pairs:
//
//	logger.Info("message", "key1", "value1", "key2", "value2")
//
// This approach is compatible with popular structured logging libraries
// like slog, logrus, zap, and others. An adapter over log/slog is a
// one-line method per level:
//
//	type SlogLogger struct{ logger *slog.Logger }
//
//	func (l *SlogLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }
type Logger interface {
	// Info logs an informational message with optional key-value pairs.
	// Used for normal harness events like run start and report delivery.
	Info(msg string, args ...any)

	// Error logs an error message with optional key-value pairs.
	// Used for errors that don't abort the run but should be noted.
	Error(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs.
	// Used for conditions like duplicate element registration or a
	// failed report transmission.
	Warn(msg string, args ...any)

	// Debug logs a debug message with optional key-value pairs.
	// Used for detailed diagnostics such as individual lookup polls.
	Debug(msg string, args ...any)
}

// noopLogger discards all log output. It is the default when no logger
// is configured so that callers never need nil checks.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}
