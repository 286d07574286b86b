package ports

// Logger defines the interface for logging. Args are alternating key/value
// pairs in the log/slog convention.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs fine-grained progress useful when diagnosing a build.
	Debug(msg string, args ...any)
	// Info logs build progress.
	Info(msg string, args ...any)
	// Warn logs recoverable conditions, such as a discarded cache.
	Warn(msg string, args ...any)
	// Error logs a failure together with its error.
	Error(msg string, err error, args ...any)
}
