//go:generate mockgen -package=mocks -destination=../../mocks/mock_logger.go github.com/gocircum/tunnelcore/pkg/logging Logger

package logging

// Logger defines a common interface for logging.
// This is used to allow for mock loggers in tests.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
}
