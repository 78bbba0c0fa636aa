package testutils

import (
	"io"

	"github.com/gocircum/tunnelcore/pkg/logging"
	"go.uber.org/zap/zapcore"
)

// NewTestLogger creates a new logger for testing that discards output.
func NewTestLogger() logging.Logger {
	return logging.New("debug", "console", zapcore.AddSync(io.Discard))
}
