package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", zapcore.AddSync(&buf))

	logger.With("component", "session").Info("state changed", "state", "connected")
	logger.Debug("dropped")

	out := buf.String()
	assert.Contains(t, out, `"component":"session"`)
	assert.Contains(t, out, `"state":"connected"`)
	assert.NotContains(t, out, "dropped")
}

func TestInitLoggerReplacesGlobal(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("debug", "console", zapcore.AddSync(&buf))

	GetLogger().Warn("resolver slow", "host", "example.com")
	assert.Contains(t, buf.String(), "resolver slow")
}

func TestMasked(t *testing.T) {
	defer SetMasksPrivateData(true)

	SetMasksPrivateData(true)
	assert.Equal(t, "<masked>", Masked("10.0.0.1"))
	assert.Equal(t, "", Masked(""))

	SetMasksPrivateData(false)
	assert.Equal(t, "10.0.0.1", Masked("10.0.0.1"))
	assert.False(t, MasksPrivateData())
}
