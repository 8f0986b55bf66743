package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevEnablesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, handler(&buf, "dev").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, handler(&buf, "prod").Enabled(context.Background(), slog.LevelDebug))
}

func TestRecordsCarryServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(handler(&buf, "prod")).With("service", "activos")
	log.Info("db connected")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"service":"activos"`)
	assert.Contains(t, out, `"msg":"db connected"`)
}
