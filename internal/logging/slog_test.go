package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextLoggerWritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelWarn)

	log.Info(context.Background(), "too quiet")
	log.Warn(context.Background(), "loud enough", "key", "value")

	out := buf.String()
	require.NotContains(t, out, "too quiet")
	require.Contains(t, out, "loud enough")
	require.Contains(t, out, "key=value")
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo).With("component", "session")

	log.Info(context.Background(), "hello")

	require.Contains(t, buf.String(), "component=session")
}

func TestNopLoggerIsSilent(t *testing.T) {
	log := NopLogger{}
	log.Debug(context.Background(), "x")
	log.Error(context.Background(), "x")
	require.Equal(t, log, log.With("a", "b"))
}
