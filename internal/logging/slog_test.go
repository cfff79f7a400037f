package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLoggerLevels(t *testing.T) {
	ctx := context.Background()

	log, buf := newBufLogger(slog.LevelDebug)
	log.Debug(ctx, "dbg", "k", "v")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	require.Contains(t, out, "msg=dbg")
	require.Contains(t, out, "k=v")
	require.Contains(t, out, "msg=inf")
	require.Contains(t, out, "msg=wrn")
	require.Contains(t, out, "msg=err")
}

func TestSlogLoggerWith(t *testing.T) {
	log, buf := newBufLogger(slog.LevelInfo)

	child := log.With("component", "transport")
	child.Info(context.Background(), "request sent")

	require.Contains(t, buf.String(), "component=transport")
}

func TestNopLoggerDoesNothing(t *testing.T) {
	log := NewNop()
	// Must not panic and With must return a usable logger.
	log.With("a", 1).Info(context.Background(), "ignored")
}
