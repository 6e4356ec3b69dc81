package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/myrjola/spbot/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))
	logger = logger.With("source", "test")

	ctx := logging.WithConversation(context.Background(), "conv-1")
	ctx = logging.WithAttrs(ctx, slog.String("caseID", "chest-pain-01"))
	logger.LogAttrs(ctx, slog.LevelInfo, "turn handled")

	out := buf.String()
	require.Contains(t, out, "conversationID=conv-1")
	require.Contains(t, out, "caseID=chest-pain-01")
	require.Contains(t, out, "source=test")
}

func TestWithAttrsDoesNotShareSiblings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	parent := logging.WithAttrs(context.Background(), slog.String("a", "1"), slog.String("b", "2"))
	first := logging.WithAttrs(parent, slog.String("sibling", "first"))
	_ = logging.WithAttrs(parent, slog.String("sibling", "second"))

	logger.LogAttrs(first, slog.LevelInfo, "msg")
	require.Contains(t, buf.String(), "sibling=first")
	require.NotContains(t, buf.String(), "sibling=second")
}
