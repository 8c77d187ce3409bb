package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("hello", "k", "v")

	assert.Same(t, logger, FromContext(ctx))
	assert.Contains(t, buf.String(), "k=v")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, slog.Default(), FromContext(WithLogger(context.Background(), nil)))
}
