package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log
	buf := &bytes.Buffer{}
	log = slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { log = prev })
	return buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestCtxLogging_CarriesRequestScope(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithActor(ctx, "emp-1", "employer")
	CtxWarn(ctx, "calendar rejected", "employer_id", "emp-1")

	entry := lastLine(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "calendar rejected", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "emp-1", entry["user_id"])
	assert.Equal(t, "employer", entry["role"])

	// actor не затирает request_id и наоборот
	ctx = WithRequestID(ctx, "req-2")
	CtxWithError(ctx, "meeting failed", errors.New("quota"))
	entry = lastLine(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "req-2", entry["request_id"])
	assert.Equal(t, "emp-1", entry["user_id"])
	assert.Equal(t, "quota", entry["error"])
}

func TestCtxLogging_EmptyContext(t *testing.T) {
	buf := captureLog(t)

	CtxInfo(context.Background(), "worker tick")
	entry := lastLine(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "user_id")

	CtxError(nil, "no context") //nolint:staticcheck
	assert.Equal(t, "no context", lastLine(t, buf)["msg"])
}
