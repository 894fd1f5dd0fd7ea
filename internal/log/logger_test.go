package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: "warn", Output: &buf, Service: "test-svc"})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	l.Info().Msg("dropped")
	l.Warn().Str("event", "kept").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "test-svc", entry["service"])
	assert.Equal(t, "kept", entry["event"])
	assert.Equal(t, "warn", entry["level"])
}

func TestBuild_DefaultService(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Output: &buf})
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "portfolio", entry["service"])
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))

	lg := FromContext(ctx, l)
	lg.Info().Msg("x")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	lg = FromContext(context.Background(), l)
	lg.Info().Msg("y")
	assert.NotContains(t, buf.String(), "request_id")
}
