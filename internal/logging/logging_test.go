package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain message untouched",
			in:   "storage unavailable",
			want: "storage unavailable",
		},
		{
			name: "password pair",
			in:   "connect failed: user=app password=hunter2 host=db",
			want: "connect failed: user=app password=[REDACTED] host=db",
		},
		{
			name: "dsn userinfo",
			in:   `dial postgres://app:hunter2@db:5432/process failed`,
			want: `dial postgres://app:[REDACTED]@db:5432/process failed`,
		},
		{
			name: "bearer authorization header",
			in:   "upstream rejected Authorization: Bearer abc.def.ghi",
			want: "upstream rejected Authorization: [REDACTED]",
		},
		{
			name: "quoted secret",
			in:   `config {"secret": "x y z"} invalid`,
			want: `config {"secret": [REDACTED]} invalid`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*60*60)
	logger := New(&buf, "info", loc)

	logger.Debug("hidden")
	logger.Error("boom", slog.String("password", "hunter2"), slog.String("component", "test"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, Redacted, entry["password"])
	assert.Equal(t, "test", entry["component"])

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	assert.Equal(t, "rid-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
