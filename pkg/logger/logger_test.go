package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Service: "contracts", Environment: "test", Output: &buf})
	require.NoError(t, err)

	log.Debug("rendered")
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rendered", entry["msg"])
	assert.Equal(t, "contracts", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Config{Output: &buf})
	require.NoError(t, err)

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), "u-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	FromContext(ctx, base).Info("signed")
	require.NoError(t, base.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "u-1", entry["user_id"])

	assert.Same(t, base, FromContext(context.Background(), base))
}
