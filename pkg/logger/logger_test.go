package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := newLogger()

	require.NotNil(t, l)
	formatter, ok := l.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	entry := logrus.NewEntry(logrus.New()).WithField("skill", "stripe")

	ctx = WithLogger(ctx, entry)
	retrieved := G(ctx)

	require.NotNil(t, retrieved)
	assert.Equal(t, "stripe", retrieved.Data["skill"])
}

func TestGetLoggerFallback(t *testing.T) {
	retrieved := G(context.Background())

	require.NotNil(t, retrieved)
	assert.Equal(t, L.Logger, retrieved.Logger)
}

func TestGetLoggerIgnoresForeignValue(t *testing.T) {
	ctx := context.WithValue(context.Background(), loggerKey{}, "not-a-logger")

	retrieved := G(ctx)

	require.NotNil(t, retrieved)
	assert.Equal(t, L.Logger, retrieved.Logger)
}

func TestFieldChaining(t *testing.T) {
	ctx := WithLogger(context.Background(), logrus.NewEntry(logrus.New()).WithField("skill", "stripe"))
	ctx = WithLogger(ctx, G(ctx).WithField("command", "create-charge"))

	final := G(ctx)
	assert.Equal(t, "stripe", final.Data["skill"])
	assert.Equal(t, "create-charge", final.Data["command"])
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	setFormat(l, "json")

	ctx := WithLogger(context.Background(), logrus.NewEntry(l))
	G(ctx).Info("loaded skill")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["logLevel"])
	assert.Equal(t, "loaded skill", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("nonsense"))

	require.NoError(t, SetLogLevel("warn"))
}
