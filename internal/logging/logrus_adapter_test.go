package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "error level with json format", level: "error", format: "json", expectLevel: logrus.ErrorLevel},
		{name: "invalid level defaults to info", level: "chatty", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.base.Level)

			if tt.format == "json" {
				_, ok := adapter.base.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.base.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.base)
}

func TestLogrusAdapter_FieldsReachOutput(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.DebugLevel)

	logger.
		WithField(FieldHash, "a1b2c3d4e5f60718").
		WithFields(Field{Key: FieldRule, Value: "CASHBACK"}).
		WithError(errors.New("store unavailable")).
		Error("message skipped")

	output := buf.String()
	assert.Contains(t, output, "message skipped")
	assert.Contains(t, output, "a1b2c3d4e5f60718")
	assert.Contains(t, output, "CASHBACK")
	assert.Contains(t, output, "store unavailable")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.WarnLevel)

	logger.Debug("duplicate body", Field{Key: FieldHash, Value: "x"})
	logger.Info("ingest started")
	assert.Empty(t, buf.String())

	logger.Warn("source line unreadable", Field{Key: FieldLine, Value: 7})
	assert.Contains(t, buf.String(), "source line unreadable")
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
		{Key: "", Value: "dropped"},
		{Key: "key1", Value: "override"},
	})
	assert.Len(t, logrusFields, 2)
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Equal(t, "override", logrusFields["key1"])
	assert.Len(t, convertFields(nil), 0)
}

func TestNewLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(" DEBUG ", "JSON", &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	NewLogrusAdapterFromLogger(logger).Error("invariant corrected",
		Field{Key: FieldAudit, Value: true},
		Field{Key: FieldHash, Value: "a1b2c3d4e5f60718"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "invariant corrected", entry["message"])
	assert.Equal(t, true, entry[FieldAudit])
	assert.Equal(t, "error", entry["level"])
}

func TestNewLogrusLogger_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger("chatty", "text", &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
	assert.Contains(t, buf.String(), "chatty")
}

func TestGetLogger_SetDefault(t *testing.T) {
	original := GetLogger()
	t.Cleanup(func() { SetDefault(original) })

	mock := NewMockLogger()
	SetDefault(mock)
	assert.Same(t, mock, GetLogger())
	assert.Same(t, mock, OrDefault(nil))

	SetDefault(nil)
	assert.Same(t, mock, GetLogger(), "nil must not clear the default")
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
