package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.log")

	l, err := New(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	NewZapAdapter(l).Info("application fetched", map[string]interface{}{"applicationId": "app-1"})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"applicationId":"app-1"`)
	assert.Contains(t, string(data), "application fetched")
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"component": "list"}).
		WithError(errors.New("boom"))

	log.Warn("bulk delete failed", map[string]interface{}{"failed": 1, "cause": errors.New("timeout")})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "bulk delete failed", entry.Message)
	assert.Equal(t, "list", fields["component"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "timeout", fields["cause"])
	assert.EqualValues(t, 1, fields["failed"])
}

func TestNewStructured_FallsBackOnBadOutput(t *testing.T) {
	log := NewStructured(Options{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.NotNil(t, log)
	log.Info("still usable", nil)
}
