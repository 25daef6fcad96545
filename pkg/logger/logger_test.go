package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geofetch/pkg/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewAcceptsAllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "fatal", "disabled", ""} {
		_, err := New(&config.LoggingConfig{Level: level})
		assert.NoError(t, err, "level %q", level)
	}
}

func TestFileOutputCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "geofetch.log")

	log, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)
	log.Info("written to file")

	assert.FileExists(t, path)
}

func TestWithFieldReturnsNewLogger(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "disabled"})
	require.NoError(t, err)

	tagged := log.WithField("source", "twitter")
	assert.NotSame(t, log, tagged)

	// Chaining must not mutate the parent logger's fields.
	tagged.WithFields(map[string]interface{}{"page": 1}).Info("ignored")
	tagged.WithError(nil).Info("ignored")
}

func TestGetLoggerNeverNil(t *testing.T) {
	assert.NotNil(t, GetLogger())
}
