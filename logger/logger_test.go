package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/config"
)

func TestInit_FileOutput(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	file := filepath.Join(t.TempDir(), "logs", "app.log")
	err := Init(config.LogConfig{Level: "debug", Format: "json", Output: "file", File: file, MaxSize: 1})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.WithField("order_id", "abc").Info("order submitted")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_id":"abc"`)
	assert.Contains(t, string(data), `"message":"order submitted"`)
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	require.NoError(t, Init(config.LogConfig{Level: "loud", Output: "stdout"}))
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
