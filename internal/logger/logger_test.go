package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	log.WithField("report_id", "r1").Debug("saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "r1", entry["report_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithOutput_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LogConfig{Level: "loud"}, &buf)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	log.Debug("hidden")
	assert.Empty(t, buf.String())
	log.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
