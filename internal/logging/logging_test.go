package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer

	require.NoError(t, SetupWithOutput(logger, "debug", "json", &buf))
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.WithField("vehicle_id", "taxi_0_1").Debug("Reported position")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "taxi_0_1", entry["vehicle_id"])
	assert.Equal(t, "Reported position", entry["msg"])
}

func TestSetup_Text(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer

	require.NoError(t, SetupWithOutput(logger, "warn", "text", &buf))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_Invalid(t *testing.T) {
	logger := log.New()

	assert.Error(t, Setup(logger, "loud", "text"))
	assert.Error(t, Setup(logger, "info", "xml"))
}
