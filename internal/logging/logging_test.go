package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crmforms/internal/config"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.Log{Level: "debug", Format: config.FormatJSON}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("cep", "01310-100").Debug("lookup")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lookup", entry["msg"])
	assert.Equal(t, "01310-100", entry["cep"])
}

func TestRejectsUnknownSettings(t *testing.T) {
	_, err := New(config.Log{Level: "loud"})
	assert.Error(t, err)
	_, err = New(config.Log{Format: "xml"})
	assert.Error(t, err)
}
