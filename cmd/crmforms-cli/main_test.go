package main

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMode(t *testing.T, mode string) []byte {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	out, err := run(context.Background(), options{
		fixture:   filepath.Join("..", "..", "examples", "fixtures", "lead.yaml"),
		mode:      mode,
		publicURL: "https://forms.example.com",
		timeout:   5 * time.Second,
	}, logger)
	require.NoError(t, err)
	return out
}

func TestExportMode(t *testing.T) {
	html := string(runMode(t, modeExport))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(strings.ToLower(html)), "<!doctype html>"))
	assert.Contains(t, html, "Fale com a gente")
	assert.Contains(t, html, "https://forms.example.com/f/landing/submit")
	assert.Contains(t, html, "Indicação")
}

func TestIframeMode(t *testing.T) {
	snippet := string(runMode(t, modeIframe))
	assert.Contains(t, snippet, "<iframe")
	assert.Contains(t, snippet, "https://forms.example.com/f/landing")
}

func TestOpenAPIMode(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(runMode(t, modeOpenAPI), &doc))
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/f/landing/submit")
}

func TestUnknownMode(t *testing.T) {
	_, err := run(context.Background(), options{
		fixture: filepath.Join("..", "..", "examples", "fixtures", "lead.yaml"),
		mode:    "pdf",
		timeout: time.Second,
	}, logrus.New())
	assert.ErrorContains(t, err, "unknown mode")
}
