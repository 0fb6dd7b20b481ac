package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSynth_WritesTemplates(t *testing.T) {
	configPath := writeTestConfig(t, testConfigYAML)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, runSynth(configPath, nil, "json", outDir))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	data, err := os.ReadFile(filepath.Join(outDir, "nightly-backups.json"))
	require.NoError(t, err)

	var tmpl map[string]any
	require.NoError(t, json.Unmarshal(data, &tmpl))
	assert.Equal(t, "2010-09-09", tmpl["AWSTemplateFormatVersion"])
	assert.Contains(t, tmpl, "Resources")
}

func TestRunSynth_SelectedStack(t *testing.T) {
	configPath := writeTestConfig(t, testConfigYAML)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, runSynth(configPath, []string{"payments"}, "yaml", outDir))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "payments.yaml", entries[0].Name())
}

func TestRunSynth_UnknownFormat(t *testing.T) {
	configPath := writeTestConfig(t, testConfigYAML)
	err := runSynth(configPath, nil, "toml", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestRunSynth_UnknownStack(t *testing.T) {
	configPath := writeTestConfig(t, testConfigYAML)
	err := runSynth(configPath, []string{"nope"}, "json", "")
	assert.Error(t, err)
}
