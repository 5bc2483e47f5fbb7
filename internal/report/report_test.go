package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dshills/codex-local/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() config.Config {
	return config.Config{
		config.KeyModel:    "gpt-4",
		config.KeyProvider: "local",
		config.KeyProviders: map[string]any{
			"local": map[string]any{
				config.KeyProviderName:    "Local Middleware",
				config.KeyProviderBaseURL: "http://localhost:1234/v1",
				config.KeyProviderEnvKey:  "LOCAL_API_KEY",
			},
		},
	}
}

func TestWrite_Fresh(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Summary{Path: "/home/dev/.codex/config.json", Config: sampleConfig()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Codex configured for local middleware!")
	assert.Contains(t, out, "Configuration saved to: /home/dev/.codex/config.json")
	assert.Contains(t, out, "Quick Start:")
	assert.Contains(t, out, `export LOCAL_API_KEY="dummy-key-for-local"`)
	assert.Contains(t, out, "- Provider: local")
	assert.Contains(t, out, "- Model: gpt-4")
	assert.Contains(t, out, "- Base URL: http://localhost:1234/v1")
	assert.NotContains(t, out, "Found existing config")
	assert.NotContains(t, out, "\x1b[", "non-terminal output should be unstyled")
}

func TestWrite_Merged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{Path: "p", Config: sampleConfig(), Merged: true}))
	assert.Contains(t, buf.String(), "Found existing config")
}

func TestWrite_Recovered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{Path: "p", Config: sampleConfig(), Recovered: true}))
	assert.Contains(t, buf.String(), "Could not parse existing config")
}

func TestWrite_DryRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{Path: "p", Config: sampleConfig(), DryRun: true}))
	out := buf.String()
	assert.Contains(t, out, "Dry run: nothing was written.")
	assert.NotContains(t, out, "Configuration saved to")
}

func TestWrite_ReadsValuesFromConfig(t *testing.T) {
	cfg := config.Config{
		config.KeyModel:    "qwen2.5-coder",
		config.KeyProvider: "lmstudio",
		config.KeyProviders: map[string]any{
			"lmstudio": map[string]any{
				config.KeyProviderBaseURL: "http://127.0.0.1:8080/v1",
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{Path: "p", Config: cfg}))

	out := buf.String()
	assert.Contains(t, out, "- Provider: lmstudio")
	assert.Contains(t, out, "- Model: qwen2.5-coder")
	assert.Contains(t, out, "- Base URL: http://127.0.0.1:8080/v1")
	assert.Contains(t, out, "No API key variable is configured")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := Write(failingWriter{}, Summary{Config: sampleConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing report")
}
