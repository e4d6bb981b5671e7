package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/minutedesk/mins-cli/config"
)

func TestFormatFor(t *testing.T) {
	cfg := config.DefaultConfig()

	format, err := formatFor(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatText, format)

	cfg.OutputFormat = config.OutputFormatYAML
	format, err = formatFor(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatYAML, format)

	format, err = formatFor(cfg, "json")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatJSON, format)

	_, err = formatFor(cfg, "xml")
	require.Error(t, err)

	format, err = formatFor(nil, "")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatText, format)
}

func TestRenderOutput_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	payload := map[string]int{"answer": 42}

	err := renderOutput(buf, config.OutputFormatJSON, payload, func(io.Writer) error {
		t.Fatal("text renderer should not run for json")
		return nil
	})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 42, decoded["answer"])
}

func TestRenderOutput_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	payload := map[string]string{"key": "value"}

	err := renderOutput(buf, config.OutputFormatYAML, payload, func(io.Writer) error {
		t.Fatal("text renderer should not run for yaml")
		return nil
	})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "value", decoded["key"])
}

func TestRenderOutput_TextUsesRenderer(t *testing.T) {
	buf := &bytes.Buffer{}

	err := renderOutput(buf, config.OutputFormatText, nil, func(w io.Writer) error {
		_, werr := w.Write([]byte("rendered\n"))
		return werr
	})
	require.NoError(t, err)
	assert.Equal(t, "rendered\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "this is...", truncate("this is far too long", 10))
}
