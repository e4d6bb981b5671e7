package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutedesk/mins-cli/pkg/buildinfo"
)

func TestVersionCommand_Text(t *testing.T) {
	deps, out := testDeps(newFakeStore(), "")

	cmd := NewVersionCommand(deps)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "mins "+buildinfo.Version)
	assert.Contains(t, out.String(), "go:")
}

func TestVersionCommand_JSON(t *testing.T) {
	deps, out := testDeps(newFakeStore(), "")

	cmd := NewVersionCommand(deps)
	cmd.SetArgs([]string{"--output", "json"})
	require.NoError(t, cmd.Execute())

	var info buildinfo.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "mins", info.Name)
	assert.Equal(t, buildinfo.Version, info.Version)
}
