package buildinfo

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsDefaults(t *testing.T) {
	info := Get("mins")

	assert.Equal(t, "mins", info.Name)
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, "unknown", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestString_DefaultFormat(t *testing.T) {
	assert.Equal(t, "dev (unknown, unknown)", String())
}

func TestString_CustomValues(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	defer func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	}()

	Version = "v0.3.1"
	Commit = "4c1f2aa"
	BuildTime = "2026-08-30T10:30:00Z"

	assert.Equal(t, "v0.3.1 (4c1f2aa, 2026-08-30T10:30:00Z)", String())
}

func TestInfo_JSONShape(t *testing.T) {
	data, err := json.Marshal(Get("mins"))
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "mins", decoded["name"])
	assert.Contains(t, decoded, "version")
	assert.Contains(t, decoded, "go_version")
}
